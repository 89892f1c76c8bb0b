package object

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/balloon-darts/internal/game/config"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect. It never affects gameplay.
type Particle struct {
	X, Y   float64 // Position
	VX, VY float64 // Velocity per tick
	Life   float64 // 1.0 when spawned, removed at <= 0
	Color  Color
}

// newParticle takes a particle from the pool.
func newParticle(x, y, vx, vy float64, color Color) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = vx
	p.VY = vy
	p.Life = 1.0
	p.Color = color
	return p
}

// Release returns the particle to the pool for reuse.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// advance applies one tick of motion. Returns true if the particle expired.
func (p *Particle) advance() bool {
	p.X += p.VX
	p.Y += p.VY
	p.VY += config.ParticleGravity
	p.Life -= config.ParticleDecay
	return p.Life <= 0
}

// ParticleSet holds every live particle.
type ParticleSet struct {
	particles []*Particle
	rng       *rand.Rand
}

// NewParticleSet creates an empty set drawing burst speeds from rng.
func NewParticleSet(rng *rand.Rand) *ParticleSet {
	return &ParticleSet{rng: rng}
}

// Spawn adds a burst of config.ParticleBurst particles at (x, y), evenly
// spread around a full circle with speeds in [ParticleMinSpeed, ParticleMaxSpeed).
func (s *ParticleSet) Spawn(x, y float64, color Color) {
	step := 2 * math.Pi / config.ParticleBurst
	for i := range config.ParticleBurst {
		angle := step * float64(i)
		speed := config.ParticleMinSpeed + s.rng.Float64()*(config.ParticleMaxSpeed-config.ParticleMinSpeed)
		s.particles = append(s.particles, newParticle(x, y, math.Cos(angle)*speed, math.Sin(angle)*speed, color))
	}
}

// AdvanceAll moves every particle one tick and prunes the expired ones.
func (s *ParticleSet) AdvanceAll() {
	kept := s.particles[:0]
	for _, p := range s.particles {
		if p.advance() {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(s.particles[len(kept):])
	s.particles = kept
}

// Len returns the number of live particles.
func (s *ParticleSet) Len() int {
	return len(s.particles)
}

// Each calls fn for every live particle. fn must not retain p.
func (s *ParticleSet) Each(fn func(p *Particle)) {
	for _, p := range s.particles {
		fn(p)
	}
}
