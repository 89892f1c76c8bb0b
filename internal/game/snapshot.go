package game

import (
	"github.com/tomz197/balloon-darts/internal/object"
)

// BalloonView is a read-only copy of a balloon for rendering.
type BalloonView struct {
	ID     string       `json:"id"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Radius float64      `json:"radius"`
	Color  object.Color `json:"color"`
	Points int          `json:"points"`
	Popped bool         `json:"popped"`
}

// DartView describes the dart in flight.
type DartView struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scale    float64 `json:"scale"`
	Angle    float64 `json:"angle"`
	Progress float64 `json:"progress"`
}

// ParticleView is a read-only copy of a particle for rendering.
type ParticleView struct {
	X     float64      `json:"x"`
	Y     float64      `json:"y"`
	Life  float64      `json:"life"`
	Color object.Color `json:"color"`
}

// Snapshot is an immutable copy of a session for renderers.
type Snapshot struct {
	Tick            uint64         `json:"tick"`
	Score           int            `json:"score"`
	Level           int            `json:"level"`
	DartsLeft       int            `json:"dartsLeft"`
	Streak          int            `json:"streak"`
	GameOver        bool           `json:"gameOver"`
	LevelTransition bool           `json:"levelTransition"`
	Width           float64        `json:"width"`
	Height          float64        `json:"height"`
	Balloons        []BalloonView  `json:"balloons"`
	Dart            *DartView      `json:"dart,omitempty"`
	Particles       []ParticleView `json:"particles"`
}

// Snapshot copies the session into a value renderers may keep.
func (s *Session) Snapshot() *Snapshot {
	snap := &Snapshot{
		Score:           s.state.Score,
		Level:           s.state.Level,
		DartsLeft:       s.state.DartsLeft,
		Streak:          s.state.Streak,
		GameOver:        s.state.GameOver,
		LevelTransition: s.pendingLevel > 0,
		Width:           s.viewport.Width,
		Height:          s.viewport.Height,
		Balloons:        make([]BalloonView, 0, len(s.board.Balloons)),
		Particles:       make([]ParticleView, 0, s.particles.Len()),
	}

	for _, b := range s.board.Balloons {
		snap.Balloons = append(snap.Balloons, BalloonView{
			ID:     b.ID,
			X:      b.X,
			Y:      b.Y,
			Radius: b.Radius,
			Color:  b.Color,
			Points: b.Points,
			Popped: b.Popped,
		})
	}

	if f := s.flight; f != nil {
		pos := f.Position()
		snap.Dart = &DartView{
			X:        pos.X,
			Y:        pos.Y,
			Scale:    f.Scale(),
			Angle:    f.Angle(),
			Progress: f.Progress,
		}
	}

	s.particles.Each(func(p *object.Particle) {
		snap.Particles = append(snap.Particles, ParticleView{X: p.X, Y: p.Y, Life: p.Life, Color: p.Color})
	})

	return snap
}
