package object

import (
	"github.com/tomz197/balloon-darts/internal/game/config"
	"github.com/tomz197/balloon-darts/internal/physics"
)

// Balloon is a single target on the board.
type Balloon struct {
	ID     string
	X, Y   float64 // Center position
	Radius float64
	Color  Color
	Points int
	Popped bool
	VX, VY float64 // Reserved for moving boards; always zero
}

// Center returns the balloon's position.
func (b *Balloon) Center() Point {
	return Point{X: b.X, Y: b.Y}
}

// IsHit reports whether a dart landing at p hits the balloon. The balloon's
// radius is widened by config.HitMargin; popped state is not considered.
func IsHit(p Point, b *Balloon) bool {
	return physics.IsHit(p.X, p.Y, b.X, b.Y, b.Radius, config.HitMargin)
}
