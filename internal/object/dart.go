package object

import (
	"math"

	"github.com/tomz197/balloon-darts/internal/game/config"
	"github.com/tomz197/balloon-darts/internal/physics"
)

// arrivalEpsilon absorbs float drift from summing DartStep so that a
// flight arrives after exactly 1/DartStep ticks.
const arrivalEpsilon = 1e-9

// Flight is the single in-progress dart trajectory from launch to resolution.
type Flight struct {
	Origin   Point
	Target   Point
	Progress float64 // 0 at launch, 1 on arrival
}

// NewFlight creates a dart travelling from origin to target.
func NewFlight(origin, target Point) *Flight {
	return &Flight{Origin: origin, Target: target}
}

// Advance moves the dart one tick forward by step. It returns true once the
// dart has arrived; callers resolve against Target and discard the flight.
func (f *Flight) Advance(step float64) (arrived bool) {
	f.Progress += step
	if f.Progress >= 1-arrivalEpsilon {
		f.Progress = 1
		return true
	}
	return false
}

// Position returns the interpolated point along the straight line from
// origin to target.
func (f *Flight) Position() Point {
	return Point{
		X: physics.Lerp(f.Origin.X, f.Target.X, f.Progress),
		Y: physics.Lerp(f.Origin.Y, f.Target.Y, f.Progress),
	}
}

// Scale returns the render scale: the dart shrinks as it travels away.
func (f *Flight) Scale() float64 {
	return config.DartStartScale * (1 - f.Progress*config.DartScaleDecay)
}

// Angle returns the heading of the dart in radians.
func (f *Flight) Angle() float64 {
	return math.Atan2(f.Target.Y-f.Origin.Y, f.Target.X-f.Origin.X)
}
