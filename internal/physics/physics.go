// Package physics provides collision detection and distance utilities.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// IsHit reports whether a point lands on a circular target of the given radius.
// The target is widened by margin; a point exactly on the widened edge misses.
func IsHit(px, py, cx, cy, radius, margin float64) bool {
	return Distance(px, py, cx, cy) < radius+margin
}

// Lerp interpolates between a and b; t=0 yields a, t=1 yields b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
