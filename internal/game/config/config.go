// Package config centralizes all tunable game parameters.
package config

import "time"

// Ammunition
const (
	InitialDarts    = 10
	LevelBonusDarts = 3 // Added on every level clear (not on the first level)
)

// Board layout
const (
	BoardRows       = 3
	BaseColumns     = 4 // Columns = min(BaseColumns + level, MaxColumns)
	MaxColumns      = 8
	BalloonSpacingX = 90.0
	BalloonSpacingY = 100.0
	BoardLift       = 50.0 // Board is raised this far above true vertical center
	BalloonRadius   = 30.0
)

// Scoring
const (
	BasePoints     = 10
	PointsPerLevel = 5 // Balloon value = BasePoints + level*PointsPerLevel
	StreakInterval = 3 // A streak event fires every StreakInterval consecutive pops
)

// Dart flight
const (
	DartStep       = 0.04  // Progress added per tick (~25 ticks per throw)
	DartLaunchDrop = 100.0 // Launch point sits this far below the viewport bottom
	DartStartScale = 2.5
	DartScaleDecay = 0.6
	HitMargin      = 10.0 // Forgiveness added to the balloon radius
)

// Particles
const (
	ParticleBurst    = 12
	ParticleMinSpeed = 2.0
	ParticleMaxSpeed = 6.0
	ParticleGravity  = 0.1  // Added to VY every tick
	ParticleDecay    = 0.02 // Subtracted from life every tick
)

// Level progression
const (
	LevelTransitionDelay = 800 * time.Millisecond
)

// Tick rate
const (
	DefaultTickRate = 60
	DefaultTickTime = time.Second / DefaultTickRate
)

// Default viewport used when a front end has no pixel dimensions of its own.
const (
	DefaultViewWidth  = 960
	DefaultViewHeight = 640
)

// Terminal client
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 240 // Larger terminals get a centered, bordered play area
	MaxTermHeight         = 80
	AimSpeed              = 6.0 // Crosshair movement per frame in board units
	AimFastSpeed          = 18.0
	MinViewWidth          = 480.0 // Terminal aspect ratio is clamped to this range
	MaxViewWidth          = 1600.0
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Commentary
const (
	SecondaryChance   = 0.7
	SecondaryDelay    = 500 * time.Millisecond
	AnnouncerDuration = 3000 * time.Millisecond
	VendorDuration    = 4000 * time.Millisecond
)

// Columns returns the board width in balloons for a level.
func Columns(level int) int {
	return min(BaseColumns+level, MaxColumns)
}

// BalloonPoints returns the value of every balloon on a level's board.
func BalloonPoints(level int) int {
	return BasePoints + level*PointsPerLevel
}

// DelayTicks converts a wall-clock delay into whole ticks at the given rate,
// rounding up so the delay is never shorter than requested.
func DelayTicks(d time.Duration, tickRate int) int {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	tick := time.Second / time.Duration(tickRate)
	n := int((d + tick - 1) / tick)
	if n < 1 {
		n = 1
	}
	return n
}
