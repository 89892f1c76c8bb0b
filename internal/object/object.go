// Package object defines the board entities of a darts game: balloons,
// the dart in flight and decorative particles.
package object

import (
	"strconv"

	"github.com/tomz197/balloon-darts/internal/game/config"
)

// Point is a position in board coordinates.
type Point struct {
	X, Y float64
}

// Viewport is the size of the play area in board coordinates.
type Viewport struct {
	Width  float64
	Height float64
}

// DefaultViewport returns the play area used when a front end has no
// dimensions of its own.
func DefaultViewport() Viewport {
	return Viewport{Width: config.DefaultViewWidth, Height: config.DefaultViewHeight}
}

// Center returns the middle of the viewport.
func (v Viewport) Center() Point {
	return Point{X: v.Width / 2, Y: v.Height / 2}
}

// LaunchPoint returns where darts are thrown from: bottom-center,
// slightly below the visible area.
func (v Viewport) LaunchPoint() Point {
	return Point{X: v.Width / 2, Y: v.Height + config.DartLaunchDrop}
}

// Valid reports whether the viewport has a usable area.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// Color is one of the fixed balloon palette entries.
type Color int

const (
	ColorRed Color = iota
	ColorBlue
	ColorGreen
	ColorYellow
	ColorPurple
	ColorPink
	ColorCyan
)

// Palette lists every balloon color in declaration order.
var Palette = [...]Color{ColorRed, ColorBlue, ColorGreen, ColorYellow, ColorPurple, ColorPink, ColorCyan}

var colorHex = [...]string{
	ColorRed:    "#ef4444",
	ColorBlue:   "#3b82f6",
	ColorGreen:  "#22c55e",
	ColorYellow: "#eab308",
	ColorPurple: "#a855f7",
	ColorPink:   "#ec4899",
	ColorCyan:   "#06b6d4",
}

var colorNames = [...]string{
	ColorRed:    "red",
	ColorBlue:   "blue",
	ColorGreen:  "green",
	ColorYellow: "yellow",
	ColorPurple: "purple",
	ColorPink:   "pink",
	ColorCyan:   "cyan",
}

// Hex returns the CSS hex code of the color.
func (c Color) Hex() string {
	if c < 0 || int(c) >= len(colorHex) {
		return "#ffffff"
	}
	return colorHex[c]
}

// RGB returns the color components.
func (c Color) RGB() (r, g, b uint8) {
	hex := c.Hex()
	return hexByte(hex[1:3]), hexByte(hex[3:5]), hexByte(hex[5:7])
}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return "unknown"
	}
	return colorNames[c]
}

// MarshalText encodes the color as its hex code (used by JSON frames).
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func hexByte(s string) uint8 {
	v, _ := strconv.ParseUint(s, 16, 8)
	return uint8(v)
}
