// Package draw renders colored half-block graphics to a terminal.
package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a 24-bit terminal color. The zero value means "no pixel".
type Color uint32

const (
	colorSet     Color = 1 << 24
	colorInvalid Color = 0xffffffff // Never equal to a drawn pixel
)

// RGB builds a color from its components.
func RGB(r, g, b uint8) Color {
	return colorSet | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// Components returns the red, green and blue channels.
func (c Color) Components() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Scale darkens (f < 1) or brightens the color, clamping each channel.
func (c Color) Scale(f float64) Color {
	if c == 0 {
		return 0
	}
	r, g, b := c.Components()
	ch := func(v uint8) uint8 {
		x := float64(v) * f
		if x > 255 {
			return 255
		}
		if x < 0 {
			return 0
		}
		return uint8(x)
	}
	return RGB(ch(r), ch(g), ch(b))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
