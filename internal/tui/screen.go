package tui

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/tomz197/balloon-darts/internal/commentary"
	"github.com/tomz197/balloon-darts/internal/draw"
	"github.com/tomz197/balloon-darts/internal/game"
	"github.com/tomz197/balloon-darts/internal/object"
)

// maxAmmoIcons is how many dart icons the HUD shows before "+N".
const maxAmmoIcons = 8

var (
	colorString    = draw.RGB(148, 163, 184)
	colorCrosshair = draw.RGB(255, 255, 255)
	colorDart      = draw.RGB(250, 204, 21)
	colorFlight    = draw.RGB(226, 232, 240)
	colorAnnouncer = draw.RGB(56, 189, 248)
	colorVendor    = draw.RGB(251, 146, 60)
	colorWarning   = draw.RGB(248, 113, 113)
)

func balloonColor(c object.Color) draw.Color {
	r, g, b := c.RGB()
	return draw.RGB(r, g, b)
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	snap := c.game.Snapshot()

	// Game over toggles a full-screen message, so start from a clean terminal.
	if snap.GameOver != c.prevOver {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.overlays = c.overlays[:0]
		c.prevOver = snap.GameOver
	}

	// Repaint the cells under last frame's text.
	for _, o := range c.overlays {
		c.canvas.Invalidate(o.col, o.row, o.width)
	}
	c.overlays = c.overlays[:0]

	c.canvas.Clear()
	c.drawBalloons(snap)
	c.drawParticles(snap)
	c.drawDart(snap)
	if !snap.GameOver {
		c.drawCrosshair()
	}

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(snap)
	c.chunkWriter.ResetStyle()

	return c.chunkWriter.Flush()
}

func (c *Client) drawBalloons(snap *game.Snapshot) {
	for _, b := range snap.Balloons {
		if b.Popped {
			continue
		}
		col := balloonColor(b.Color)
		c.canvas.DrawLine(
			draw.Point{X: b.X, Y: b.Y + b.Radius},
			draw.Point{X: b.X + 4, Y: b.Y + b.Radius*2},
			colorString,
		)
		c.canvas.FillCircle(draw.Point{X: b.X, Y: b.Y + b.Radius*0.1}, b.Radius*0.95, col.Scale(0.8))
		c.canvas.FillCircle(draw.Point{X: b.X, Y: b.Y}, b.Radius*0.85, col)
		c.canvas.FillCircle(draw.Point{X: b.X - b.Radius/3, Y: b.Y - b.Radius/3}, b.Radius/5, col.Scale(1.5))
	}
}

func (c *Client) drawParticles(snap *game.Snapshot) {
	for _, p := range snap.Particles {
		col := balloonColor(p.Color).Scale(0.4 + 0.6*p.Life)
		c.canvas.FillCircle(draw.Point{X: p.X, Y: p.Y}, 3, col)
	}
}

// drawDart draws the dart as a shaft pointing along its flight, shrinking
// as it travels away from the player.
func (c *Client) drawDart(snap *game.Snapshot) {
	d := snap.Dart
	if d == nil {
		return
	}
	length := 18 * d.Scale
	dx, dy := math.Cos(d.Angle), math.Sin(d.Angle)
	tip := draw.Point{X: d.X, Y: d.Y}
	tail := draw.Point{X: d.X - dx*length, Y: d.Y - dy*length}

	c.canvas.DrawLine(tail, tip, colorDart)

	// Fletching
	px, py := -dy*4*d.Scale, dx*4*d.Scale
	pts := c.canvas.BorrowPoints(3)
	pts[0] = tail
	pts[1] = draw.Point{X: tail.X + dx*6*d.Scale + px, Y: tail.Y + dy*6*d.Scale + py}
	pts[2] = draw.Point{X: tail.X + dx*6*d.Scale - px, Y: tail.Y + dy*6*d.Scale - py}
	c.canvas.DrawPolygon(pts, colorFlight, true)
}

func (c *Client) drawCrosshair() {
	const arm = 14.0
	a := c.aim
	c.canvas.DrawLine(draw.Point{X: a.X - arm, Y: a.Y}, draw.Point{X: a.X - arm/3, Y: a.Y}, colorCrosshair)
	c.canvas.DrawLine(draw.Point{X: a.X + arm/3, Y: a.Y}, draw.Point{X: a.X + arm, Y: a.Y}, colorCrosshair)
	c.canvas.DrawLine(draw.Point{X: a.X, Y: a.Y - arm}, draw.Point{X: a.X, Y: a.Y - arm/3}, colorCrosshair)
	c.canvas.DrawLine(draw.Point{X: a.X, Y: a.Y + arm/3}, draw.Point{X: a.X, Y: a.Y + arm}, colorCrosshair)
	c.canvas.SetFloat(a.X, a.Y, colorWarning)
}

// writeAt writes text over the canvas and remembers it for erasing.
func (c *Client) writeAt(col, row int, s string) {
	width := utf8.RuneCountInString(s)
	if row < 1 || row > c.canvas.TerminalHeight() || width == 0 {
		return
	}
	col = max(col, 1)
	if over := col + width - 1 - c.canvas.TerminalWidth(); over > 0 {
		s = truncate(s, width-over)
		width -= over
	}
	c.chunkWriter.WriteAt(col, row, s)
	c.overlays = append(c.overlays, overlay{col: col, row: row, width: width})
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// drawUI draws the HUD and any full-screen message.
func (c *Client) drawUI(snap *game.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	c.drawHUD(termWidth, termHeight, snap)
	c.drawVoices(termWidth, termHeight)

	if snap.GameOver {
		c.drawGameOverScreen(centerX, centerY, snap)
	} else if snap.LevelTransition {
		msg := "STAGE CLEAR!"
		c.chunkWriter.SetColor(colorDart)
		c.writeAt(centerX-len(msg)/2, centerY, msg)
		c.chunkWriter.SetColor(0)
	}
}

// AmmoText renders the remaining darts as icons, collapsing the excess
// beyond maxAmmoIcons into a "+N" suffix.
func AmmoText(darts int) string {
	if darts <= 0 {
		return "EMPTY"
	}
	shown := min(darts, maxAmmoIcons)
	s := strings.Repeat("➶ ", shown)
	if darts > maxAmmoIcons {
		s += fmt.Sprintf("+%d", darts-maxAmmoIcons)
	}
	return strings.TrimRight(s, " ")
}

func (c *Client) drawHUD(termWidth, termHeight int, snap *game.Snapshot) {
	c.writeAt(2, 1, fmt.Sprintf("SCORE %06d", snap.Score))

	stage := fmt.Sprintf("STAGE %d", snap.Level)
	c.writeAt(termWidth/2-len(stage)/2, 1, stage)

	ammo := "AMMO " + AmmoText(snap.DartsLeft)
	c.writeAt(termWidth-utf8.RuneCountInString(ammo), 1, ammo)

	if snap.Streak >= 2 && !snap.GameOver {
		streak := fmt.Sprintf("STREAK x%d", snap.Streak)
		c.writeAt(2, 2, streak)
	}

	help := "arrows/WASD aim  SPACE throw  R restart  Q quit"
	if len(help) < termWidth-2 {
		c.writeAt(termWidth/2-len(help)/2, termHeight, help)
	}
}

// drawVoices shows the visible commentary lines: the announcer at the top
// left, the vendor at the bottom right.
func (c *Client) drawVoices(termWidth, termHeight int) {
	if c.voices == nil {
		return
	}
	for _, m := range c.voices.Messages() {
		if !m.Visible {
			continue
		}
		line := fmt.Sprintf("%s: %s", m.Voice.Title(), m.Text)
		switch m.Voice {
		case commentary.Vendor:
			c.chunkWriter.SetColor(colorVendor)
			c.writeAt(termWidth-utf8.RuneCountInString(line)-1, termHeight-2, line)
		default:
			c.chunkWriter.SetColor(colorAnnouncer)
			c.writeAt(2, 3, line)
		}
	}
	c.chunkWriter.SetColor(0)
}

func (c *Client) drawGameOverScreen(centerX, centerY int, snap *game.Snapshot) {
	title := []string{
		` ___ ___ _  _ ___ ___ _  _ _ `,
		`| __|_ _| \| |_ _/ __| || | |`,
		`| _| | || .' || |\__ \ __ |_|`,
		`|_| |___|_|\_|___|___/_||_(_)`,
	}
	c.chunkWriter.SetColor(colorWarning)
	for i, line := range title {
		c.writeAt(centerX-len(line)/2, centerY-5+i, line)
	}
	c.chunkWriter.SetColor(0)

	score := fmt.Sprintf("FINISH! Final score: %d  (stage %d)", snap.Score, snap.Level)
	c.writeAt(centerX-len(score)/2, centerY+1, score)

	prompt := ">>  Press R to play again  <<"
	c.writeAt(centerX-len(prompt)/2, centerY+3, prompt)
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	title := "INACTIVITY WARNING"
	c.writeAt(centerX-len(title)/2, centerY-2, title)

	msg := "You will be disconnected soon. Press any key to continue."
	c.writeAt(centerX-len(msg)/2, centerY, msg)
}
