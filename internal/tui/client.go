// Package tui is the terminal front end: it reads keys, steers a crosshair,
// forwards throws to a game runner and draws its snapshots.
package tui

import (
	"bufio"
	"context"
	"io"
	"math"
	"time"

	"github.com/tomz197/balloon-darts/internal/commentary"
	"github.com/tomz197/balloon-darts/internal/draw"
	"github.com/tomz197/balloon-darts/internal/game"
	"github.com/tomz197/balloon-darts/internal/game/config"
	"github.com/tomz197/balloon-darts/internal/input"
	"github.com/tomz197/balloon-darts/internal/object"
)

// Game is the part of a game runner the client drives.
type Game interface {
	Snapshot() *game.Snapshot
	Throw(x, y float64)
	Restart()
	Resize(width, height float64)
}

// VoiceSource supplies the commentary lines to show, if any.
type VoiceSource interface {
	Messages() []commentary.Message
}

// Client handles rendering and input for a single terminal.
type Client struct {
	game         Game
	voices       VoiceSource
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc

	input      input.Input
	aim        object.Point
	view       object.Viewport
	lastInput  time.Time
	running    bool
	isInactive bool
	overlays   []overlay // Text written last frame, erased before the next
	prevOver   bool
}

// overlay is a span of text drawn over the canvas.
type overlay struct {
	col, row, width int
}

// Options configures the client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Voices       VoiceSource
}

// NewClient creates a client that plays g on the terminal behind r and w.
func NewClient(g Game, r *bufio.Reader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	snap := g.Snapshot()
	view := object.Viewport{Width: snap.Width, Height: snap.Height}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, view.Width, view.Height)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		game:         g,
		voices:       opts.Voices,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		aim:          view.Center(),
		view:         view,
		lastInput:    time.Now(),
		running:      true,
	}
}

// Run starts the client loop. Blocks until the player quits, the input
// ends or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	for c.running {
		frameStart := time.Now()

		select {
		case <-ctx.Done():
			c.running = false
			continue
		default:
		}

		c.processInput()
		c.updateScreen()

		if err := c.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads keys, moves the crosshair and forwards actions.
func (c *Client) processInput() {
	c.input = input.ReadInput(c.inputStream)

	if len(c.input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.isInactive = true
	}

	if c.input.Quit {
		c.running = false
		return
	}

	c.steer(c.input)

	if c.input.Restart {
		c.game.Restart()
		input.ResetKeyInput(c.inputStream)
	}
	if c.input.Throw {
		c.game.Throw(c.aim.X, c.aim.Y)
	}
}

// steer moves the crosshair and keeps it inside the viewport.
func (c *Client) steer(in input.Input) {
	speed := config.AimSpeed
	if in.Fast {
		speed = config.AimFastSpeed
	}
	if in.Left {
		c.aim.X -= speed
	}
	if in.Right {
		c.aim.X += speed
	}
	if in.Up {
		c.aim.Y -= speed
	}
	if in.Down {
		c.aim.Y += speed
	}
	c.aim.X = math.Max(0, math.Min(c.aim.X, c.view.Width))
	c.aim.Y = math.Max(0, math.Min(c.aim.Y, c.view.Height))
}

// updateScreen handles terminal resize. The board keeps its height and
// takes its width from the terminal's aspect ratio, so balloons stay round.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
		c.overlays = c.overlays[:0]
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)

	view := viewportFor(renderWidth, renderHeight, c.view.Height)
	if view != c.view {
		c.aim.X *= view.Width / c.view.Width
		c.view = view
		c.canvas.SetLogicalSize(view.Width, view.Height)
		c.game.Resize(view.Width, view.Height)
	}
}

// viewportFor returns the board size matching a render area of square
// half-block pixels at the given board height.
func viewportFor(renderWidth, renderHeight int, height float64) object.Viewport {
	if renderWidth <= 0 || renderHeight <= 0 {
		return object.Viewport{Width: config.DefaultViewWidth, Height: height}
	}
	width := height * float64(renderWidth) / float64(renderHeight*2)
	width = math.Max(config.MinViewWidth, math.Min(width, config.MaxViewWidth))
	return object.Viewport{Width: math.Round(width), Height: height}
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}
