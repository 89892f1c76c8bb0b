// Package web serves the game to browsers over WebSocket. Every connection
// gets its own session, runner and commentary dispatcher.
package web

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/balloon-darts/internal/commentary"
	"github.com/tomz197/balloon-darts/internal/game"
	"github.com/tomz197/balloon-darts/internal/game/config"
	"github.com/tomz197/balloon-darts/internal/object"
)

const (
	DefaultFrameRate = 30
	readLimit        = 4096
	writeTimeout     = 5 * time.Second
)

// errClientGone ends a connection's goroutines when the browser leaves.
var errClientGone = errors.New("client closed the connection")

// Options configures a Handler. Zero values select the defaults.
type Options struct {
	TickRate       int
	FrameRate      int                  // Frames pushed per second
	Generator      commentary.Generator // Nil disables commentary
	Logger         *log.Logger
	OriginPatterns []string // Extra origins allowed to connect
	Seed           func() int64
}

// Handler upgrades requests to WebSocket connections and plays one game
// per connection.
type Handler struct {
	opts   Options
	logger *log.Logger
}

// NewHandler creates a handler.
func NewHandler(opts Options) *Handler {
	if opts.TickRate <= 0 {
		opts.TickRate = config.DefaultTickRate
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = DefaultFrameRate
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Seed == nil {
		opts.Seed = func() int64 { return time.Now().UnixNano() }
	}
	return &Handler{opts: opts, logger: opts.Logger.WithPrefix("web")}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.opts.OriginPatterns,
	})
	if err != nil {
		h.logger.Error("failed to accept", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(readLimit)

	logger := h.logger.With("remote", r.RemoteAddr)
	logger.Info("player connected")

	err = h.play(r.Context(), conn, logger)
	switch {
	case err == nil, errors.Is(err, errClientGone), errors.Is(err, context.Canceled):
		logger.Info("player disconnected")
		conn.Close(websocket.StatusNormalClosure, "")
	default:
		logger.Warn("connection ended", "err", err)
		conn.Close(websocket.StatusInternalError, "game error")
	}
}

// play runs a game on conn until the client leaves or ctx ends.
func (h *Handler) play(ctx context.Context, conn *websocket.Conn, logger *log.Logger) error {
	session := game.NewSession(game.Options{
		TickRate: h.opts.TickRate,
		Rand:     rand.New(rand.NewSource(h.opts.Seed())),
	})

	cues := &cueBuffer{}
	listeners := []game.Listener{cues}

	var voices *commentary.Dispatcher
	if h.opts.Generator != nil {
		voices = commentary.NewDispatcher(h.opts.Generator, commentary.Options{Logger: logger})
		defer voices.Close()
		listeners = append(listeners, voices)
	}

	runner := game.NewRunner(session, game.RunnerOptions{
		TickRate:  h.opts.TickRate,
		Listeners: listeners,
	})

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return runner.Run(ctx)
	})
	eg.Go(func() error {
		return h.readLoop(ctx, conn, runner, logger)
	})
	eg.Go(func() error {
		return h.writeLoop(ctx, conn, runner, cues, voices)
	})
	return eg.Wait()
}

// readLoop applies browser commands to the runner.
func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, runner *game.Runner, logger *log.Logger) error {
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return errClientGone
			}
			return err
		}
		if err := msg.Validate(); err != nil {
			logger.Debug("ignoring message", "err", err)
			continue
		}

		switch msg.Type {
		case TypeThrow:
			runner.Throw(msg.X, msg.Y)
		case TypeRestart:
			runner.Restart()
		case TypeResize:
			if (object.Viewport{Width: msg.Width, Height: msg.Height}).Valid() {
				runner.Resize(msg.Width, msg.Height)
			}
		}
	}
}

// writeLoop pushes a frame whenever the game or the commentary changed.
func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, runner *game.Runner, cues *cueBuffer, voices *commentary.Dispatcher) error {
	ticker := time.NewTicker(time.Second / time.Duration(h.opts.FrameRate))
	defer ticker.Stop()

	lastTick := ^uint64(0)
	var lastVoices []commentary.Message

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		snap := runner.Snapshot()
		frameCues := cues.drain()
		var msgs []commentary.Message
		if voices != nil {
			msgs = voices.Messages()
		}
		if snap.Tick == lastTick && len(frameCues) == 0 && slices.Equal(msgs, lastVoices) {
			continue
		}
		lastTick, lastVoices = snap.Tick, msgs

		if frameCues == nil {
			frameCues = []game.EventKind{}
		}
		if msgs == nil {
			msgs = []commentary.Message{}
		}
		frame := Frame{Type: TypeFrame, State: snap, Cues: frameCues, Voices: msgs}

		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := wsjson.Write(wctx, conn, frame)
		cancel()
		if err != nil {
			return err
		}
	}
}
