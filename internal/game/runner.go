package game

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tomz197/balloon-darts/internal/game/config"
	"github.com/tomz197/balloon-darts/internal/object"
)

// commandKind identifies a queued player command.
type commandKind int

const (
	cmdThrow commandKind = iota
	cmdRestart
	cmdResize
)

// command is player input queued for the loop goroutine.
type command struct {
	kind commandKind
	x, y float64 // Aim point for throws, dimensions for resizes
}

// RunnerOptions configures a frame loop.
type RunnerOptions struct {
	TickRate  int        // Ticks per second; config.DefaultTickRate if zero
	Listeners []Listener // Receive every session event, in order, on the loop goroutine
}

// Runner drives a session once per tick and publishes snapshots for
// renderers. The session is only touched by the Run goroutine.
type Runner struct {
	session   *Session
	snapshot  atomic.Pointer[Snapshot]
	commands  chan command
	listeners []Listener
	tickTime  time.Duration
	ticks     uint64
}

// NewRunner wraps a session in a frame loop. The session must not be used
// directly once Run has started.
func NewRunner(session *Session, opts RunnerOptions) *Runner {
	tickRate := opts.TickRate
	if tickRate <= 0 {
		tickRate = config.DefaultTickRate
	}
	r := &Runner{
		session:   session,
		commands:  make(chan command, 64),
		listeners: opts.Listeners,
		tickTime:  time.Second / time.Duration(tickRate),
	}
	r.snapshot.Store(session.Snapshot())
	return r
}

// Run ticks the session until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	// Events emitted while the session was built (the opening level_up).
	r.dispatch()

	ticker := time.NewTicker(r.tickTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Step()
		}
	}
}

// Step runs one frame synchronously: queued commands, one simulation tick,
// event dispatch and snapshot publication. Run calls it on every tick; it is
// exported for deterministic drivers and must not race with Run.
func (r *Runner) Step() TickResult {
	r.applyCommands()
	res := r.session.Tick()
	r.ticks++
	r.dispatch()

	snap := r.session.Snapshot()
	snap.Tick = r.ticks
	r.snapshot.Store(snap)
	return res
}

// Snapshot returns the latest published frame.
func (r *Runner) Snapshot() *Snapshot {
	return r.snapshot.Load()
}

// Throw queues a throw toward (x, y). Dropped if the queue is full.
func (r *Runner) Throw(x, y float64) {
	r.send(command{kind: cmdThrow, x: x, y: y})
}

// Restart queues a restart.
func (r *Runner) Restart() {
	r.send(command{kind: cmdRestart})
}

// Resize queues a viewport change.
func (r *Runner) Resize(width, height float64) {
	r.send(command{kind: cmdResize, x: width, y: height})
}

func (r *Runner) send(c command) {
	select {
	case r.commands <- c:
	default:
		// Command queue full, drop input
	}
}

// applyCommands drains all pending commands (non-blocking).
func (r *Runner) applyCommands() {
	for {
		select {
		case c := <-r.commands:
			switch c.kind {
			case cmdThrow:
				r.session.Throw(c.x, c.y)
			case cmdRestart:
				r.session.Restart()
			case cmdResize:
				r.session.Resize(object.Viewport{Width: c.x, Height: c.y})
			}
		default:
			return
		}
	}
}

func (r *Runner) dispatch() {
	for _, ev := range r.session.Events() {
		for _, l := range r.listeners {
			l.HandleEvent(ev)
		}
	}
}
