// Package game owns a single darts playthrough: the state machine that
// applies pops, misses, level changes and restarts, and the frame loop
// that drives it.
package game

import (
	"math/rand"
	"time"

	"github.com/tomz197/balloon-darts/internal/game/config"
	"github.com/tomz197/balloon-darts/internal/object"
)

// Phase is the lifecycle state of a session.
type Phase int

const (
	PhasePlaying         Phase = iota // Darts remain, board has balloons
	PhaseLevelTransition              // Board cleared, next level pending
	PhaseGameOver                     // Out of darts; only Restart leaves this phase
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseLevelTransition:
		return "level_transition"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// State is the scoring state of a session.
type State struct {
	Score     int
	DartsLeft int
	Level     int
	Streak    int
	GameOver  bool
}

// Resolution is the outcome of a dart arriving at its target.
type Resolution int

const (
	ResolutionNone Resolution = iota // No dart arrived this tick
	ResolutionHit
	ResolutionMiss
)

// TickResult reports what a single simulation step resolved.
type TickResult struct {
	Resolution Resolution
	BalloonID  string // Set when Resolution is ResolutionHit
	LevelUp    bool   // A pending level transition fired this tick
}

// Options configures a session.
type Options struct {
	Viewport object.Viewport
	TickRate int        // Ticks per second; converts the level delay into ticks
	Rand     *rand.Rand // Source for colors and particle speeds; seeded from time if nil
}

// Session is the single owner of a playthrough's state. All mutation goes
// through its methods; it is not safe for concurrent use.
type Session struct {
	state     State
	board     *object.Board
	flight    *object.Flight
	particles *object.ParticleSet
	viewport  object.Viewport
	rng       *rand.Rand

	levelDelay   int // Ticks between clearing a board and the next level
	pendingLevel int // Ticks remaining until the next level; 0 when none is pending

	events []Event // Outbox drained by Events
}

// NewSession creates a session at level 1 with config.InitialDarts darts and
// emits the opening level_up event.
func NewSession(opts Options) *Session {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	view := opts.Viewport
	if !view.Valid() {
		view = object.DefaultViewport()
	}
	tickRate := opts.TickRate
	if tickRate <= 0 {
		tickRate = config.DefaultTickRate
	}

	s := &Session{
		viewport:   view,
		rng:        rng,
		particles:  object.NewParticleSet(rng),
		levelDelay: config.DelayTicks(config.LevelTransitionDelay, tickRate),
	}
	s.reset()
	return s
}

// State returns a copy of the scoring state.
func (s *Session) State() State {
	return s.state
}

// Board returns the active board. Callers must treat it as read-only.
func (s *Session) Board() *object.Board {
	return s.board
}

// Flight returns the dart in flight, or nil.
func (s *Session) Flight() *object.Flight {
	return s.flight
}

// Particles returns the decorative particle set.
func (s *Session) Particles() *object.ParticleSet {
	return s.particles
}

// Viewport returns the current play area.
func (s *Session) Viewport() object.Viewport {
	return s.viewport
}

// Phase returns the lifecycle state.
func (s *Session) Phase() Phase {
	switch {
	case s.state.GameOver:
		return PhaseGameOver
	case s.pendingLevel > 0:
		return PhaseLevelTransition
	default:
		return PhasePlaying
	}
}

// Events drains and returns the events emitted since the last call.
func (s *Session) Events() []Event {
	evs := s.events
	s.events = nil
	return evs
}

// Throw launches a dart from the bottom-center toward (x, y). It is
// rejected while a dart is in flight or the game is over.
func (s *Session) Throw(x, y float64) bool {
	if s.state.GameOver || s.flight != nil {
		return false
	}
	s.flight = object.NewFlight(s.viewport.LaunchPoint(), object.Point{X: x, Y: y})
	s.emit(Event{Kind: EventThrow})
	return true
}

// Tick advances the simulation one frame: particles move, a pending level
// transition counts down, and the dart in flight moves and, on arrival, is
// resolved against the board.
func (s *Session) Tick() TickResult {
	var res TickResult

	s.particles.AdvanceAll()

	if s.pendingLevel > 0 {
		s.pendingLevel--
		if s.pendingLevel == 0 {
			s.startLevel(s.state.Level + 1)
			s.state.DartsLeft += config.LevelBonusDarts
			res.LevelUp = true
		}
	}

	if s.flight == nil {
		return res
	}
	if !s.flight.Advance(config.DartStep) {
		return res
	}

	target := s.flight.Target
	s.flight = nil

	if balloon, ok := s.board.HitTest(target); ok {
		res.Resolution = ResolutionHit
		res.BalloonID = balloon.ID
		s.Pop(balloon.ID)
	} else {
		res.Resolution = ResolutionMiss
		s.Miss()
	}
	return res
}

// Pop marks a balloon popped and scores it. Unknown or already popped ids
// are ignored. Clearing the board schedules the next level.
func (s *Session) Pop(id string) bool {
	balloon, ok := s.board.Find(id)
	if !ok || balloon.Popped {
		return false
	}

	balloon.Popped = true
	s.state.Score += balloon.Points
	s.state.Streak++
	s.particles.Spawn(balloon.X, balloon.Y, balloon.Color)
	s.emit(Event{Kind: EventPop, Data: EventData{Score: s.state.Score}, BalloonID: id})

	if s.state.Streak%config.StreakInterval == 0 {
		s.emit(Event{Kind: EventStreak, Data: EventData{Score: s.state.Score, Streak: intPtr(s.state.Streak)}})
	}

	if s.board.Cleared() && s.pendingLevel == 0 && !s.state.GameOver {
		s.pendingLevel = s.levelDelay
	}
	return true
}

// Miss spends a dart and breaks the streak. Spending the last dart ends
// the game and cancels any pending level transition.
func (s *Session) Miss() {
	if s.state.GameOver {
		return
	}
	s.state.DartsLeft--
	s.state.Streak = 0

	data := EventData{Score: s.state.Score, Streak: intPtr(0)}
	if s.state.DartsLeft <= 0 {
		s.state.GameOver = true
		s.pendingLevel = 0
		s.emit(Event{Kind: EventGameOver, Data: data})
		return
	}
	s.emit(Event{Kind: EventMiss, Data: data})
}

// Restart returns to a fresh level-1 game from any phase.
func (s *Session) Restart() {
	s.reset()
}

// Resize changes the play area. Balloons are laid out again at the new
// size; pop progress on the current board is kept.
func (s *Session) Resize(view object.Viewport) {
	if !view.Valid() || view == s.viewport {
		return
	}
	s.viewport = view
	s.board.Relayout(view)
}

func (s *Session) reset() {
	s.state = State{DartsLeft: config.InitialDarts}
	s.flight = nil
	s.pendingLevel = 0
	s.startLevel(1)
}

// startLevel regenerates the board and announces the level.
func (s *Session) startLevel(level int) {
	s.state.Level = level
	s.board = object.GenerateBoard(level, s.viewport, s.rng)
	s.emit(Event{Kind: EventLevelUp, Data: EventData{Score: s.state.Score, Level: intPtr(level)}})
}

func (s *Session) emit(ev Event) {
	s.events = append(s.events, ev)
}

func intPtr(v int) *int {
	return &v
}
