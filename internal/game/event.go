package game

// EventKind identifies something that happened in a session.
type EventKind int

const (
	EventThrow    EventKind = iota // Dart launched (audio cue)
	EventPop                       // Balloon popped (audio cue)
	EventMiss                      // Dart missed, darts remain
	EventLevelUp                   // A level started (including restart)
	EventGameOver                  // Last dart missed
	EventStreak                    // Consecutive pops reached a multiple of config.StreakInterval
)

var eventNames = [...]string{
	EventThrow:    "throw",
	EventPop:      "pop",
	EventMiss:     "miss",
	EventLevelUp:  "level_up",
	EventGameOver: "game_over",
	EventStreak:   "streak",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// MarshalText encodes the kind as its wire name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsCue reports whether the event only drives audio.
func (k EventKind) IsCue() bool {
	return k == EventThrow || k == EventPop
}

// Commentable reports whether the commentary voices react to the event.
func (k EventKind) Commentable() bool {
	switch k {
	case EventMiss, EventLevelUp, EventGameOver, EventStreak:
		return true
	default:
		return false
	}
}

// EventData is the payload sent with commentable events.
// Streak and Level are only meaningful for the events that carry them.
type EventData struct {
	Score  int  `json:"score"`
	Streak *int `json:"streak,omitempty"`
	Level  *int `json:"level,omitempty"`
}

// Event is a notification emitted by a session transition.
type Event struct {
	Kind      EventKind `json:"event"`
	Data      EventData `json:"data"`
	BalloonID string    `json:"balloonId,omitempty"` // Set for EventPop
}

// Listener receives session events from the frame loop. HandleEvent runs on
// the loop goroutine and must not block.
type Listener interface {
	HandleEvent(ev Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ev Event)

// HandleEvent calls f(ev).
func (f ListenerFunc) HandleEvent(ev Event) {
	f(ev)
}
