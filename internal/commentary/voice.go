// Package commentary runs the two commentary voices that react to game
// events with short generated lines. It never touches game state.
package commentary

import (
	"context"
	"time"

	"github.com/tomz197/balloon-darts/internal/game"
	"github.com/tomz197/balloon-darts/internal/game/config"
)

// Voice is one of the two independent commentary sources.
type Voice int

const (
	Announcer Voice = iota // EMA, the carnival's AI host
	Vendor                 // Auntie, the market stall owner
)

// Voices lists every voice in display order.
var Voices = [...]Voice{Announcer, Vendor}

type voiceProfile struct {
	name          string
	title         string
	greeting      string        // Shown (hidden) before the first event
	emptyFallback string        // Used when the generator returns nothing
	errorFallback string        // Used when the generator fails
	visibleFor    time.Duration // How long a message stays on screen
}

var profiles = [...]voiceProfile{
	Announcer: {
		name:          "announcer",
		title:         "EMA",
		greeting:      "Step right up! Try your luck!",
		emptyFallback: "Scanning performance... adequate.",
		errorFallback: "Nice shot!",
		visibleFor:    config.AnnouncerDuration,
	},
	Vendor: {
		name:          "vendor",
		title:         "Auntie",
		greeting:      "Buy more tokens, don't shy!",
		emptyFallback: "Wah, so pro ah!",
		errorFallback: "Aiyoh, focus lah!",
		visibleFor:    config.VendorDuration,
	},
}

func (v Voice) profile() voiceProfile {
	if v < 0 || int(v) >= len(profiles) {
		return profiles[Announcer]
	}
	return profiles[v]
}

func (v Voice) String() string {
	return v.profile().name
}

// MarshalText encodes the voice as its name.
func (v Voice) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Title returns the display name of the voice.
func (v Voice) Title() string {
	return v.profile().title
}

// Greeting returns the line a voice holds before any event.
func (v Voice) Greeting() string {
	return v.profile().greeting
}

// Fallback returns the fixed line used when generation fails (err != nil)
// or produces nothing.
func (v Voice) Fallback(err error) string {
	if err != nil {
		return v.profile().errorFallback
	}
	return v.profile().emptyFallback
}

// Duration returns how long a message from this voice stays visible.
func (v Voice) Duration() time.Duration {
	return v.profile().visibleFor
}

// Request is what a voice is asked to react to.
type Request struct {
	Event game.EventKind
	Data  game.EventData
}

// Generator produces a short reaction line for a voice.
type Generator interface {
	Generate(ctx context.Context, voice Voice, req Request) (string, error)
}

// Message is the current line of a voice.
type Message struct {
	Voice   Voice  `json:"voice"`
	Text    string `json:"text"`
	Visible bool   `json:"visible"`
}
