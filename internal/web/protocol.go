package web

import (
	"errors"
	"fmt"
	"math"

	"github.com/tomz197/balloon-darts/internal/commentary"
	"github.com/tomz197/balloon-darts/internal/game"
)

// Client message types.
const (
	TypeThrow   = "throw"
	TypeRestart = "restart"
	TypeResize  = "resize"
)

// TypeFrame is the only server message type.
const TypeFrame = "frame"

var (
	ErrUnknownType    = errors.New("unknown message type")
	ErrBadCoordinates = errors.New("coordinates must be finite")
)

// ClientMessage is a command sent by the browser.
type ClientMessage struct {
	Type   string  `json:"type"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Validate checks the message type and that every coordinate is finite.
func (m ClientMessage) Validate() error {
	switch m.Type {
	case TypeThrow:
		if !finite(m.X) || !finite(m.Y) {
			return ErrBadCoordinates
		}
	case TypeResize:
		if !finite(m.Width) || !finite(m.Height) {
			return ErrBadCoordinates
		}
	case TypeRestart:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, m.Type)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Frame is the state pushed to the browser. Cues lists the throw and pop
// events since the previous frame so the page can play its sounds.
type Frame struct {
	Type   string               `json:"type"`
	State  *game.Snapshot       `json:"state"`
	Cues   []game.EventKind     `json:"cues"`
	Voices []commentary.Message `json:"voices"`
}
