// Package input turns raw terminal bytes into per-frame aiming controls.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 60 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Left    bool // Held aim movement
	Right   bool
	Up      bool
	Down    bool
	Fast    bool // Shifted movement key or '+'
	Throw   bool // Pressed this frame
	Restart bool // Pressed this frame
	Pressed []byte
}

// keyState tracks the last time each movement key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
	fast  time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys. Movement keys stay held for a
// short while so terminal key repeat reads as continuous motion.
func ReadInput(s *Stream) Input {
	return readInputAt(s, time.Now())
}

func readInputAt(s *Stream, now time.Time) Input {
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	// A closed stream quits once its last bytes have been handled.
	in := Input{Pressed: buf, Quit: s.closed && len(buf) == 0}
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.up = now
			case 'B':
				s.state.down = now
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			}
			i += 2
			continue
		}

		applyByte(s, &in, b, now)
	}

	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Up = now.Sub(s.state.up) < keyHoldDuration
	in.Down = now.Sub(s.state.down) < keyHoldDuration
	in.Fast = now.Sub(s.state.fast) < keyHoldDuration
	return in
}

// applyByte updates key state timestamps and one-shot actions for a byte.
func applyByte(s *Stream, in *Input, b byte, now time.Time) {
	switch b {
	case 'A', 'D', 'W', 'S', '+':
		s.state.fast = now
	}
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'a', 'A', 'h':
		s.state.left = now
	case 'd', 'D', 'l':
		s.state.right = now
	case 'w', 'W', 'k':
		s.state.up = now
	case 's', 'S', 'j':
		s.state.down = now
	case ' ', '\n', '\r', 'f', 'F':
		in.Throw = true
	case 'r', 'R':
		in.Restart = true
	}
}

// ResetKeyInput forgets held keys, e.g. after a screen change.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}
