package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/tomz197/balloon-darts/internal/game"
)

func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestPopGenerator(t *testing.T) {
	rate := beep.SampleRate(44100)
	g := NewPopGenerator(rate)

	samples := drain(g)
	if len(samples) != rate.N(PopDuration) {
		t.Fatalf("len = %d, want %d", len(samples), rate.N(PopDuration))
	}
	for i, s := range samples {
		if math.Abs(s[0]) > 0.3+1e-9 || s[0] != s[1] {
			t.Fatalf("sample %d = %v, out of envelope", i, s)
		}
	}

	if got := g.gainAt(0); got != 0.3 {
		t.Errorf("gain at 0 = %v, want 0.3", got)
	}
	if got := g.gainAt(PopDuration / 2); math.Abs(got-math.Sqrt(0.3*0.01)) > 1e-9 {
		t.Errorf("gain at midpoint = %v, want geometric mean", got)
	}
	if got := g.gainAt(PopDuration); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("gain at end = %v, want 0.01", got)
	}
}

func TestWhooshGenerator(t *testing.T) {
	rate := beep.SampleRate(48000)
	g := NewWhooshGenerator(rate)

	tests := []struct {
		at   time.Duration
		want float64
	}{
		{0, 0},
		{25 * time.Millisecond, 0.05},
		{50 * time.Millisecond, 0.1},
		{125 * time.Millisecond, 0.05},
		{WhooshDuration, 0},
	}
	for _, tt := range tests {
		if got := g.gainAt(tt.at); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("gain at %v = %v, want %v", tt.at, got, tt.want)
		}
	}

	samples := drain(g)
	if len(samples) != rate.N(WhooshDuration) {
		t.Fatalf("len = %d, want %d", len(samples), rate.N(WhooshDuration))
	}
	if samples[0][0] != 0 {
		t.Errorf("first sample = %v, want silence", samples[0][0])
	}
	for i, s := range samples {
		if math.Abs(s[0]) > 0.1+1e-9 {
			t.Fatalf("sample %d = %v exceeds peak gain", i, s[0])
		}
	}

	if n, ok := g.Stream(make([][2]float64, 8)); n != 0 || ok {
		t.Errorf("Stream after end = %d, %v; want 0, false", n, ok)
	}
}

func TestOscillate(t *testing.T) {
	tests := []struct {
		wave  Waveform
		phase float64
		want  float64
	}{
		{WaveSine, 0, 0},
		{WaveSine, 0.25, 1},
		{WaveTriangle, 0, -1},
		{WaveTriangle, 0.25, 0},
		{WaveTriangle, 0.5, 1},
	}
	for _, tt := range tests {
		if got := oscillate(tt.wave, tt.phase); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("oscillate(%d, %v) = %v, want %v", tt.wave, tt.phase, got, tt.want)
		}
	}
}

func TestSoundManager_SkipsWhenUninitialized(t *testing.T) {
	sm := NewSoundManager()
	sm.HandleEvent(game.Event{Kind: game.EventThrow})
	sm.HandleEvent(game.Event{Kind: game.EventPop})
	sm.Cleanup()

	if n := sm.mixer.Len(); n != 0 {
		t.Errorf("mixer holds %d cues without a speaker, want 0", n)
	}
}
