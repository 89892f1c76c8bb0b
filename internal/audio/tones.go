package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Waveform selects the oscillator shape.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
)

// rampPoint is a gain target reached at offset at.
type rampPoint struct {
	at   time.Duration
	gain float64
}

// SweepGenerator is an oscillator whose frequency sweeps exponentially
// from a start to an end value over its duration. Gain follows a list of
// ramp points, either linearly or exponentially between them.
type SweepGenerator struct {
	sr          beep.SampleRate
	wave        Waveform
	startFreq   float64
	endFreq     float64
	total       int
	ramp        []rampPoint
	exponential bool

	pos   int
	phase float64 // In cycles, kept in [0, 1)
}

// NewPopGenerator synthesizes the balloon pop: a sine dropping from 800 Hz
// to 100 Hz while the gain decays from 0.3 to 0.01 over 100 ms.
func NewPopGenerator(sr beep.SampleRate) *SweepGenerator {
	return &SweepGenerator{
		sr:          sr,
		wave:        WaveSine,
		startFreq:   800,
		endFreq:     100,
		total:       sr.N(PopDuration),
		ramp:        []rampPoint{{0, 0.3}, {PopDuration, 0.01}},
		exponential: true,
	}
}

// NewWhooshGenerator synthesizes the dart throw: a triangle rising from
// 200 Hz to 600 Hz, gain 0 to 0.1 over 50 ms then back to 0 at 200 ms.
func NewWhooshGenerator(sr beep.SampleRate) *SweepGenerator {
	return &SweepGenerator{
		sr:        sr,
		wave:      WaveTriangle,
		startFreq: 200,
		endFreq:   600,
		total:     sr.N(WhooshDuration),
		ramp:      []rampPoint{{0, 0}, {50 * time.Millisecond, 0.1}, {WhooshDuration, 0}},
	}
}

// Len returns the number of samples the generator produces.
func (g *SweepGenerator) Len() int {
	return g.total
}

func (g *SweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.total {
			return i, true
		}
		frac := float64(g.pos) / float64(g.total)
		freq := g.startFreq * math.Pow(g.endFreq/g.startFreq, frac)

		sample := g.gainAt(g.sr.D(g.pos)) * oscillate(g.wave, g.phase)
		samples[i][0] = sample
		samples[i][1] = sample

		g.phase += freq / float64(g.sr)
		g.phase -= math.Floor(g.phase)
		g.pos++
	}
	return len(samples), true
}

func (g *SweepGenerator) Err() error {
	return nil
}

func (g *SweepGenerator) gainAt(t time.Duration) float64 {
	if t <= g.ramp[0].at {
		return g.ramp[0].gain
	}
	for i := 1; i < len(g.ramp); i++ {
		a, b := g.ramp[i-1], g.ramp[i]
		if t > b.at {
			continue
		}
		frac := float64(t-a.at) / float64(b.at-a.at)
		if g.exponential && a.gain > 0 && b.gain > 0 {
			return a.gain * math.Pow(b.gain/a.gain, frac)
		}
		return a.gain + (b.gain-a.gain)*frac
	}
	return g.ramp[len(g.ramp)-1].gain
}

// oscillate evaluates one period of the waveform at phase in [0, 1).
func oscillate(w Waveform, phase float64) float64 {
	switch w {
	case WaveTriangle:
		return 1 - 4*math.Abs(phase-0.5)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}
