// Package audio synthesizes the game's sound cues with beep.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/balloon-darts/internal/game"
)

const (
	sampleRate = beep.SampleRate(48000)

	PopDuration    = 100 * time.Millisecond
	WhooshDuration = 200 * time.Millisecond
)

// SoundManager plays the throw and pop cues through the speaker. Before
// Initialize succeeds every cue is silently skipped.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewSoundManager creates a sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker and starts the mixer.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*50))
	if err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops every playing cue.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Clear()
	sm.initialized = false
}

// HandleEvent implements game.Listener. Only cue events make a sound.
func (sm *SoundManager) HandleEvent(ev game.Event) {
	switch ev.Kind {
	case game.EventThrow:
		sm.play(NewWhooshGenerator(sampleRate))
	case game.EventPop:
		sm.play(NewPopGenerator(sampleRate))
	}
}

func (sm *SoundManager) play(g *SweepGenerator) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Add(beep.Take(g.Len(), g))
	speaker.Unlock()
}
