package web

import (
	"sync"

	"github.com/tomz197/balloon-darts/internal/game"
)

// cueBuffer collects cue events between frames. Events arrive on the
// runner goroutine and are drained by the writer.
type cueBuffer struct {
	mu   sync.Mutex
	cues []game.EventKind
}

func (b *cueBuffer) HandleEvent(ev game.Event) {
	if !ev.Kind.IsCue() {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.cues) < 64 {
		b.cues = append(b.cues, ev.Kind)
	}
}

func (b *cueBuffer) drain() []game.EventKind {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.cues
	b.cues = nil
	return out
}
