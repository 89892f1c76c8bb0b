package commentary

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/balloon-darts/internal/game"
	"github.com/tomz197/balloon-darts/internal/game/config"
)

//go:generate go tool mockgen -destination=./mocks/generator_mock.go -package=mocks . Generator

// DefaultTimeout bounds a single generation request.
const DefaultTimeout = 10 * time.Second

// Options configures a Dispatcher. Zero values select the defaults.
type Options struct {
	Clock   Clock
	Rand    *rand.Rand
	Logger  *log.Logger
	Timeout time.Duration
}

type voiceState struct {
	text    string
	visible bool

	issued uint64 // Sequence number of the latest request
	shown  uint64 // Sequence number of the message on screen

	token   uint64 // Identifies the current hide timer
	hide    Timer
	pending Timer // Delayed vendor request
}

// Dispatcher turns game events into commentary for both voices. Requests
// run on their own goroutines; HandleEvent never blocks on a generator.
type Dispatcher struct {
	gen     Generator
	clock   Clock
	logger  *log.Logger
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	rng    *rand.Rand
	voices [len(Voices)]voiceState
	closed bool
}

// NewDispatcher creates a dispatcher with both voices holding their
// greeting, hidden.
func NewDispatcher(gen Generator, opts Options) *Dispatcher {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		gen:     gen,
		clock:   opts.Clock,
		logger:  opts.Logger.WithPrefix("commentary"),
		timeout: opts.Timeout,
		ctx:     ctx,
		cancel:  cancel,
		rng:     opts.Rand,
	}
	for _, v := range Voices {
		d.voices[v].text = v.Greeting()
	}
	return d
}

// HandleEvent implements game.Listener.
func (d *Dispatcher) HandleEvent(ev game.Event) {
	if !ev.Kind.Commentable() {
		return
	}
	req := Request{Event: ev.Kind, Data: ev.Data}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.requestLocked(Announcer, req)

	if d.rng.Float64() >= config.SecondaryChance {
		return
	}
	vs := &d.voices[Vendor]
	if vs.pending != nil {
		vs.pending.Stop()
	}
	var t Timer
	t = d.clock.AfterFunc(config.SecondaryDelay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.closed || d.voices[Vendor].pending != t {
			return
		}
		d.voices[Vendor].pending = nil
		d.requestLocked(Vendor, req)
	})
	vs.pending = t
}

// requestLocked starts a generation for voice. d.mu must be held.
func (d *Dispatcher) requestLocked(voice Voice, req Request) {
	vs := &d.voices[voice]
	vs.issued++
	seq := vs.issued

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
		defer cancel()

		text, err := d.gen.Generate(ctx, voice, req)
		text = strings.TrimSpace(text)
		switch {
		case err != nil:
			d.logger.Debug("generation failed", "voice", voice, "event", req.Event, "err", err)
			text = voice.Fallback(err)
		case text == "":
			text = voice.Fallback(nil)
		}
		d.show(voice, seq, text)
	}()
}

func (d *Dispatcher) show(voice Voice, seq uint64, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	vs := &d.voices[voice]
	if seq < vs.shown {
		return
	}
	vs.shown = seq
	vs.text = text
	vs.visible = true

	if vs.hide != nil {
		vs.hide.Stop()
	}
	vs.token++
	token := vs.token
	vs.hide = d.clock.AfterFunc(voice.Duration(), func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		st := &d.voices[voice]
		if st.token != token {
			return
		}
		st.visible = false
		st.hide = nil
	})
}

// Messages returns the current line of every voice.
func (d *Dispatcher) Messages() []Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	msgs := make([]Message, 0, len(Voices))
	for _, v := range Voices {
		vs := d.voices[v]
		msgs = append(msgs, Message{Voice: v, Text: vs.text, Visible: vs.visible})
	}
	return msgs
}

// Close cancels in-flight requests and every timer, then waits for the
// request goroutines to return. Later events are ignored.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.cancel()
	for i := range d.voices {
		vs := &d.voices[i]
		if vs.hide != nil {
			vs.hide.Stop()
			vs.hide = nil
		}
		if vs.pending != nil {
			vs.pending.Stop()
			vs.pending = nil
		}
		vs.token++
	}
	d.mu.Unlock()

	d.wg.Wait()
}
