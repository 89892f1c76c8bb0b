package commentary_test

import (
	"context"
	"errors"
	"io"
	"math"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"go.uber.org/mock/gomock"

	"github.com/tomz197/balloon-darts/internal/commentary"
	"github.com/tomz197/balloon-darts/internal/commentary/mocks"
	"github.com/tomz197/balloon-darts/internal/game"
)

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) commentary.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and runs every timer that became due,
// in deadline order, outside the clock's lock.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

// fixedSource makes every Float64 draw return the same value.
type fixedSource int64

func (s fixedSource) Int63() int64 { return int64(s) }
func (fixedSource) Seed(int64)     {}

var (
	vendorAlways = fixedSource(0)
	vendorNever  = fixedSource(math.MaxInt64 / 10 * 9)
)

func newTestDispatcher(t *testing.T, src rand.Source) (*commentary.Dispatcher, *mocks.MockGenerator, *fakeClock) {
	t.Helper()
	ctrl := gomock.NewController(t)
	gen := mocks.NewMockGenerator(ctrl)
	clock := &fakeClock{}
	d := commentary.NewDispatcher(gen, commentary.Options{
		Clock:  clock,
		Rand:   rand.New(src),
		Logger: log.New(io.Discard),
	})
	t.Cleanup(d.Close)
	return d, gen, clock
}

func message(d *commentary.Dispatcher, v commentary.Voice) commentary.Message {
	for _, m := range d.Messages() {
		if m.Voice == v {
			return m
		}
	}
	return commentary.Message{}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func waitShown(t *testing.T, d *commentary.Dispatcher, v commentary.Voice, text string) {
	t.Helper()
	waitFor(t, v.String()+" to show "+text, func() bool {
		m := message(d, v)
		return m.Visible && m.Text == text
	})
}

func intPtr(v int) *int { return &v }

func missEvent(score int) game.Event {
	return game.Event{Kind: game.EventMiss, Data: game.EventData{Score: score, Streak: intPtr(0)}}
}

func TestNewDispatcher_Greetings(t *testing.T) {
	d, _, _ := newTestDispatcher(t, vendorNever)

	msgs := d.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(msgs))
	}
	want := map[commentary.Voice]string{
		commentary.Announcer: "Step right up! Try your luck!",
		commentary.Vendor:    "Buy more tokens, don't shy!",
	}
	for _, m := range msgs {
		if m.Visible {
			t.Errorf("%s visible before any event", m.Voice)
		}
		if m.Text != want[m.Voice] {
			t.Errorf("%s text = %q, want %q", m.Voice, m.Text, want[m.Voice])
		}
	}
}

func TestDispatcher_IgnoresCueEvents(t *testing.T) {
	d, _, clock := newTestDispatcher(t, vendorAlways)

	d.HandleEvent(game.Event{Kind: game.EventThrow})
	d.HandleEvent(game.Event{Kind: game.EventPop, BalloonID: "b"})
	clock.Advance(time.Second)

	for _, m := range d.Messages() {
		if m.Visible {
			t.Errorf("%s visible after cue events", m.Voice)
		}
	}
}

func TestDispatcher_AnnouncerShowsThenHides(t *testing.T) {
	d, gen, clock := newTestDispatcher(t, vendorNever)

	ev := missEvent(40)
	gen.EXPECT().
		Generate(gomock.Any(), commentary.Announcer, commentary.Request{Event: ev.Kind, Data: ev.Data}).
		Return("  Target ignored.  ", nil)

	d.HandleEvent(ev)
	waitShown(t, d, commentary.Announcer, "Target ignored.")

	clock.Advance(2999 * time.Millisecond)
	if !message(d, commentary.Announcer).Visible {
		t.Fatalf("announcer hidden before 3000ms")
	}
	clock.Advance(time.Millisecond)
	if message(d, commentary.Announcer).Visible {
		t.Errorf("announcer still visible after 3000ms")
	}
	if message(d, commentary.Vendor).Visible {
		t.Errorf("vendor spoke without being selected")
	}
}

func TestDispatcher_VendorFollowsAfterDelay(t *testing.T) {
	d, gen, clock := newTestDispatcher(t, vendorAlways)

	calls := make(chan commentary.Voice, 2)
	gen.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, v commentary.Voice, _ commentary.Request) (string, error) {
			calls <- v
			return v.Title() + " says hi", nil
		}).Times(2)

	d.HandleEvent(game.Event{Kind: game.EventStreak, Data: game.EventData{Score: 45, Streak: intPtr(3)}})
	if v := <-calls; v != commentary.Announcer {
		t.Fatalf("first request = %s, want announcer", v)
	}
	waitShown(t, d, commentary.Announcer, "EMA says hi")

	clock.Advance(499 * time.Millisecond)
	select {
	case v := <-calls:
		t.Fatalf("%s requested before the 500ms delay", v)
	default:
	}

	clock.Advance(time.Millisecond)
	if v := <-calls; v != commentary.Vendor {
		t.Fatalf("second request = %s, want vendor", v)
	}
	waitShown(t, d, commentary.Vendor, "Auntie says hi")

	// Announcer hides at 3000ms, vendor at 500+4000ms.
	clock.Advance(3999 * time.Millisecond)
	if message(d, commentary.Announcer).Visible {
		t.Errorf("announcer still visible at 4499ms")
	}
	if !message(d, commentary.Vendor).Visible {
		t.Fatalf("vendor hidden before 4000ms")
	}
	clock.Advance(time.Millisecond)
	if message(d, commentary.Vendor).Visible {
		t.Errorf("vendor still visible after 4000ms")
	}
}

func TestDispatcher_NewerEventReplacesPendingVendor(t *testing.T) {
	d, gen, clock := newTestDispatcher(t, vendorAlways)

	var mu sync.Mutex
	var vendorReqs []commentary.Request
	gen.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, v commentary.Voice, req commentary.Request) (string, error) {
			if v == commentary.Vendor {
				mu.Lock()
				vendorReqs = append(vendorReqs, req)
				mu.Unlock()
			}
			return req.Event.String(), nil
		}).AnyTimes()

	d.HandleEvent(missEvent(0))
	clock.Advance(200 * time.Millisecond)
	d.HandleEvent(game.Event{Kind: game.EventGameOver, Data: game.EventData{Score: 0, Streak: intPtr(0)}})
	clock.Advance(time.Second)

	waitShown(t, d, commentary.Vendor, "game_over")
	mu.Lock()
	defer mu.Unlock()
	if len(vendorReqs) != 1 || vendorReqs[0].Event != game.EventGameOver {
		t.Errorf("vendor requests = %+v, want only game_over", vendorReqs)
	}
}

func TestDispatcher_Fallbacks(t *testing.T) {
	tests := []struct {
		name  string
		voice commentary.Voice
		text  string
		err   error
		want  string
	}{
		{"announcer error", commentary.Announcer, "", errors.New("boom"), "Nice shot!"},
		{"announcer empty", commentary.Announcer, "   ", nil, "Scanning performance... adequate."},
		{"vendor error", commentary.Vendor, "ignored", errors.New("boom"), "Aiyoh, focus lah!"},
		{"vendor empty", commentary.Vendor, "", nil, "Wah, so pro ah!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, gen, clock := newTestDispatcher(t, vendorAlways)
			gen.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, v commentary.Voice, _ commentary.Request) (string, error) {
					if v != tt.voice {
						return "other", nil
					}
					return tt.text, tt.err
				}).Times(2)

			d.HandleEvent(missEvent(0))
			clock.Advance(500 * time.Millisecond)
			waitShown(t, d, tt.voice, tt.want)
		})
	}
}

func TestDispatcher_StaleHideKeepsFresherMessage(t *testing.T) {
	d, gen, clock := newTestDispatcher(t, vendorNever)

	gen.EXPECT().Generate(gomock.Any(), commentary.Announcer, gomock.Any()).Return("one", nil)
	gen.EXPECT().Generate(gomock.Any(), commentary.Announcer, gomock.Any()).Return("two", nil)

	d.HandleEvent(missEvent(0))
	waitShown(t, d, commentary.Announcer, "one")

	clock.Advance(2000 * time.Millisecond)
	d.HandleEvent(missEvent(0))
	waitShown(t, d, commentary.Announcer, "two")

	// The first message's hide deadline passes.
	clock.Advance(1000 * time.Millisecond)
	if m := message(d, commentary.Announcer); !m.Visible || m.Text != "two" {
		t.Fatalf("after stale deadline: %+v, want visible two", m)
	}

	clock.Advance(2000 * time.Millisecond)
	if message(d, commentary.Announcer).Visible {
		t.Errorf("fresh message not hidden after its own 3000ms")
	}
}

func TestDispatcher_DropsOutOfOrderCompletion(t *testing.T) {
	d, gen, _ := newTestDispatcher(t, vendorNever)

	started := make(chan struct{})
	release := make(chan struct{})
	returned := make(chan struct{})
	gen.EXPECT().Generate(gomock.Any(), commentary.Announcer, gomock.Any()).
		DoAndReturn(func(context.Context, commentary.Voice, commentary.Request) (string, error) {
			close(started)
			<-release
			defer close(returned)
			return "old", nil
		})
	gen.EXPECT().Generate(gomock.Any(), commentary.Announcer, gomock.Any()).Return("new", nil)

	d.HandleEvent(missEvent(0))
	<-started
	d.HandleEvent(missEvent(0))
	waitShown(t, d, commentary.Announcer, "new")

	close(release)
	<-returned
	time.Sleep(20 * time.Millisecond)
	if m := message(d, commentary.Announcer); m.Text != "new" {
		t.Errorf("text = %q after stale completion, want new", m.Text)
	}
}

func TestDispatcher_CloseCancelsRequestsAndTimers(t *testing.T) {
	d, gen, clock := newTestDispatcher(t, vendorAlways)

	started := make(chan struct{})
	gen.EXPECT().Generate(gomock.Any(), commentary.Announcer, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ commentary.Voice, _ commentary.Request) (string, error) {
			close(started)
			<-ctx.Done()
			return "", ctx.Err()
		})

	d.HandleEvent(missEvent(0))
	<-started

	done := make(chan struct{})
	go func() {
		d.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}

	// The pending vendor request was cancelled and later events are ignored.
	clock.Advance(time.Second)
	d.HandleEvent(missEvent(0))
	for _, m := range d.Messages() {
		if m.Visible {
			t.Errorf("%s visible after Close", m.Voice)
		}
	}
}
