// Package frame drives per-refresh callbacks on a single goroutine, the way
// a browser's animation frame queue does.
package frame

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/lifecube/pkg/field"
)

type callback struct {
	h  field.Handle
	at time.Time // zero for frame callbacks
	fn func(time.Time)
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the loop's logger.
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) {
		if l != nil {
			lp.log = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(lp *Loop) { lp.now = now }
}

// Loop ticks at a fixed rate and runs frame callbacks, timers and posted
// events on the goroutine that called Run. Scheduling methods may be called
// from any goroutine.
type Loop struct {
	interval time.Duration
	now      func() time.Time
	log      *slog.Logger

	mu     sync.Mutex
	next   field.Handle
	frames []callback
	timers []callback
	posted []func()
	wake   chan struct{}

	// frames and timers taken by the running tick; Cancel deletes from here
	// so a callback can revoke another one due in the same tick.
	inflight map[field.Handle]struct{}

	ticks int
}

var _ field.Scheduler = (*Loop)(nil)

// NewLoop returns a loop ticking fps times per second.
func NewLoop(fps int, opts ...Option) *Loop {
	if fps <= 0 {
		fps = 60
	}
	lp := &Loop{
		interval: time.Duration(harmonica.FPS(fps) * float64(time.Second)),
		now:      time.Now,
		log:      slog.Default(),
		wake:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(lp)
	}
	return lp
}

// Interval returns the tick period.
func (lp *Loop) Interval() time.Duration { return lp.interval }

// Now reads the loop clock.
func (lp *Loop) Now() time.Time { return lp.now() }

// RequestFrame runs fn once on the next tick.
func (lp *Loop) RequestFrame(fn func(time.Time)) field.Handle {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.next++
	lp.frames = append(lp.frames, callback{h: lp.next, fn: fn})
	return lp.next
}

// After runs fn once on the first tick at least d from now.
func (lp *Loop) After(d time.Duration, fn func(time.Time)) field.Handle {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.next++
	lp.timers = append(lp.timers, callback{h: lp.next, at: lp.now().Add(d), fn: fn})
	return lp.next
}

// Cancel drops a pending frame or timer.
func (lp *Loop) Cancel(h field.Handle) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.frames = remove(lp.frames, h)
	lp.timers = remove(lp.timers, h)
	delete(lp.inflight, h)
}

// Post queues fn to run on the loop goroutine before the next tick's frames.
func (lp *Loop) Post(fn func()) {
	lp.mu.Lock()
	lp.posted = append(lp.posted, fn)
	lp.mu.Unlock()
	select {
	case lp.wake <- struct{}{}:
	default:
	}
}

// Pending reports the number of queued frames and timers.
func (lp *Loop) Pending() int {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return len(lp.frames) + len(lp.timers)
}

// Run processes the queue until ctx is done. Callbacks requested while a
// tick is running wait for the following tick.
func (lp *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(lp.interval)
	defer ticker.Stop()
	lp.log.Debug("frame loop running", "interval", lp.interval)

	for {
		select {
		case <-ctx.Done():
			lp.log.Debug("frame loop stopped", "ticks", lp.ticks)
			return ctx.Err()
		case <-lp.wake:
			lp.drainPosted()
		case <-ticker.C:
			lp.Tick()
		}
	}
}

// Tick runs one iteration: posted events, due timers, then the frames that
// were requested before the tick began.
func (lp *Loop) Tick() {
	lp.drainPosted()
	now := lp.now()

	lp.mu.Lock()
	var run []callback
	kept := lp.timers[:0]
	for _, t := range lp.timers {
		if !now.Before(t.at) {
			run = append(run, t)
		} else {
			kept = append(kept, t)
		}
	}
	lp.timers = kept
	run = append(run, lp.frames...)
	lp.frames = nil
	lp.inflight = make(map[field.Handle]struct{}, len(run))
	for _, c := range run {
		lp.inflight[c.h] = struct{}{}
	}
	lp.ticks++
	lp.mu.Unlock()

	for _, c := range run {
		if !lp.take(c.h) {
			continue
		}
		c.fn(now)
	}
}

// take removes h from the running tick and reports whether it was still
// due.
func (lp *Loop) take(h field.Handle) bool {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	_, ok := lp.inflight[h]
	delete(lp.inflight, h)
	return ok
}

func (lp *Loop) drainPosted() {
	lp.mu.Lock()
	posted := lp.posted
	lp.posted = nil
	lp.mu.Unlock()
	for _, fn := range posted {
		fn()
	}
}

func remove(cbs []callback, h field.Handle) []callback {
	for i, c := range cbs {
		if c.h == h {
			return append(cbs[:i], cbs[i+1:]...)
		}
	}
	return cbs
}
