package frame

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/lifecube/pkg/field"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNewLoopInterval(t *testing.T) {
	tests := []struct {
		fps  int
		want time.Duration
	}{
		{60, time.Second / 60},
		{30, time.Second / 30},
		{0, time.Second / 60},
		{-5, time.Second / 60},
	}
	for _, tc := range tests {
		got := NewLoop(tc.fps).Interval()
		assert.InDelta(t, float64(tc.want), float64(got), float64(time.Microsecond), "fps %d", tc.fps)
	}
}

func TestRequestFrameRunsOnce(t *testing.T) {
	m := NewManual(epoch)
	calls := 0
	m.RequestFrame(func(time.Time) { calls++ })

	m.Frames(3)
	assert.Equal(t, 1, calls)
	assert.Zero(t, m.Pending())
}

func TestFrameRequestedDuringTickWaits(t *testing.T) {
	m := NewManual(epoch)
	var seen []time.Time
	var step func(time.Time)
	step = func(now time.Time) {
		seen = append(seen, now)
		if len(seen) < 3 {
			m.RequestFrame(step)
		}
	}
	m.RequestFrame(step)

	m.Advance(10 * time.Millisecond)
	require.Len(t, seen, 1)
	m.Advance(10 * time.Millisecond)
	m.Advance(10 * time.Millisecond)
	m.Advance(10 * time.Millisecond)
	require.Len(t, seen, 3)
	assert.Equal(t, epoch.Add(30*time.Millisecond), seen[2])
}

func TestAfterWaitsForDeadline(t *testing.T) {
	m := NewManual(epoch)
	fired := false
	m.After(300*time.Millisecond, func(time.Time) { fired = true })

	m.Advance(299 * time.Millisecond)
	assert.False(t, fired)
	m.Advance(time.Millisecond)
	assert.True(t, fired)
}

func TestCancel(t *testing.T) {
	m := NewManual(epoch)
	calls := 0
	h := m.RequestFrame(func(time.Time) { calls++ })
	m.Cancel(h)
	m.Cancel(h)
	m.Cancel(12345)

	timer := m.After(time.Millisecond, func(time.Time) { calls++ })
	m.Cancel(timer)

	m.Frames(2)
	assert.Zero(t, calls)
}

func TestCancelWithinSameTick(t *testing.T) {
	m := NewManual(epoch)
	ran := false
	var second field.Handle
	m.RequestFrame(func(time.Time) { m.Cancel(second) })
	second = m.RequestFrame(func(time.Time) { ran = true })

	m.Frames(1)
	assert.False(t, ran)
}

func TestPostRunsBeforeFrames(t *testing.T) {
	m := NewManual(epoch)
	var order []string
	m.RequestFrame(func(time.Time) { order = append(order, "frame") })
	m.Post(func() { order = append(order, "resize") })

	m.Frames(1)
	assert.Equal(t, []string{"resize", "frame"}, order)
}

func TestRunStopsOnCancel(t *testing.T) {
	lp := NewLoop(240)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lp.RequestFrame(func(time.Time) { close(done) })

	errc := make(chan error, 1)
	go func() { errc <- lp.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("frame never ran")
	}
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
}

func TestPostWakesRun(t *testing.T) {
	lp := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = lp.Run(ctx) }()

	got := make(chan struct{})
	lp.Post(func() { close(got) })
	select {
	case <-got:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("posted event did not run before the next one-second tick")
	}
}
