package frame

import "time"

// Manual is a Loop whose clock only moves when told to. Tests use it to
// step a renderer frame by frame.
type Manual struct {
	*Loop
	now time.Time
}

// NewManual returns a manual loop at start with a 60 FPS nominal interval.
func NewManual(start time.Time) *Manual {
	m := &Manual{now: start}
	m.Loop = NewLoop(60, WithClock(func() time.Time { return m.now }))
	return m
}

// Advance moves the clock by d and runs one tick.
func (m *Manual) Advance(d time.Duration) {
	m.now = m.now.Add(d)
	m.Tick()
}

// Frames advances by one interval n times.
func (m *Manual) Frames(n int) {
	for range n {
		m.Advance(m.interval)
	}
}
