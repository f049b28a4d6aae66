package field

import (
	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/lifecube/pkg/math3d"
)

// LabelFollower eases the callout anchor toward a moving target. The first
// update snaps to the target; later updates move a fixed fraction of the
// remaining distance, or follow a damped spring when one is configured.
type LabelFollower struct {
	pos    math3d.Vec2
	set    bool
	factor float64

	spring *harmonica.Spring
	vel    math3d.Vec2
}

// NewLabelFollower returns a follower that covers factor of the remaining
// distance per update.
func NewLabelFollower(factor float64) *LabelFollower {
	return &LabelFollower{factor: factor}
}

// NewSpringFollower returns a follower driven by a harmonica spring stepped
// at fps.
func NewSpringFollower(fps int, frequency, damping float64) *LabelFollower {
	s := harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)
	return &LabelFollower{spring: &s}
}

// Update advances the anchor toward target and returns the new position.
func (f *LabelFollower) Update(target math3d.Vec2) math3d.Vec2 {
	if !f.set {
		f.pos = target
		f.set = true
		return f.pos
	}
	if f.spring != nil {
		f.pos.X, f.vel.X = f.spring.Update(f.pos.X, f.vel.X, target.X)
		f.pos.Y, f.vel.Y = f.spring.Update(f.pos.Y, f.vel.Y, target.Y)
		return f.pos
	}
	f.pos = f.pos.Lerp(target, f.factor)
	return f.pos
}

// Position returns the current anchor and whether it has been initialized.
func (f *LabelFollower) Position() (math3d.Vec2, bool) {
	return f.pos, f.set
}

// Reset forgets the anchor so the next update snaps again.
func (f *LabelFollower) Reset() {
	f.pos, f.vel, f.set = math3d.Vec2{}, math3d.Vec2{}, false
}
