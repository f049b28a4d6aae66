package field

import (
	"image/color"
	"time"

	"github.com/taigrr/lifecube/pkg/math3d"
)

// Align selects the horizontal anchor of a text run.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Baseline selects the vertical anchor of a text run.
type Baseline int

const (
	BaselineTop Baseline = iota
	BaselineBottom
)

// TextStyle describes how FillText renders a run.
type TextStyle struct {
	Color    color.NRGBA
	Size     float64 // logical pixels
	Bold     bool
	Align    Align
	Baseline Baseline
}

// Surface is the immediate-mode 2D target the renderer draws on.
// Coordinates are logical pixels with the origin at the top left.
type Surface interface {
	// Size reports the logical width and height.
	Size() (w, h float64)

	// Clear fills the whole surface with an opaque color.
	Clear(c color.RGBA)

	// FillRect fills an axis-aligned rectangle, blending by c.A.
	FillRect(x, y, w, h float64, c color.NRGBA)

	// SetGlow applies a soft halo of the given radius to the next FillRect
	// only.
	SetGlow(radius float64, c color.NRGBA)

	// StrokePolyline draws connected line segments through pts.
	StrokePolyline(pts []math3d.Vec2, c color.NRGBA, width float64)

	// FillText draws s anchored at (x, y).
	FillText(x, y float64, s string, style TextStyle)

	// OnResize registers fn to run after the backing store is resized and
	// returns a function that removes it.
	OnResize(fn func()) (cancel func())
}

// Handle identifies a scheduled callback.
type Handle uint64

// Scheduler runs callbacks once per display refresh.
type Scheduler interface {
	// RequestFrame runs fn once before the next refresh.
	RequestFrame(fn func(now time.Time)) Handle

	// After runs fn once after d has elapsed.
	After(d time.Duration, fn func(now time.Time)) Handle

	// Cancel drops a pending callback. Unknown or already run handles are
	// ignored.
	Cancel(h Handle)

	// Now reads the scheduler clock.
	Now() time.Time
}
