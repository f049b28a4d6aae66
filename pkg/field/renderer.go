// Package field renders the rotating "life in weeks" point cloud: a cubic
// lattice of points, the first Threshold of them lit, with the most recent
// one pulsing and tagged by a callout.
package field

import (
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/taigrr/lifecube/pkg/math3d"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// Stats counts work done by a Renderer.
type Stats struct {
	Frames  int // frames stepped
	Resizes int
}

// Renderer owns the point set and all animation state. All methods must be
// called from the scheduler's goroutine.
type Renderer struct {
	cfg     Config
	surface Surface
	sched   Scheduler
	log     *slog.Logger

	points    []Point
	projected []ProjectedPoint // backing store, len(points)
	visible   []ProjectedPoint // sorted prefix from the last frame
	offset    float64

	angleX, angleY float64
	progress       float64
	view           View
	label          *LabelFollower

	current    ProjectedPoint
	hasCurrent bool

	handle       Handle
	scheduled    bool
	started      bool
	stopped      bool
	stopResizing func()
	stats        Stats
}

// New builds the lattice for cfg. A nil surface produces a renderer whose
// Start does nothing.
func New(surface Surface, sched Scheduler, cfg Config, opts ...Option) *Renderer {
	cfg = cfg.withDefaults()
	r := &Renderer{
		cfg:     cfg,
		surface: surface,
		sched:   sched,
		log:     slog.Default(),
		points:  NewGrid(cfg.GridSize, cfg.Spacing, cfg.Threshold),
		offset:  GridOffset(cfg.GridSize, cfg.Spacing),
		angleX:  cfg.InitialAngleX,
		angleY:  cfg.InitialAngleY,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.projected = make([]ProjectedPoint, len(r.points))

	if cfg.Callout.Spring {
		r.label = NewSpringFollower(cfg.FPS, cfg.Callout.SpringFrequency, cfg.Callout.SpringDamping)
	} else {
		r.label = NewLabelFollower(cfg.Callout.Follow)
	}

	if surface != nil {
		r.resize()
	}
	return r
}

// Enabled reports whether the renderer has a surface to draw on.
func (r *Renderer) Enabled() bool {
	return r.surface != nil && r.sched != nil
}

// Start subscribes to resizes and schedules the first frame after
// Config.StartDelay. Calling Start more than once is not supported; later
// calls are logged and ignored.
func (r *Renderer) Start() {
	if !r.Enabled() {
		return
	}
	if r.started {
		r.log.Warn("field renderer already started")
		return
	}
	r.started = true
	r.stopResizing = r.surface.OnResize(r.resize)
	r.resize()

	r.handle = r.sched.After(r.cfg.StartDelay, r.frame)
	r.scheduled = true
	r.log.Debug("field renderer started",
		"points", len(r.points),
		"threshold", r.cfg.Threshold,
		"delay", r.cfg.StartDelay,
	)
}

// Stop cancels the pending frame and the resize subscription. It is safe to
// call repeatedly and before the first frame.
func (r *Renderer) Stop() {
	if r.stopped {
		return
	}
	r.stopped = true
	if r.scheduled && r.sched != nil {
		r.sched.Cancel(r.handle)
		r.scheduled = false
	}
	if r.stopResizing != nil {
		r.stopResizing()
		r.stopResizing = nil
	}
	if r.started {
		r.log.Debug("field renderer stopped", "frames", r.stats.Frames)
	}
}

func (r *Renderer) frame(now time.Time) {
	r.scheduled = false
	if r.stopped {
		return
	}
	r.Step(now)
	if r.stopped {
		return
	}
	r.handle = r.sched.RequestFrame(r.frame)
	r.scheduled = true
}

func (r *Renderer) resize() {
	w, h := r.surface.Size()
	r.view = NewView(w, h, r.cfg)
	r.stats.Resizes++
	r.log.Debug("field view updated", "width", w, "height", h, "fov", r.view.FOV)
}

// Step advances the animation by one frame and draws it.
func (r *Renderer) Step(now time.Time) {
	r.angleY += r.cfg.RotationSpeedY
	r.angleX += r.cfg.RotationSpeedX

	if r.surface != nil {
		r.surface.Clear(r.cfg.Palette.Background)
	}

	n := r.VisibleCount()
	r.visible = r.view.ProjectAll(r.angleX, r.angleY, r.points[:n], r.projected)
	r.hasCurrent = false

	if r.surface != nil {
		r.drawPoints()
		if r.hasCurrent {
			r.drawCurrent(now)
			if r.cfg.Callout.Enabled {
				r.drawCallout()
			}
		}
	} else {
		r.findCurrent()
	}

	if r.progress < 1 {
		r.progress += r.cfg.RevealStep
	}
	r.stats.Frames++
}

func (r *Renderer) isCurrent(p ProjectedPoint) bool {
	return p.Index == r.cfg.Threshold-1
}

func (r *Renderer) findCurrent() {
	for _, p := range r.visible {
		if r.isCurrent(p) {
			r.current, r.hasCurrent = p, true
			return
		}
	}
}

func dotSize(scale float64) float64 {
	return math.Max(0.5, scale*0.8)
}

func (r *Renderer) drawPoints() {
	pal := r.cfg.Palette
	for _, p := range r.visible {
		if r.isCurrent(p) {
			r.current, r.hasCurrent = p, true
			continue
		}
		alpha := depthAlpha(p.Depth, r.offset)
		c := withAlpha(pal.Future, alpha*pal.FutureOpacity)
		if p.Past {
			c = withAlpha(pal.Past, alpha*pal.PastOpacity)
		}
		r.fillDot(p, c)
	}
}

func (r *Renderer) drawCurrent(now time.Time) {
	p := r.current
	ms := float64(now.UnixNano()) / float64(time.Millisecond)
	pulse := 0.5 + 0.5*math.Sin(ms/150)

	alpha := depthAlpha(p.Depth, r.offset)
	r.surface.SetGlow(r.cfg.Glow.Base+pulse*r.cfg.Glow.Range, withAlpha(r.cfg.Palette.Glow, 1))
	r.fillDot(p, withAlpha(r.cfg.Palette.Current, math.Max(0.9, alpha+0.8)))
}

func (r *Renderer) fillDot(p ProjectedPoint, c color.NRGBA) {
	s := dotSize(p.Scale)
	r.surface.FillRect(p.Screen.X-s/2, p.Screen.Y-s/2, s, s, c)
}

// withAlpha converts an opaque palette color to one with opacity a, clamped
// to [0,1].
func withAlpha(c color.RGBA, a float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(clamp(a, 0, 1) * 255))}
}

// Points returns the lattice in creation order.
func (r *Renderer) Points() []Point { return r.points }

// Projected returns the visible points from the last frame, back to front.
// The slice is reused by the next Step.
func (r *Renderer) Projected() []ProjectedPoint { return r.visible }

// Current returns the highlighted point from the last frame, if any.
func (r *Renderer) Current() (ProjectedPoint, bool) { return r.current, r.hasCurrent }

// Progress returns the reveal progress.
func (r *Renderer) Progress() float64 { return r.progress }

// SetProgress overrides the reveal progress, clamped to [0,1].
func (r *Renderer) SetProgress(p float64) { r.progress = clamp(p, 0, 1) }

// VisibleCount is the number of points drawn by the next frame.
func (r *Renderer) VisibleCount() int {
	return min(int(math.Floor(r.progress*float64(len(r.points)))), len(r.points))
}

// Angles returns the accumulated rotation about X and Y.
func (r *Renderer) Angles() (ax, ay float64) { return r.angleX, r.angleY }

// Label returns the smoothed callout anchor, if one has been placed.
func (r *Renderer) Label() (math3d.Vec2, bool) { return r.label.Position() }

// View returns the projection derived from the last resize.
func (r *Renderer) View() View { return r.view }

// Config returns the effective configuration.
func (r *Renderer) Config() Config { return r.cfg }

// Stats returns counters for frames and resizes.
func (r *Renderer) Stats() Stats { return r.stats }
