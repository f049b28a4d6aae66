package field

import (
	"cmp"
	"math"
	"slices"

	"github.com/taigrr/lifecube/pkg/math3d"
)

// ProjectedPoint is a point in screen space for one frame.
type ProjectedPoint struct {
	Screen math3d.Vec2
	Depth  float64 // camera-space z after rotation, larger is farther
	Scale  float64 // perspective factor at this depth
	Index  int
	Past   bool
}

// View holds the projection parameters derived from the surface size. It
// is recomputed on resize, not per frame.
type View struct {
	Width, Height  float64
	FOV            float64 // focal length in pixels
	Center         math3d.Vec2
	CameraDistance float64
	MinDepth       float64
}

// NewView derives the projection for a surface of w×h logical pixels.
func NewView(w, h float64, cfg Config) View {
	return View{
		Width:          w,
		Height:         h,
		FOV:            math.Min(w, h) * 0.9,
		Center:         math3d.V2(w*cfg.CenterBias, h*0.5),
		CameraDistance: float64(cfg.GridSize) * cfg.Spacing * 1.8,
		MinDepth:       cfg.MinDepth,
	}
}

// Project rotates p by the orbit matrix and applies the perspective divide.
// The divisor is clamped to MinDepth so points at or behind the camera
// plane stay finite.
func (v View) Project(rot math3d.Mat3, p Point) ProjectedPoint {
	r := rot.MulVec3(p.Position)
	w := max(r.Z+v.CameraDistance, v.MinDepth)
	scale := v.FOV / w
	return ProjectedPoint{
		Screen: math3d.V2(r.X*scale+v.Center.X, r.Y*scale+v.Center.Y),
		Depth:  r.Z,
		Scale:  scale,
		Index:  p.Index,
		Past:   p.Past,
	}
}

// ProjectAll projects points into out, which must be at least as long, and
// returns the filled prefix sorted back to front.
func (v View) ProjectAll(ax, ay float64, points []Point, out []ProjectedPoint) []ProjectedPoint {
	rot := math3d.Orbit(ax, ay)
	out = out[:len(points)]
	for i, p := range points {
		out[i] = v.Project(rot, p)
	}
	SortBackToFront(out)
	return out
}

// SortBackToFront orders points by descending depth (painter's algorithm).
// Ties are left in unspecified order.
func SortBackToFront(pts []ProjectedPoint) {
	slices.SortFunc(pts, func(a, b ProjectedPoint) int {
		return cmp.Compare(b.Depth, a.Depth)
	})
}

// depthAlpha maps depth to the [0.05, 1] fade used for every dot.
func depthAlpha(depth, offset float64) float64 {
	if offset == 0 {
		return 1
	}
	n := (depth + offset*1.5) / (offset * 3)
	return clamp(1-n, 0.05, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
