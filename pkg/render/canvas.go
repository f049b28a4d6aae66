package render

import (
	"image/color"
	"math"

	"github.com/taigrr/lifecube/pkg/field"
	"github.com/taigrr/lifecube/pkg/math3d"
)

// Label is a queued text run in framebuffer pixel coordinates. Presenters
// draw labels in whatever way suits them: terminal cells or rasterized
// glyphs.
type Label struct {
	X, Y  float64
	Text  string
	Style field.TextStyle
}

type glowSpec struct {
	radius float64
	color  color.NRGBA
}

// Canvas is a field.Surface over a Framebuffer. Logical coordinates are
// multiplied by the pixel density to address backing pixels.
type Canvas struct {
	fb      *Framebuffer
	density float64
	labels  []Label
	glow    *glowSpec

	listeners    map[int]func()
	nextListener int
}

var _ field.Surface = (*Canvas)(nil)

// NewCanvas returns a canvas for a viewport of viewW×viewH logical pixels.
func NewCanvas(viewW, viewH int, density float64) *Canvas {
	c := &Canvas{
		fb:        NewFramebuffer(0, 0),
		listeners: make(map[int]func()),
	}
	c.setSize(viewW, viewH, density)
	return c
}

func (c *Canvas) setSize(viewW, viewH int, density float64) {
	if !(density > 0) {
		density = 1
	}
	c.density = density
	c.fb.Resize(
		int(math.Round(float64(viewW)*density)),
		int(math.Round(float64(viewH)*density)),
	)
	c.labels = c.labels[:0]
	c.glow = nil
}

// Resize recreates the backing pixels for a new viewport and density, then
// notifies resize listeners.
func (c *Canvas) Resize(viewW, viewH int, density float64) {
	c.setSize(viewW, viewH, density)
	for _, fn := range c.listeners {
		fn()
	}
}

// OnResize registers fn to run after each Resize.
func (c *Canvas) OnResize(fn func()) func() {
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	return func() { delete(c.listeners, id) }
}

// Framebuffer returns the backing pixels.
func (c *Canvas) Framebuffer() *Framebuffer { return c.fb }

// Labels returns the text queued since the last Clear.
func (c *Canvas) Labels() []Label { return c.labels }

// Density returns the pixel density.
func (c *Canvas) Density() float64 { return c.density }

// Size reports the logical size.
func (c *Canvas) Size() (w, h float64) {
	return float64(c.fb.Width) / c.density, float64(c.fb.Height) / c.density
}

// Clear fills every pixel and drops queued text.
func (c *Canvas) Clear(bg color.RGBA) {
	c.fb.Clear(bg)
	c.labels = c.labels[:0]
	c.glow = nil
}

// SetGlow arms a halo for the next FillRect.
func (c *Canvas) SetGlow(radius float64, col color.NRGBA) {
	c.glow = &glowSpec{radius: radius * c.density, color: col}
}

// FillRect blends a rectangle, drawing the armed glow beneath it first.
func (c *Canvas) FillRect(x, y, w, h float64, col color.NRGBA) {
	d := c.density
	px, py, pw, ph := x*d, y*d, w*d, h*d
	if g := c.glow; g != nil {
		c.glow = nil
		c.drawGlow(px, py, pw, ph, *g)
	}
	c.fb.FillRectF(px, py, pw, ph, col)
}

// drawGlow blends a halo whose opacity falls off quadratically with the
// distance from the rectangle's edge.
func (c *Canvas) drawGlow(x, y, w, h float64, g glowSpec) {
	if g.radius <= 0 || g.color.A == 0 {
		return
	}
	x0 := int(math.Floor(x - g.radius))
	y0 := int(math.Floor(y - g.radius))
	x1 := int(math.Ceil(x + w + g.radius))
	y1 := int(math.Ceil(y + h + g.radius))
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			cx, cy := float64(px)+0.5, float64(py)+0.5
			dx := math.Max(math.Max(x-cx, cx-(x+w)), 0)
			dy := math.Max(math.Max(y-cy, cy-(y+h)), 0)
			dist := math.Hypot(dx, dy)
			if dist >= g.radius {
				continue
			}
			f := 1 - dist/g.radius
			a := float64(g.color.A) * f * f * 0.5
			c.fb.BlendPixel(px, py, color.NRGBA{g.color.R, g.color.G, g.color.B, uint8(a)})
		}
	}
}

// StrokePolyline draws connected segments through pts.
func (c *Canvas) StrokePolyline(pts []math3d.Vec2, col color.NRGBA, width float64) {
	thick := max(1, int(math.Round(width*c.density)))
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1].Scale(c.density), pts[i].Scale(c.density)
		for t := range thick {
			off := float64(t - thick/2)
			c.fb.DrawLine(
				int(math.Round(a.X)), int(math.Round(a.Y+off)),
				int(math.Round(b.X)), int(math.Round(b.Y+off)),
				col,
			)
		}
	}
}

// FillText queues a text run.
func (c *Canvas) FillText(x, y float64, s string, style field.TextStyle) {
	style.Size *= c.density
	c.labels = append(c.labels, Label{X: x * c.density, Y: y * c.density, Text: s, Style: style})
}
