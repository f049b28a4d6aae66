package field

import (
	"math"

	"github.com/taigrr/lifecube/pkg/math3d"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numbers = message.NewPrinter(language.English)

// RatioText formats the callout's "W: current / total" line with grouped
// thousands.
func RatioText(current, total int) string {
	return numbers.Sprintf("W: %d / %d", current, total)
}

// CalloutTarget returns where the label should sit for a dot at p: the dot's
// direction from center pushed out to an ellipse with radii rx, ry. A dot
// within one pixel of the center points up and to the right.
func CalloutTarget(center, p math3d.Vec2, rx, ry float64) math3d.Vec2 {
	d := p.Sub(center)
	dist := d.Len()
	if dist < 1 {
		d = math3d.V2(1, -1)
		dist = math.Sqrt2
	}
	return math3d.V2(
		center.X+d.X/dist*rx,
		center.Y+d.Y/dist*ry,
	)
}

func (r *Renderer) drawCallout() {
	co := r.cfg.Callout
	pal := r.cfg.Palette
	v := r.view
	dot := r.current.Screen

	rx := math.Min(v.Width*0.35, co.CapX)
	ry := math.Min(v.Height*0.35, co.CapY)
	label := r.label.Update(CalloutTarget(v.Center, dot, rx, ry))

	right := label.X > v.Center.X
	ext, textX, align := -co.Extension, label.X-4, AlignRight
	if right {
		ext, textX, align = co.Extension, label.X+4, AlignLeft
	}

	r.surface.StrokePolyline([]math3d.Vec2{
		dot,
		label,
		math3d.V2(label.X+ext, label.Y),
	}, withAlpha(pal.Current, 0.9), 1)

	r.surface.FillText(textX, label.Y-4, co.Caption, TextStyle{
		Color:    withAlpha(pal.Accent, 1),
		Size:     11,
		Bold:     true,
		Align:    align,
		Baseline: BaselineBottom,
	})
	r.surface.FillText(textX, label.Y+4, RatioText(r.cfg.Threshold, r.cfg.Total), TextStyle{
		Color:    withAlpha(pal.Text, 0.95),
		Size:     10,
		Align:    align,
		Baseline: BaselineTop,
	})
	if co.Secondary != "" {
		r.surface.FillText(textX, label.Y+18, co.Secondary, TextStyle{
			Color:    withAlpha(pal.Secondary, 0.9),
			Size:     10,
			Align:    align,
			Baseline: BaselineTop,
		})
	}
}
