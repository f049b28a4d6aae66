package render

import (
	"image"
	"image/draw"

	"github.com/taigrr/lifecube/pkg/field"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// labelFace is a fixed 7x13 bitmap face; label sizes only pick bold.
var labelFace font.Face = basicfont.Face7x13

// DrawLabels rasterizes labels onto dst.
func DrawLabels(dst draw.Image, labels []Label) {
	m := labelFace.Metrics()
	for _, l := range labels {
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(l.Style.Color),
			Face: labelFace,
		}
		x := fixed.I(int(l.X))
		if l.Style.Align == field.AlignRight {
			x -= d.MeasureString(l.Text)
		}
		y := fixed.I(int(l.Y))
		if l.Style.Baseline == field.BaselineTop {
			y += m.Ascent
		} else {
			y -= m.Descent
		}

		d.Dot = fixed.Point26_6{X: x, Y: y}
		d.DrawString(l.Text)
		if l.Style.Bold {
			d.Dot = fixed.Point26_6{X: x + fixed.I(1), Y: y}
			d.DrawString(l.Text)
		}
	}
}

// Image returns the canvas pixels with its labels rasterized.
func (c *Canvas) Image() *image.RGBA {
	img := c.fb.ToImage()
	DrawLabels(img, c.labels)
	return img
}

// SavePNG writes the canvas, labels included, to path.
func (c *Canvas) SavePNG(path string) error {
	return SavePNG(path, c.Image())
}
