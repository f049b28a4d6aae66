// Package render rasterizes the point field into a pixel framebuffer and
// presents it on a terminal using half-block cells.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Framebuffer is a 2D array of opaque pixels. On a terminal each cell shows
// two vertically stacked pixels using the upper half block (▀).
type Framebuffer struct {
	Width  int          // Width in pixels (terminal columns)
	Height int          // Height in pixels (2x terminal rows)
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Resize reallocates the pixel store. Contents are discarded.
func (fb *Framebuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	fb.Width, fb.Height = width, height
	if cap(fb.Pixels) >= width*height {
		fb.Pixels = fb.Pixels[:width*height]
		clear(fb.Pixels)
		return
	}
	fb.Pixels = make([]color.RGBA, width*height)
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	if len(fb.Pixels) == 0 {
		return
	}
	// copy-doubling
	fb.Pixels[0] = c
	for i := 1; i < len(fb.Pixels); i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

func (fb *Framebuffer) contains(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// SetPixel overwrites the pixel at (x, y). Out of range writes are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if fb.contains(x, y) {
		fb.Pixels[y*fb.Width+x] = c
	}
}

// GetPixel returns the pixel at (x, y), or transparent black outside.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if !fb.contains(x, y) {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// BlendPixel composites c over the pixel at (x, y).
func (fb *Framebuffer) BlendPixel(x, y int, c color.NRGBA) {
	if c.A == 0 || !fb.contains(x, y) {
		return
	}
	i := y*fb.Width + x
	fb.Pixels[i] = blend(fb.Pixels[i], c)
}

// blend is source-over for an opaque destination.
func blend(dst color.RGBA, src color.NRGBA) color.RGBA {
	if src.A == 255 {
		return color.RGBA{src.R, src.G, src.B, 255}
	}
	a := uint32(src.A)
	ia := 255 - a
	return color.RGBA{
		R: uint8((uint32(src.R)*a + uint32(dst.R)*ia + 127) / 255),
		G: uint8((uint32(src.G)*a + uint32(dst.G)*ia + 127) / 255),
		B: uint8((uint32(src.B)*a + uint32(dst.B)*ia + 127) / 255),
		A: 255,
	}
}

// FillRectF blends a rectangle given in fractional pixels. Pixels whose
// centers fall inside are covered; a rectangle smaller than a pixel still
// covers the pixel containing its center.
func (fb *Framebuffer) FillRectF(x, y, w, h float64, c color.NRGBA) {
	x0 := int(math.Ceil(x - 0.5))
	y0 := int(math.Ceil(y - 0.5))
	x1 := int(math.Ceil(x + w - 0.5))
	y1 := int(math.Ceil(y + h - 0.5))
	if x1 <= x0 {
		x0 = int(math.Floor(x + w/2))
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y0 = int(math.Floor(y + h/2))
		y1 = y0 + 1
	}
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, fb.Width), min(y1, fb.Height)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			fb.BlendPixel(px, py, c)
		}
	}
}

// DrawLine blends a line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.NRGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.BlendPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage copies the pixels into a new image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, p := range fb.Pixels {
		img.Pix[i*4+0] = p.R
		img.Pix[i*4+1] = p.G
		img.Pix[i*4+2] = p.B
		img.Pix[i*4+3] = p.A
	}
	return img
}

// SavePNG encodes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
