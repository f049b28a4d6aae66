package render

import (
	"image/color"
	"math"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/lifecube/pkg/field"
)

// Draw converts the framebuffer to half-block cells on scr.
// The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(col, topY)),
					Bg: rgbaToColor(fb.GetPixel(col, botY)),
				},
			})
		}
	}
}

// Draw renders the canvas pixels and then its labels as text cells.
func (c *Canvas) Draw(scr uv.Screen, area uv.Rectangle) {
	c.fb.Draw(scr, area)
	for _, cell := range c.textCells() {
		if cell.col < area.Min.X || cell.col >= area.Max.X || cell.row < area.Min.Y || cell.row >= area.Max.Y {
			continue
		}
		scr.SetCell(cell.col, cell.row, &uv.Cell{
			Content: string(cell.r),
			Width:   1,
			Style: uv.Style{
				Fg: cell.fg,
				Bg: cell.bg,
			},
		})
	}
}

// textCell is one glyph of a label placed on the terminal grid.
type textCell struct {
	col, row int
	r        rune
	fg, bg   color.RGBA
	bold     bool
}

// textCells lays labels out on terminal cells: one column per pixel, one
// row per two pixels. The cell background is the pixel color beneath so the
// text sits on the field instead of punching holes in it.
func (c *Canvas) textCells() []textCell {
	var cells []textCell
	for _, l := range c.labels {
		runes := []rune(l.Text)
		col := int(math.Round(l.X))
		if l.Style.Align == field.AlignRight {
			col -= len(runes)
		}
		y := int(math.Floor(l.Y))
		if l.Style.Baseline == field.BaselineBottom {
			y--
		}
		row := floorDiv(y, 2)
		for i, r := range runes {
			x := col + i
			cells = append(cells, textCell{
				col:  x,
				row:  row,
				r:    r,
				fg:   blend(c.fb.GetPixel(x, row*2), l.Style.Color),
				bg:   c.fb.GetPixel(x, row*2+1),
				bold: l.Style.Bold,
			})
		}
	}
	return cells
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// RGB creates an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// NRGBA creates a straight-alpha color.
func NRGBA(r, g, b, a uint8) color.NRGBA {
	return color.NRGBA{r, g, b, a}
}
