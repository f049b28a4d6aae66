package render

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
)

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// DrawTcell renders the canvas pixels as half blocks on s, then its labels.
func (c *Canvas) DrawTcell(s tcell.Screen) {
	cols, rows := s.Size()
	fb := c.fb
	for row := 0; row < rows; row++ {
		for col := 0; col < cols && col < fb.Width; col++ {
			style := tcell.StyleDefault.
				Foreground(tcellColor(fb.GetPixel(col, row*2))).
				Background(tcellColor(fb.GetPixel(col, row*2+1)))
			s.SetContent(col, row, '▀', nil, style)
		}
	}
	for _, cell := range c.textCells() {
		if cell.col < 0 || cell.col >= cols || cell.row < 0 || cell.row >= rows {
			continue
		}
		style := tcell.StyleDefault.
			Foreground(tcellColor(cell.fg)).
			Background(tcellColor(cell.bg)).
			Bold(cell.bold)
		s.SetContent(cell.col, cell.row, cell.r, nil, style)
	}
}
