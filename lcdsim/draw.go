package lcdsim

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"github.com/ajanata/multiclock/hd44780"
)

// Cell geometry used by Draw: 5x8 dots plus one column and one row of spacing.
const (
	CellWidth  = 6
	CellHeight = 9
)

// Draw paints the visible 16x2 area onto a pixel display with its top-left corner at (x, y)
// and calls Display. CGRAM codes are drawn dot for dot; everything else goes through
// tinyfont. Nothing is drawn while the modelled display is switched off. The caller is
// expected to have cleared the area.
func (c *Controller) Draw(display drivers.Displayer, x, y int16, fg color.RGBA) error {
	if c.displayOn {
		for row := 0; row < hd44780.Rows; row++ {
			line := c.Line(row)
			for col := 0; col < len(line); col++ {
				cx := x + int16(col)*CellWidth
				cy := y + int16(row)*CellHeight
				code := line[col]
				switch {
				case code < 2*hd44780.Slots:
					// codes 8-15 mirror the CGRAM slots
					c.drawGlyph(display, cx, cy, c.Glyph(code), fg)
				case code != ' ':
					tinyfont.WriteLine(display, &tinyfont.TomThumb, cx, cy+6, string(rune(code)), fg)
				}
			}
		}
	}
	return display.Display()
}

func (c *Controller) drawGlyph(display drivers.Displayer, x, y int16, g hd44780.Glyph, fg color.RGBA) {
	for py, bits := range g {
		for px := 0; px < 5; px++ {
			if bits&(0x10>>px) != 0 {
				display.SetPixel(x+int16(px), y+int16(py), fg)
			}
		}
	}
}
