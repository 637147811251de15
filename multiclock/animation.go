package multiclock

import (
	"strings"
	"time"

	"github.com/ajanata/multiclock/hd44780"
)

// CGRAM slots used by the startup animation.
const (
	glyphRocketTop = iota
	glyphRocketBottom
	glyphFlameA
	glyphFlameB
)

var rocketGlyphs = [...]hd44780.Glyph{
	glyphRocketTop: {
		0b00100,
		0b01110,
		0b01110,
		0b01110,
		0b01110,
		0b01110,
		0b01110,
		0b00000,
	},
	glyphRocketBottom: {
		0b01110,
		0b01110,
		0b11111,
		0b11111,
		0b11111,
		0b10101,
		0b10101,
		0b00000,
	},
	glyphFlameA: {
		0b00100,
		0b01110,
		0b10101,
		0b01110,
		0b11111,
		0b01010,
		0b10101,
		0b00100,
	},
	glyphFlameB: {
		0b01110,
		0b11111,
		0b01110,
		0b11111,
		0b10101,
		0b11111,
		0b01110,
		0b00100,
	},
}

const (
	flickerCycles = 6
	flickerFrame  = 80 * time.Millisecond
	launchFrame   = 150 * time.Millisecond
	padColumn     = 7
)

var dashes = strings.Repeat("-", hd44780.Columns)

// animate plays the rocket launch. No input is read while it runs.
func (c *Controller) animate() {
	for slot, g := range rocketGlyphs {
		c.display.CreateChar(uint8(slot), g)
	}
	c.display.Clear()

	// ignition
	c.glyphAt(1, glyphRocketBottom)
	for i := 0; i < flickerCycles; i++ {
		c.glyphAt(1, glyphFlameA)
		c.sleep(flickerFrame)
		c.glyphAt(1, glyphFlameB)
		c.sleep(flickerFrame)
	}

	// launch
	c.frame(glyphRocketTop, glyphRocketBottom)
	c.frame(glyphRocketTop, glyphFlameA)
	c.frame(glyphFlameB, -1)

	c.display.Clear()
	c.display.WriteStringAt(0, 2, "SYSTEM ONLINE")
	c.display.WriteStringAt(1, 0, dashes)
}

// frame clears the screen, draws top over bottom on the pad column and holds. A negative
// glyph leaves that row empty.
func (c *Controller) frame(top, bottom int) {
	c.display.Clear()
	if top >= 0 {
		c.glyphAt(0, top)
	}
	if bottom >= 0 {
		c.glyphAt(1, bottom)
	}
	c.sleep(launchFrame)
}

func (c *Controller) glyphAt(row uint8, glyph int) {
	c.display.SetCursor(row, padColumn)
	c.display.WriteChar(uint8(glyph))
}
