package hd44780

import "time"

// Instructions
const (
	CmdClear       = 0x01 // Clear display, address counter to 0
	CmdHome        = 0x02 // Return home
	CmdEntryMode   = 0x04 // Entry mode set
	CmdDisplayCtrl = 0x08 // Display on/off control
	CmdShift       = 0x10 // Cursor or display shift
	CmdFunctionSet = 0x20 // Function set
	CmdSetCGRAM    = 0x40 // Set CGRAM address
	CmdSetDDRAM    = 0x80 // Set DDRAM address
)

// Entry mode flags
const (
	EntryIncrement = 0x02
	EntryShift     = 0x01
)

// Display control flags
const (
	DisplayOn = 0x04
	CursorOn  = 0x02
	BlinkOn   = 0x01
)

// Shift flags
const (
	ShiftDisplay = 0x08
	ShiftRight   = 0x04
)

// Function set flags
const (
	DataLength8 = 0x10
	TwoLines    = 0x08
	Font5x10    = 0x04
)

// DDRAM line starts, already or'ed with CmdSetDDRAM.
const (
	Line1 = 0x80
	Line2 = 0xC0
)

const (
	Columns = 16
	Rows    = 2
	Slots   = 8 // CGRAM glyph slots
)

// Timing floors. These are protocol requirements, not tunables.
const (
	PowerOnDelay     = 50 * time.Millisecond
	ResetDelay       = 5 * time.Millisecond
	PulseWidth       = 2 * time.Microsecond
	LatchDelay       = 100 * time.Microsecond
	CommandDelay     = 100 * time.Microsecond
	LongCommandDelay = 10 * time.Millisecond
	CharDelay        = 200 * time.Microsecond
)

const (
	resetNibble   = 0x3
	fourBitNibble = 0x2
)
