// Package hd44780 implements a driver for HD44780-compatible 16x2 character LCDs wired in
// 4-bit parallel mode: four data lines (D4..D7), a register-select line and an enable strobe.
// The R/W line is expected to be tied low; the bus is write-only and there is no busy flag
// polling, so correctness relies entirely on the settle delays in commands.go.
//
// The driver only describes the protocol. Line changes and waits are handed to a Bus, which
// is either real hardware (GPIOBus, pcf8574.Backpack, hostpin) or a recorder such as lcdsim.
//
// Datasheet: https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package hd44780

import (
	"fmt"
	"time"
)

// Bus is the set of line operations the protocol is expressed in. Implementations must apply
// each call in order; Wait must block for at least d on real hardware.
type Bus interface {
	SetRS(data bool)
	SetData(nibble uint8)
	SetEnable(high bool)
	Wait(d time.Duration)
}

// Glyph is a 5x8 custom character. The low 5 bits of each byte are one pixel row, top first.
type Glyph [8]byte

// printfSize matches the controller's two visible lines plus the invisible remainder that
// callers historically relied on.
const printfSize = 32

type Device struct {
	bus Bus
	buf []byte
}

// New creates a driver on the given bus. Configure must be called once before anything else.
func New(bus Bus) *Device {
	return &Device{
		bus: bus,
		buf: make([]byte, 0, printfSize),
	}
}

// Configure runs the power-on sequence that forces the controller into 4-bit mode from any
// state, then selects 2 lines with the 5x8 font, turns the display on with the cursor off,
// selects left-to-right entry, clears the screen and homes the cursor.
func (d *Device) Configure() {
	d.bus.Wait(PowerOnDelay)

	d.bus.SetRS(false)
	d.bus.SetEnable(false)

	// three function sets in 8-bit mode so the controller is in a known state whatever the
	// previous nibble phase was
	for i := 0; i < 3; i++ {
		d.SendNibble(resetNibble)
		d.Strobe()
		d.bus.Wait(ResetDelay)
	}

	d.SendNibble(fourBitNibble)
	d.Strobe()
	d.bus.Wait(ResetDelay)

	for _, cmd := range [...]uint8{
		CmdFunctionSet | TwoLines,
		CmdDisplayCtrl | DisplayOn,
		CmdEntryMode | EntryIncrement,
	} {
		d.Command(cmd)
		d.bus.Wait(ResetDelay)
	}

	d.Command(CmdClear)
	d.bus.Wait(LongCommandDelay)

	d.Command(Line1)
	d.bus.Wait(LongCommandDelay)
}

// SendNibble presents the low four bits of v on D4..D7.
func (d *Device) SendNibble(v uint8) {
	d.bus.SetData(v & 0x0F)
}

// Strobe pulses the enable line so the controller latches the nibble currently on the bus.
func (d *Device) Strobe() {
	d.bus.SetEnable(true)
	d.bus.Wait(PulseWidth)
	d.bus.SetEnable(false)
	d.bus.Wait(LatchDelay)
}

// Command sends an instruction byte with RS low. Clear and return-home keep the controller
// busy for far longer than the other instructions.
func (d *Device) Command(cmd uint8) {
	d.bus.SetRS(false)
	d.send(cmd)
	if cmd == CmdClear || cmd == CmdHome {
		d.bus.Wait(LongCommandDelay)
	} else {
		d.bus.Wait(CommandDelay)
	}
}

// Data sends a data byte with RS high. It lands in DDRAM or CGRAM depending on the last
// address instruction.
func (d *Device) Data(b uint8) {
	d.bus.SetRS(true)
	d.send(b)
	d.bus.Wait(CommandDelay)
}

func (d *Device) send(b uint8) {
	d.SendNibble(b >> 4)
	d.Strobe()
	d.SendNibble(b & 0x0F)
	d.Strobe()
}

// Clear blanks the display and moves the cursor to row 0, column 0.
func (d *Device) Clear() {
	d.Command(CmdClear)
	d.bus.Wait(LongCommandDelay)
}

// Home moves the cursor to row 0, column 0 and undoes any display shift.
func (d *Device) Home() {
	d.Command(CmdHome)
}

// SetCursor moves the cursor. Any row other than 1 addresses the first line. The column is
// not checked against the display width: larger values land in the controller's off-screen
// DDRAM or alias into the other line, which is what the hardware does.
func (d *Device) SetCursor(row, col uint8) {
	var addr uint8
	switch row {
	case 1:
		addr = Line2 + col
	default:
		addr = Line1 + col
	}
	d.Command(addr)
}

// WriteChar writes one character code at the cursor. Codes 0-7 show the CGRAM glyphs.
func (d *Device) WriteChar(c uint8) {
	d.Data(c)
}

// WriteString writes the bytes of s starting at the cursor, with a short gap between
// characters for slow controllers.
func (d *Device) WriteString(s string) {
	for i := 0; i < len(s); i++ {
		d.Data(s[i])
		d.bus.Wait(CharDelay)
	}
}

// WriteStringAt moves the cursor to (row, col) and writes s.
func (d *Device) WriteStringAt(row, col uint8, s string) {
	d.SetCursor(row, col)
	d.WriteString(s)
}

// Write implements io.Writer. It never fails.
func (d *Device) Write(p []byte) (int, error) {
	for _, c := range p {
		d.Data(c)
		d.bus.Wait(CharDelay)
	}
	return len(p), nil
}

// Printf formats into a fixed buffer and writes the result at the cursor. Output longer than
// 31 bytes is cut.
func (d *Device) Printf(format string, args ...interface{}) {
	d.buf = fmt.Appendf(d.buf[:0], format, args...)
	if len(d.buf) > printfSize-1 {
		d.buf = d.buf[:printfSize-1]
	}
	d.Write(d.buf)
}

// CreateChar uploads a glyph into one of the 8 CGRAM slots; only the low 3 bits of slot are
// used. The cursor is left in CGRAM, so callers must SetCursor, Clear or Home before writing
// text again.
func (d *Device) CreateChar(slot uint8, g Glyph) {
	slot &= Slots - 1
	d.Command(CmdSetCGRAM | slot<<3)
	for _, row := range g {
		d.Data(row)
	}
}

// SetDisplay switches the whole display, the underline cursor and the blinking block cursor.
func (d *Device) SetDisplay(on, cursor, blink bool) {
	cmd := uint8(CmdDisplayCtrl)
	if on {
		cmd |= DisplayOn
	}
	if cursor {
		cmd |= CursorOn
	}
	if blink {
		cmd |= BlinkOn
	}
	d.Command(cmd)
}

// ShiftCursor moves the cursor one position without writing.
func (d *Device) ShiftCursor(right bool) {
	cmd := uint8(CmdShift)
	if right {
		cmd |= ShiftRight
	}
	d.Command(cmd)
}

// ShiftDisplay scrolls both lines one position.
func (d *Device) ShiftDisplay(right bool) {
	cmd := uint8(CmdShift | ShiftDisplay)
	if right {
		cmd |= ShiftRight
	}
	d.Command(cmd)
}
