// Package lcdsim models an HD44780 controller at the level of its bus pins. It implements
// hd44780.Bus, so the real driver can be pointed at it: every line change and wait is
// recorded, nibbles are latched on the falling edge of the enable strobe, and the decoded
// instructions update a DDRAM/CGRAM model that can be read back as text or drawn onto any
// pixel display.
//
// Writes that arrive while the modelled controller is still busy are dropped and reported as
// violations, which is how a real controller silently corrupts its state.
package lcdsim

import (
	"fmt"
	"time"

	"github.com/ajanata/multiclock/hd44780"
)

// Controller execution times from the datasheet, at a 270 kHz oscillator.
const (
	PowerOnTime   = 40 * time.Millisecond
	MinPulseWidth = 450 * time.Nanosecond
	ExecTime      = 37 * time.Microsecond
	LongExecTime  = 1520 * time.Microsecond // clear, return home
	FirstReset    = 4100 * time.Microsecond // after the first 8-bit function set
	Reset         = 100 * time.Microsecond
)

const ddramLine = 40

type OpKind uint8

const (
	OpRS OpKind = iota
	OpData
	OpEnable
	OpWait
)

func (k OpKind) String() string {
	switch k {
	case OpRS:
		return "rs"
	case OpData:
		return "data"
	case OpEnable:
		return "e"
	case OpWait:
		return "wait"
	default:
		return "unknown"
	}
}

// Op is one recorded bus call. Value holds the line level (0 or 1) or the nibble.
type Op struct {
	Kind  OpKind
	Value uint8
	Delay time.Duration
	At    time.Duration
}

func (o Op) String() string {
	if o.Kind == OpWait {
		return fmt.Sprintf("%v wait %v", o.At, o.Delay)
	}
	return fmt.Sprintf("%v %s=%#x", o.At, o.Kind, o.Value)
}

// Latch is a nibble accepted on an enable falling edge.
type Latch struct {
	RS     bool
	Nibble uint8
	At     time.Duration
}

// Violation describes a timing floor that was not honoured.
type Violation struct {
	At     time.Duration
	Reason string
	Short  time.Duration // how much longer the host should have waited
}

func (v Violation) String() string {
	return fmt.Sprintf("%v: %s (%v short)", v.At, v.Reason, v.Short)
}

type Config struct {
	// Sleep, if set, is called for every Wait so a virtual clock can follow bus time.
	Sleep func(time.Duration)

	// Limit caps the op, latch and violation logs at their most recent Limit entries. Zero
	// keeps everything, which suits tests but not a controller that runs forever.
	Limit int
}

type Controller struct {
	sleep func(time.Duration)
	limit int

	now        time.Duration
	ops        []Op
	latches    []Latch
	violations []Violation

	// pin state
	rs       bool
	data     uint8
	enable   bool
	enableAt time.Duration

	// interface state
	fourBit bool
	pending bool
	high    uint8
	resets  int
	readyAt time.Duration

	// memory and registers
	ddram     [hd44780.Rows][ddramLine]byte
	cgram     [hd44780.Slots * 8]byte
	line, pos int
	cgAddr    uint8
	inCGRAM   bool
	increment bool
	autoShift bool
	displayOn bool
	cursorOn  bool
	blinkOn   bool
	twoLines  bool
	shift     int
}

// New returns a controller in its power-on reset state: 8-bit interface, display off,
// DDRAM filled with spaces.
func New(cfg Config) *Controller {
	c := &Controller{
		sleep:     cfg.Sleep,
		limit:     cfg.Limit,
		increment: true,
	}
	c.clearDDRAM()
	return c
}

func (c *Controller) SetRS(data bool) {
	c.rs = data
	c.record(OpRS, level(data), 0)
}

func (c *Controller) SetData(nibble uint8) {
	c.data = nibble & 0x0F
	c.record(OpData, c.data, 0)
}

func (c *Controller) SetEnable(high bool) {
	c.record(OpEnable, level(high), 0)
	switch {
	case high && !c.enable:
		c.enableAt = c.now
	case !high && c.enable:
		if w := c.now - c.enableAt; w < MinPulseWidth {
			c.violate("enable pulse too short", MinPulseWidth-w)
		}
		c.latch()
	}
	c.enable = high
}

func (c *Controller) Wait(d time.Duration) {
	c.record(OpWait, 0, d)
	c.now += d
	if c.sleep != nil {
		c.sleep(d)
	}
}

func (c *Controller) record(kind OpKind, v uint8, d time.Duration) {
	c.ops = appendLimited(c.ops, Op{Kind: kind, Value: v, Delay: d, At: c.now}, c.limit)
}

func (c *Controller) violate(reason string, short time.Duration) {
	c.violations = appendLimited(c.violations, Violation{At: c.now, Reason: reason, Short: short}, c.limit)
}

func (c *Controller) latch() {
	c.latches = appendLimited(c.latches, Latch{RS: c.rs, Nibble: c.data, At: c.now}, c.limit)

	if c.now < PowerOnTime {
		c.violate("write before power-on delay", PowerOnTime-c.now)
		return
	}
	if c.now < c.readyAt {
		c.violate("write while busy", c.readyAt-c.now)
		return
	}

	if !c.fourBit {
		// D0..D3 are not wired, so they read as zero in 8-bit mode
		c.execute(c.rs, c.data<<4)
		return
	}
	if !c.pending {
		c.high = c.data
		c.pending = true
		return
	}
	c.pending = false
	c.execute(c.rs, c.high<<4|c.data)
}

func (c *Controller) execute(rs bool, b uint8) {
	busy := ExecTime
	defer func() { c.readyAt = c.now + busy }()

	if rs {
		c.writeData(b)
		return
	}

	switch {
	case b&hd44780.CmdSetDDRAM != 0:
		c.inCGRAM = false
		c.line = int(b>>6) & 1
		c.pos = int(b&0x3F) % ddramLine
	case b&hd44780.CmdSetCGRAM != 0:
		c.inCGRAM = true
		c.cgAddr = b & 0x3F
	case b&hd44780.CmdFunctionSet != 0:
		if !c.fourBit && b&hd44780.DataLength8 != 0 {
			c.resets++
			busy = Reset
			if c.resets == 1 {
				busy = FirstReset
			}
		}
		c.fourBit = b&hd44780.DataLength8 == 0
		c.twoLines = b&hd44780.TwoLines != 0
	case b&hd44780.CmdShift != 0:
		right := b&hd44780.ShiftRight != 0
		if b&hd44780.ShiftDisplay != 0 {
			if right {
				c.shift = (c.shift + ddramLine - 1) % ddramLine
			} else {
				c.shift = (c.shift + 1) % ddramLine
			}
		} else {
			c.step(right)
		}
	case b&hd44780.CmdDisplayCtrl != 0:
		c.displayOn = b&hd44780.DisplayOn != 0
		c.cursorOn = b&hd44780.CursorOn != 0
		c.blinkOn = b&hd44780.BlinkOn != 0
	case b&hd44780.CmdEntryMode != 0:
		c.increment = b&hd44780.EntryIncrement != 0
		c.autoShift = b&hd44780.EntryShift != 0
	case b&hd44780.CmdHome != 0:
		c.line, c.pos, c.shift = 0, 0, 0
		c.inCGRAM = false
		busy = LongExecTime
	case b == hd44780.CmdClear:
		c.clearDDRAM()
		c.line, c.pos, c.shift = 0, 0, 0
		c.inCGRAM = false
		c.increment = true
		busy = LongExecTime
	}
}

func (c *Controller) writeData(b uint8) {
	if c.inCGRAM {
		c.cgram[c.cgAddr] = b & 0x1F
		if c.increment {
			c.cgAddr = (c.cgAddr + 1) & 0x3F
		} else {
			c.cgAddr = (c.cgAddr - 1) & 0x3F
		}
		return
	}
	c.ddram[c.line][c.pos] = b
	c.step(c.increment)
	if c.autoShift {
		if c.increment {
			c.shift = (c.shift + 1) % ddramLine
		} else {
			c.shift = (c.shift + ddramLine - 1) % ddramLine
		}
	}
}

// step moves the address counter one position. The end of the first line continues on the
// second one and the end of the second wraps to the start of the first.
func (c *Controller) step(forward bool) {
	if forward {
		c.pos++
		if c.pos == ddramLine {
			c.pos = 0
			c.line ^= 1
		}
		return
	}
	c.pos--
	if c.pos < 0 {
		c.pos = ddramLine - 1
		c.line ^= 1
	}
}

func (c *Controller) clearDDRAM() {
	for l := range c.ddram {
		for i := range c.ddram[l] {
			c.ddram[l][i] = ' '
		}
	}
}

func level(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Line returns the 16 visible character codes of a row, taking display shift into account.
func (c *Controller) Line(row int) string {
	var b [hd44780.Columns]byte
	for i := range b {
		b[i] = c.ddram[row&1][(i+c.shift)%ddramLine]
	}
	return string(b[:])
}

// Lines returns both visible rows.
func (c *Controller) Lines() [hd44780.Rows]string {
	return [hd44780.Rows]string{c.Line(0), c.Line(1)}
}

// Glyph returns the pattern stored in a CGRAM slot.
func (c *Controller) Glyph(slot uint8) hd44780.Glyph {
	var g hd44780.Glyph
	copy(g[:], c.cgram[int(slot&7)*8:])
	return g
}

// Cursor returns the DDRAM address counter as a row and an unshifted column.
func (c *Controller) Cursor() (row, col int) {
	return c.line, c.pos
}

func (c *Controller) DisplayOn() bool { return c.displayOn }
func (c *Controller) CursorOn() bool  { return c.cursorOn }
func (c *Controller) BlinkOn() bool   { return c.blinkOn }
func (c *Controller) FourBit() bool   { return c.fourBit }
func (c *Controller) TwoLines() bool  { return c.twoLines }

// Now is the total bus time waited so far.
func (c *Controller) Now() time.Duration { return c.now }

func (c *Controller) Ops() []Op               { return tail(c.ops, c.limit) }
func (c *Controller) Latches() []Latch        { return tail(c.latches, c.limit) }
func (c *Controller) Violations() []Violation { return tail(c.violations, c.limit) }

// appendLimited appends v and, once the log holds twice the limit, slides the newest limit
// entries back to the front, so the log never holds more than 2*limit entries.
func appendLimited[T any](log []T, v T, limit int) []T {
	if limit > 0 && len(log) >= 2*limit {
		n := copy(log, log[len(log)-limit+1:])
		log = log[:n]
	}
	return append(log, v)
}

func tail[T any](log []T, limit int) []T {
	if limit > 0 && len(log) > limit {
		return log[len(log)-limit:]
	}
	return log
}

// ClearLog forgets recorded ops, latches and violations but keeps the modelled state.
func (c *Controller) ClearLog() {
	c.ops = c.ops[:0]
	c.latches = c.latches[:0]
	c.violations = c.violations[:0]
}
