// Package multiclock is the application running on the clock/stopwatch appliance: a
// 16x2 character display, a battery-backed real-time clock and three push-buttons
// (MODE, START/STOP and RESET).
//
// The controller is a state machine driven by Tick. Each tick polls the buttons, lets the
// current mode react to them, advances the stopwatch and redraws the screen. Run calls
// Tick once per TickPeriod forever, while tests and the simulator call it directly with a
// virtual clock.
//
// In Settings mode the START/STOP button selects the field to edit and RESET increments
// it. Every logical action has its own debounce guard.
package multiclock

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ajanata/multiclock/button"
	"github.com/ajanata/multiclock/hd44780"
	"github.com/ajanata/multiclock/rtc"
)

var ErrConfig = errors.New("multiclock: invalid config")

// Display is the subset of the character LCD driver the application uses.
// *hd44780.Device satisfies it.
type Display interface {
	Configure()
	Clear()
	SetCursor(row, col uint8)
	WriteChar(c uint8)
	WriteString(s string)
	WriteStringAt(row, col uint8, s string)
	CreateChar(slot uint8, g hd44780.Glyph)
}

// Buttons are the three physical switches. Get must return true while the switch is
// pressed; wrap pulled-up pins with button.ActiveLow. A nil button is never pressed.
type Buttons struct {
	Mode      button.Input
	StartStop button.Input
	Reset     button.Input
}

type Config struct {
	Display Display
	RTC     rtc.Clock
	Buttons Buttons

	// Millis is a free-running millisecond counter. Defaults to time since New.
	Millis func() uint32
	// Sleep blocks for d. Defaults to time.Sleep.
	Sleep func(d time.Duration)
	// Logger defaults to discarding everything.
	Logger *slog.Logger
	// Halt is called once with the error that stopped the controller. The default logs
	// nothing further and sleeps forever.
	Halt func(err error)

	TickPeriod    time.Duration // default 1s
	Debounce      time.Duration // default 300ms
	BlinkPeriod   time.Duration // default 500ms
	SkipAnimation bool
}

const (
	DefaultTickPeriod  = time.Second
	DefaultDebounce    = button.DefaultInterval * time.Millisecond
	DefaultBlinkPeriod = 500 * time.Millisecond

	bootHold = 2 * time.Second
)

type guards struct {
	mode, startStop, reset, sel, increment button.Guard
}

type Controller struct {
	display Display
	rtc     rtc.Clock
	buttons Buttons
	millis  func() uint32
	sleep   func(time.Duration)
	log     *slog.Logger
	halt    func(error)

	tickPeriod    time.Duration
	blinkPeriod   uint32
	skipAnimation bool

	mode      Mode
	stopwatch StopwatchState
	draft     Draft
	guards    guards

	blinkOn   bool
	lastBlink uint32

	halted bool
	err    error
}

var released = button.Func(func() bool { return false })

// New creates a controller in Clock mode. Display and RTC are required.
func New(cfg Config) (*Controller, error) {
	if cfg.Display == nil {
		return nil, fmt.Errorf("%w: no display", ErrConfig)
	}
	if cfg.RTC == nil {
		return nil, fmt.Errorf("%w: no real-time clock", ErrConfig)
	}
	if cfg.TickPeriod < 0 || cfg.Debounce < 0 || cfg.BlinkPeriod < 0 {
		return nil, fmt.Errorf("%w: negative period", ErrConfig)
	}

	c := &Controller{
		display:       cfg.Display,
		rtc:           cfg.RTC,
		buttons:       cfg.Buttons,
		millis:        cfg.Millis,
		sleep:         cfg.Sleep,
		log:           cfg.Logger,
		halt:          cfg.Halt,
		tickPeriod:    cfg.TickPeriod,
		skipAnimation: cfg.SkipAnimation,
		blinkOn:       true,
	}
	for _, b := range []*button.Input{&c.buttons.Mode, &c.buttons.StartStop, &c.buttons.Reset} {
		if *b == nil {
			*b = released
		}
	}
	if c.millis == nil {
		start := time.Now()
		c.millis = func() uint32 { return uint32(time.Since(start).Milliseconds()) }
	}
	if c.sleep == nil {
		c.sleep = time.Sleep
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.halt == nil {
		c.halt = func(error) {
			for {
				c.sleep(time.Hour)
			}
		}
	}
	if c.tickPeriod == 0 {
		c.tickPeriod = DefaultTickPeriod
	}

	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	interval := uint32(debounce / time.Millisecond)
	for _, g := range []*button.Guard{&c.guards.mode, &c.guards.startStop, &c.guards.reset, &c.guards.sel, &c.guards.increment} {
		g.Interval = interval
	}

	blink := cfg.BlinkPeriod
	if blink == 0 {
		blink = DefaultBlinkPeriod
	}
	c.blinkPeriod = uint32(blink / time.Millisecond)

	return c, nil
}

// Boot brings the display up, plays the startup animation, shows the ready banner and
// initialises the RTC. An RTC failure halts the controller.
func (c *Controller) Boot() {
	c.display.Configure()
	if !c.skipAnimation {
		c.animate()
	}
	c.sleep(bootHold)

	c.display.Clear()
	c.display.WriteStringAt(0, 0, "Multi-Purpose")
	c.display.WriteStringAt(1, 0, "Clock Ready!")
	c.sleep(bootHold)
	c.display.Clear()

	if err := c.rtc.Init(); err != nil {
		c.fail(fmt.Errorf("rtc init: %w", err))
		return
	}
	c.log.Info("ready", "mode", c.mode)
}

// Run boots and then ticks forever. It only returns if the controller halts and the
// configured Halt function returns.
func (c *Controller) Run() error {
	c.Boot()
	for !c.halted {
		c.Tick()
		if c.halted {
			break
		}
		c.sleep(c.tickPeriod)
	}
	return c.err
}

// Tick runs one pass of the main loop. It does nothing once the controller has halted.
func (c *Controller) Tick() {
	if c.halted {
		return
	}

	c.handleMode()
	switch c.mode {
	case Stopwatch:
		c.handleStopwatch()
	case Settings:
		c.handleSettings()
	}
	if c.halted {
		return
	}

	if c.mode == Stopwatch {
		c.stopwatch.Update(c.millis())
	}
	c.render()
}

func (c *Controller) handleMode() {
	if !c.guards.mode.Accept(c.buttons.Mode.Get(), c.millis()) {
		return
	}
	from := c.mode
	c.mode = c.mode.Next()
	if c.mode == Settings {
		t, err := c.rtc.Time()
		if err != nil {
			c.fail(fmt.Errorf("rtc read: %w", err))
			return
		}
		c.draft = Draft{Time: t, Field: Hours}
	}
	c.display.Clear()
	c.log.Info("mode changed", "from", from, "to", c.mode)
}

func (c *Controller) handleStopwatch() {
	if now := c.millis(); c.guards.startStop.Accept(c.buttons.StartStop.Get(), now) {
		c.stopwatch.Toggle(now)
		c.log.Info("stopwatch toggled", "running", c.stopwatch.Running(), "elapsed_ms", c.stopwatch.Elapsed())
	}

	// a reset while running is ignored and leaves its guard untouched
	if !c.buttons.Reset.Get() {
		return
	}
	now := c.millis()
	if c.guards.reset.Ready(now) && c.stopwatch.Reset() {
		c.guards.reset.Mark(now)
		c.log.Info("stopwatch reset")
	}
}

func (c *Controller) handleSettings() {
	if c.guards.sel.Accept(c.buttons.StartStop.Get(), c.millis()) {
		c.draft.Select()
		c.log.Debug("settings field", "field", c.draft.Field)
	}

	if !c.guards.increment.Accept(c.buttons.Reset.Get(), c.millis()) {
		return
	}
	if !c.draft.Increment() {
		return
	}
	if err := c.rtc.SetTime(c.draft.Time); err != nil {
		c.fail(fmt.Errorf("rtc write: %w", err))
		return
	}
	c.mode = Clock
	c.log.Info("time set", "time", c.draft.Time)
}

func (c *Controller) fail(err error) {
	c.halted = true
	c.err = err
	c.log.Error("halted", "err", err)
	c.halt(err)
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode { return c.mode }

// Stopwatch returns a copy of the stopwatch state.
func (c *Controller) Stopwatch() StopwatchState { return c.stopwatch }

// Draft returns a copy of the settings draft. It is only meaningful in Settings mode.
func (c *Controller) Draft() Draft { return c.draft }

// Halted reports whether the controller stopped on a fatal error.
func (c *Controller) Halted() bool { return c.halted }

// Err returns the error that halted the controller.
func (c *Controller) Err() error { return c.err }
