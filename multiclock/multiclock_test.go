package multiclock

import (
	"errors"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/ajanata/multiclock/button"
	"github.com/ajanata/multiclock/hd44780"
	"github.com/ajanata/multiclock/lcdsim"
	"github.com/ajanata/multiclock/rtc"
	"github.com/ajanata/multiclock/vclock"
)

var blank = strings.Repeat(" ", 16)

// fill pads s with spaces to the display width.
func fill(s string) string {
	return s + blank[len(s):]
}

// screens records what was on the LCD each time the application cleared it.
type screens struct {
	*hd44780.Device
	lcd    *lcdsim.Controller
	frames [][2]string
}

func (s *screens) Clear() {
	s.frames = append(s.frames, s.lcd.Lines())
	s.Device.Clear()
}

type rig struct {
	clk    vclock.Clock
	lcd    *lcdsim.Controller
	screen *screens
	rtc    rtc.Clock

	mode, startStop, reset bool

	ctl   *Controller
	halts []error
}

func newRig(c *qt.C, start time.Time, tweak func(*Config)) *rig {
	r := &rig{}
	r.lcd = lcdsim.New(lcdsim.Config{Sleep: r.clk.Sleep})
	r.screen = &screens{Device: hd44780.New(r.lcd), lcd: r.lcd}
	r.rtc = rtc.NewSoft(r.clk.Millis, start)
	cfg := Config{
		Display: r.screen,
		RTC:     r.rtc,
		Buttons: Buttons{
			Mode:      button.Func(func() bool { return r.mode }),
			StartStop: button.Func(func() bool { return r.startStop }),
			Reset:     button.Func(func() bool { return r.reset }),
		},
		Millis:        r.clk.Millis,
		Sleep:         r.clk.Sleep,
		Halt:          func(err error) { r.halts = append(r.halts, err) },
		SkipAnimation: true,
	}
	if tweak != nil {
		tweak(&cfg)
	}
	ctl, err := New(cfg)
	c.Assert(err, qt.IsNil)
	r.ctl = ctl
	return r
}

func booted(c *qt.C, start time.Time) *rig {
	r := newRig(c, start, nil)
	r.ctl.Boot()
	c.Assert(r.ctl.Halted(), qt.IsFalse)
	return r
}

// press holds a button for one tick. Every tick is followed by a full tick period, like
// Run does.
func (r *rig) press(b *bool) {
	*b = true
	r.ctl.Tick()
	*b = false
	r.clk.Sleep(time.Second)
}

func (r *rig) idle() {
	r.ctl.Tick()
	r.clk.Sleep(time.Second)
}

var noon = time.Date(2024, time.June, 1, 12, 34, 56, 0, time.UTC)

func TestNewRequiresCollaborators(t *testing.T) {
	c := qt.New(t)
	_, err := New(Config{RTC: rtc.NewSoft(nil, noon)})
	c.Assert(err, qt.ErrorIs, ErrConfig)
	c.Assert(err, qt.ErrorMatches, "multiclock: invalid config: no display")

	_, err = New(Config{Display: &screens{}})
	c.Assert(err, qt.ErrorMatches, ".*no real-time clock")

	_, err = New(Config{Display: &screens{}, RTC: rtc.NewSoft(nil, noon), TickPeriod: -time.Second})
	c.Assert(err, qt.ErrorIs, ErrConfig)
}

func TestBootSequence(t *testing.T) {
	c := qt.New(t)
	r := newRig(c, noon, func(cfg *Config) { cfg.SkipAnimation = false })
	r.ctl.Boot()

	pad := func(code byte) string {
		b := []byte(blank)
		b[7] = code
		return string(b)
	}
	c.Assert(r.screen.frames, qt.DeepEquals, [][2]string{
		{blank, blank},
		{blank, pad(glyphFlameB)},
		{pad(glyphRocketTop), pad(glyphRocketBottom)},
		{pad(glyphRocketTop), pad(glyphFlameA)},
		{pad(glyphFlameB), blank},
		{"  SYSTEM ONLINE ", "----------------"},
		{"Multi-Purpose   ", "Clock Ready!    "},
	})
	c.Assert(r.lcd.Lines(), qt.DeepEquals, [2]string{blank, blank})
	for slot, g := range rocketGlyphs {
		c.Assert(r.lcd.Glyph(uint8(slot)), qt.Equals, g)
	}

	animation := flickerCycles*2*flickerFrame + 3*launchFrame
	c.Assert(r.clk.Now() >= animation+2*bootHold, qt.IsTrue, qt.Commentf("boot took %v", r.clk.Now()))
	c.Assert(r.lcd.Violations(), qt.HasLen, 0)
	c.Assert(r.halts, qt.HasLen, 0)
}

func TestBootWithoutAnimation(t *testing.T) {
	c := qt.New(t)
	r := booted(c, noon)
	c.Assert(r.screen.frames, qt.DeepEquals, [][2]string{
		{blank, blank},
		{"Multi-Purpose   ", "Clock Ready!    "},
	})
	c.Assert(r.clk.Now() < 2*bootHold+time.Second, qt.IsTrue)
}

func TestClockScreen(t *testing.T) {
	c := qt.New(t)
	r := booted(c, noon)
	r.idle()
	c.Assert(r.lcd.Lines(), qt.DeepEquals, [2]string{"T:12:34:56      ", "MODE>SW>SET     "})
	r.idle()
	c.Assert(r.lcd.Line(0), qt.Equals, "T:12:34:57      ")
	c.Assert(r.ctl.Mode(), qt.Equals, Clock)

	// the action buttons mean nothing on the clock screen
	r.press(&r.startStop)
	r.press(&r.reset)
	c.Assert(r.ctl.Mode(), qt.Equals, Clock)
	c.Assert(r.ctl.Stopwatch(), qt.Equals, StopwatchState{})
	c.Assert(r.lcd.Violations(), qt.HasLen, 0)
}

func TestModeButtonCyclesModes(t *testing.T) {
	c := qt.New(t)
	r := booted(c, noon)
	r.idle()

	r.press(&r.mode)
	c.Assert(r.ctl.Mode(), qt.Equals, Stopwatch)
	c.Assert(r.lcd.Lines(), qt.DeepEquals, [2]string{"SW: 00:00:00    ", "Reset Mode Start"})

	r.press(&r.mode)
	c.Assert(r.ctl.Mode(), qt.Equals, Settings)
	want, err := r.rtc.Time()
	c.Assert(err, qt.IsNil)
	d := r.ctl.Draft()
	c.Assert(d.Field, qt.Equals, Hours)
	c.Assert(d.Time.Hour, qt.Equals, want.Hour)
	c.Assert(d.Time.Minute, qt.Equals, want.Minute)
	c.Assert(r.lcd.Line(0), qt.Equals, "Set Hours:      ")

	r.press(&r.mode)
	c.Assert(r.ctl.Mode(), qt.Equals, Clock)
	c.Assert(r.lcd.Line(1), qt.Equals, "MODE>SW>SET     ")
}

func TestModeChangeClearsDisplay(t *testing.T) {
	c := qt.New(t)
	r := booted(c, noon)
	r.idle()
	n := len(r.screen.frames)
	r.press(&r.mode)
	// one clear for the transition and one for the redraw
	c.Assert(r.screen.frames[n:], qt.HasLen, 2)
	c.Assert(r.screen.frames[n+1], qt.DeepEquals, [2]string{blank, blank})
}

func TestDebounce(t *testing.T) {
	c := qt.New(t)
	r := booted(c, noon)

	r.mode = true
	r.ctl.Tick()
	r.clk.Sleep(100 * time.Millisecond)
	r.ctl.Tick()
	c.Assert(r.ctl.Mode(), qt.Equals, Stopwatch)

	r.clk.Sleep(300 * time.Millisecond)
	r.ctl.Tick()
	c.Assert(r.ctl.Mode(), qt.Equals, Settings)
}

func TestHeldButtonRepeatsAfterInterval(t *testing.T) {
	c := qt.New(t)
	r := booted(c, noon)
	r.mode = true
	var changes int
	last := r.ctl.Mode()
	for i := 0; i < 15; i++ {
		r.ctl.Tick()
		if m := r.ctl.Mode(); m != last {
			changes++
			last = m
		}
		r.clk.Sleep(10 * time.Millisecond)
	}
	// each tick spends a few tens of milliseconds on the bus, so 15 of them span roughly
	// two thirds of a second
	c.Assert(changes >= 2, qt.IsTrue, qt.Commentf("%d mode changes", changes))
	c.Assert(changes <= 4, qt.IsTrue, qt.Commentf("%d mode changes", changes))
}

func TestStopwatchRun(t *testing.T) {
	c := qt.New(t)
	r := booted(c, noon)
	r.press(&r.mode)

	r.press(&r.startStop)
	sw := r.ctl.Stopwatch()
	c.Assert(sw.Running(), qt.IsTrue)
	c.Assert(r.lcd.Lines(), qt.DeepEquals, [2]string{"SW: 00:00:00    ", "Reset Mode Stop "})

	for i := 0; i < 4; i++ {
		r.idle()
	}
	c.Assert(r.lcd.Line(0), qt.Equals, "SW: 00:00:04    ")

	// reset is refused while running
	sw = r.ctl.Stopwatch()
	before := sw.Elapsed()
	r.reset = true
	r.ctl.Tick()
	r.reset = false
	sw = r.ctl.Stopwatch()
	c.Assert(sw.Running(), qt.IsTrue)
	c.Assert(sw.Elapsed() >= before, qt.IsTrue)
	c.Assert(r.lcd.Line(0), qt.Equals, "SW: 00:00:05    ")

	r.clk.Sleep(50 * time.Millisecond)
	r.startStop = true
	r.ctl.Tick()
	r.startStop = false
	sw = r.ctl.Stopwatch()
	c.Assert(sw.Running(), qt.IsFalse)
	c.Assert(r.lcd.Line(1), qt.Equals, "Reset Mode Start")

	// the refused reset did not arm the guard, so this one goes through at once
	r.clk.Sleep(50 * time.Millisecond)
	r.reset = true
	r.ctl.Tick()
	r.reset = false
	sw = r.ctl.Stopwatch()
	c.Assert(sw.Elapsed(), qt.Equals, uint32(0))
	c.Assert(r.lcd.Line(0), qt.Equals, "SW: 00:00:00    ")
	c.Assert(r.lcd.Violations(), qt.HasLen, 0)
}

func TestStopwatchKeepsRunningInOtherModes(t *testing.T) {
	c := qt.New(t)
	r := booted(c, noon)
	r.press(&r.mode)
	r.press(&r.startStop)
	start := r.clk.Millis()

	r.press(&r.mode) // settings
	r.press(&r.mode) // clock
	r.idle()
	r.idle()
	r.press(&r.mode) // stopwatch again

	sw := r.ctl.Stopwatch()
	c.Assert(sw.Running(), qt.IsTrue)
	c.Assert(sw.Elapsed() >= 5000, qt.IsTrue)
	c.Assert(sw.Elapsed() <= r.clk.Millis()-start+1000, qt.IsTrue)
	c.Assert(r.lcd.Line(0), qt.Equals, "SW: 00:00:05    ")
}

func TestSettingsCommit(t *testing.T) {
	c := qt.New(t)
	r := booted(c, time.Date(2024, time.June, 1, 23, 10, 0, 0, time.UTC))
	r.press(&r.mode)
	r.press(&r.mode)
	c.Assert(r.ctl.Mode(), qt.Equals, Settings)
	c.Assert(r.ctl.Draft().Time.Hour, qt.Equals, uint8(23))

	r.press(&r.reset) // increment
	c.Assert(r.ctl.Draft().Time.Hour, qt.Equals, uint8(0))
	c.Assert(r.lcd.Line(1), qt.Matches, `( 00 |\[00\]):10  +`)

	r.press(&r.startStop) // select
	c.Assert(r.ctl.Draft().Field, qt.Equals, Minutes)
	c.Assert(r.lcd.Line(0), qt.Equals, "Set Minutes:    ")
	r.press(&r.reset)
	c.Assert(r.ctl.Draft().Time.Minute, qt.Equals, uint8(11))

	r.press(&r.startStop)
	c.Assert(r.ctl.Draft().Field, qt.Equals, Save)
	c.Assert(r.lcd.Lines(), qt.DeepEquals, [2]string{"Save Time?      ", "Press INC to sav"})

	// nothing is written until the save is confirmed
	now, _ := r.rtc.Time()
	c.Assert(now.Hour, qt.Equals, uint8(23))

	r.press(&r.reset)
	c.Assert(r.ctl.Mode(), qt.Equals, Clock)
	now, _ = r.rtc.Time()
	c.Assert(now.Hour, qt.Equals, uint8(0))
	c.Assert(now.Minute, qt.Equals, uint8(11))
	c.Assert(r.lcd.Line(0), qt.Matches, `T:00:11:0\d {6}`)
}

func TestSettingsSelectWrapsToHours(t *testing.T) {
	c := qt.New(t)
	r := booted(c, noon)
	r.press(&r.mode)
	r.press(&r.mode)
	for _, want := range []Field{Minutes, Save, Hours, Minutes} {
		r.press(&r.startStop)
		c.Assert(r.ctl.Draft().Field, qt.Equals, want)
	}
	c.Assert(r.ctl.Mode(), qt.Equals, Settings)
}

func TestSettingsLeftWithoutSaving(t *testing.T) {
	c := qt.New(t)
	r := booted(c, noon)
	r.press(&r.mode)
	r.press(&r.mode)
	r.press(&r.reset)
	r.press(&r.reset)
	r.press(&r.mode)
	c.Assert(r.ctl.Mode(), qt.Equals, Clock)
	now, _ := r.rtc.Time()
	c.Assert(now.Hour, qt.Equals, uint8(12))
}

func TestSettingsBlink(t *testing.T) {
	c := qt.New(t)
	r := booted(c, noon)
	r.press(&r.mode)
	r.press(&r.mode)

	// the blink timer has been idle since power-on, so the first redraw flips it off
	c.Assert(r.lcd.Line(1), qt.Equals, fill(" 12 :34  "))
	r.ctl.Tick()
	c.Assert(r.lcd.Line(1), qt.Equals, fill("[12]:34  "))

	// a redraw inside the blink period keeps the state
	r.clk.Sleep(100 * time.Millisecond)
	r.ctl.Tick()
	c.Assert(r.lcd.Line(1), qt.Equals, fill("[12]:34  "))
	r.clk.Sleep(time.Second)
	r.ctl.Tick()
	c.Assert(r.lcd.Line(1), qt.Equals, fill(" 12 :34  "))
	r.clk.Sleep(time.Second)

	r.press(&r.startStop)
	on, off := fill(" 12:[34] "), fill(" 12 : 34  ")
	got := r.lcd.Line(1)
	c.Assert(got == on || got == off, qt.IsTrue, qt.Commentf("%q", got))
	r.idle()
	c.Assert(r.lcd.Line(1), qt.Not(qt.Equals), got)
}

type faultyRTC struct {
	initErr error
	reads   int // successful reads left; negative means unlimited
	t       rtc.Time
}

var errBus = errors.New("i2c: no ack")

func (f *faultyRTC) Init() error { return f.initErr }

func (f *faultyRTC) Time() (rtc.Time, error) {
	if f.reads == 0 {
		return rtc.Time{}, errBus
	}
	f.reads--
	return f.t, nil
}

func (f *faultyRTC) SetTime(t rtc.Time) error { return errBus }
func (f *faultyRTC) Date() (rtc.Date, error)  { return rtc.DefaultDate, nil }
func (f *faultyRTC) SetDate(rtc.Date) error   { return errBus }

func TestRTCInitFailureHalts(t *testing.T) {
	c := qt.New(t)
	r := newRig(c, noon, func(cfg *Config) { cfg.RTC = &faultyRTC{initErr: errBus, reads: -1} })
	r.ctl.Boot()
	c.Assert(r.ctl.Halted(), qt.IsTrue)
	c.Assert(r.ctl.Err(), qt.ErrorIs, errBus)
	c.Assert(r.halts, qt.HasLen, 1)
	c.Assert(r.halts[0], qt.ErrorMatches, "rtc init: i2c: no ack")

	r.mode = true
	r.ctl.Tick()
	c.Assert(r.ctl.Mode(), qt.Equals, Clock)
	c.Assert(r.lcd.Lines(), qt.DeepEquals, [2]string{blank, blank})
	c.Assert(r.halts, qt.HasLen, 1)
}

func TestRunHaltsOnReadFailure(t *testing.T) {
	c := qt.New(t)
	r := newRig(c, noon, func(cfg *Config) { cfg.RTC = &faultyRTC{reads: 3, t: rtc.Time{Hour: 8}} })
	err := r.ctl.Run()
	c.Assert(err, qt.ErrorMatches, "rtc read: i2c: no ack")
	c.Assert(r.halts, qt.HasLen, 1)
	// three good redraws one tick period apart, then the failing one
	c.Assert(r.clk.Now() >= 2*bootHold+3*time.Second, qt.IsTrue)
	c.Assert(r.clk.Now() < 2*bootHold+4*time.Second, qt.IsTrue)
	c.Assert(r.lcd.Line(1), qt.Equals, blank)
}

func TestSaveFailureHalts(t *testing.T) {
	c := qt.New(t)
	r := newRig(c, noon, func(cfg *Config) { cfg.RTC = &faultyRTC{reads: -1} })
	r.ctl.Boot()
	r.press(&r.mode)
	r.press(&r.mode)
	r.press(&r.startStop)
	r.press(&r.startStop)
	r.press(&r.reset)
	c.Assert(r.ctl.Halted(), qt.IsTrue)
	c.Assert(r.ctl.Err(), qt.ErrorMatches, "rtc write: .*")
	c.Assert(r.ctl.Mode(), qt.Equals, Settings)
}

func TestCustomPeriods(t *testing.T) {
	c := qt.New(t)
	r := newRig(c, noon, func(cfg *Config) {
		cfg.Debounce = 50 * time.Millisecond
		cfg.BlinkPeriod = time.Hour
	})
	r.ctl.Boot()
	r.mode = true
	r.ctl.Tick()
	r.clk.Sleep(60 * time.Millisecond)
	r.ctl.Tick()
	c.Assert(r.ctl.Mode(), qt.Equals, Settings)
	// the blink period never elapses, so the brackets stay on
	c.Assert(r.lcd.Line(1), qt.Equals, fill("[12]:34  "))
}
