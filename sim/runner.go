package sim

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ajanata/multiclock/button"
	"github.com/ajanata/multiclock/hd44780"
	"github.com/ajanata/multiclock/lcdsim"
	"github.com/ajanata/multiclock/multiclock"
	"github.com/ajanata/multiclock/rtc"
	"github.com/ajanata/multiclock/vclock"
)

// Frame is the screen after one tick.
type Frame struct {
	Tick    int
	At      time.Duration // virtual time since power-on
	Mode    multiclock.Mode
	Pressed []string
	Lines   [2]string
}

type Result struct {
	Frames     []Frame
	Violations []lcdsim.Violation
	// Final is what the RTC reads after the last tick.
	Final rtc.Time
	// Err is set if the controller halted.
	Err error
}

type Runner struct {
	Logger *slog.Logger
}

// Run validates and normalises a copy of s, boots the controller and plays the scenario.
func (r *Runner) Run(s Scenario) (*Result, error) {
	if err := Validate(&s); err != nil {
		return nil, err
	}
	s.Presses = append([]Press(nil), s.Presses...)
	for i := range s.Presses {
		s.Presses[i].Buttons = append([]string(nil), s.Presses[i].Buttons...)
	}
	Normalize(&s)
	start, err := s.Start()
	if err != nil {
		return nil, err
	}

	log := r.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var clk vclock.Clock
	lcd := lcdsim.New(lcdsim.Config{Sleep: clk.Sleep})
	res, err := play(s, start, &clk, lcd, log)
	if err != nil {
		return nil, err
	}
	log.Info("scenario done", "frames", len(res.Frames), "violations", len(res.Violations))
	return res, nil
}

// play boots a controller on lcd and runs the normalised scenario. The bus log is moved into
// the result after boot and after every tick, so it does not grow with the tick count.
func play(s Scenario, start time.Time, clk *vclock.Clock, lcd *lcdsim.Controller, log *slog.Logger) (*Result, error) {
	soft := rtc.NewSoft(clk.Millis, start)

	pressed := map[string]bool{}
	held := func(name string) button.Input {
		return button.Func(func() bool { return pressed[name] })
	}

	res := &Result{}
	drain := func() {
		res.Violations = append(res.Violations, lcd.Violations()...)
		lcd.ClearLog()
	}
	ctl, err := multiclock.New(multiclock.Config{
		Display: hd44780.New(lcd),
		RTC:     soft,
		Buttons: multiclock.Buttons{
			Mode:      held(ButtonMode),
			StartStop: held(ButtonStartStop),
			Reset:     held(ButtonReset),
		},
		Millis:        clk.Millis,
		Sleep:         clk.Sleep,
		Logger:        log,
		Halt:          func(err error) { res.Err = err },
		SkipAnimation: s.SkipAnimation,
	})
	if err != nil {
		return nil, err
	}

	script := make(map[int][]string, len(s.Presses))
	for _, p := range s.Presses {
		script[p.Tick] = p.Buttons
	}

	ctl.Boot()
	drain()
	period := time.Duration(s.TickPeriodMs) * time.Millisecond
	for tick := 0; tick < s.Ticks && !ctl.Halted(); tick++ {
		for _, b := range script[tick] {
			pressed[b] = true
		}
		ctl.Tick()
		clear(pressed)
		drain()

		res.Frames = append(res.Frames, Frame{
			Tick:    tick,
			At:      clk.Now(),
			Mode:    ctl.Mode(),
			Pressed: script[tick],
			Lines:   lcd.Lines(),
		})
		clk.Sleep(period)
	}

	if res.Err == nil {
		if res.Final, err = soft.Time(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// String renders a frame the way it would look on the glass, with CGRAM codes shown as '#'.
func (f Frame) String() string {
	return fmt.Sprintf("%3d %-9s |%s|\n              |%s|", f.Tick, f.Mode, printable(f.Lines[0]), printable(f.Lines[1]))
}

func printable(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c < ' ' || c > '~' {
			b[i] = '#'
		}
	}
	return string(b)
}
