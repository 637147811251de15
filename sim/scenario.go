// Package sim runs the clock application headless: the controller drives a simulated LCD,
// time comes from a virtual clock and button presses come from a YAML script.
//
// A scenario looks like this:
//
//	time: "23:59:50"
//	date: "2024-06-01"
//	ticks: 12
//	skip_animation: true
//	presses:
//	  - tick: 1
//	    buttons: [mode]
//	  - tick: 2
//	    buttons: [startstop]
package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	timeLayout = "15:04:05"
	dateLayout = "2006-01-02"
)

type Scenario struct {
	Time          string  `yaml:"time"`
	Date          string  `yaml:"date"`
	Ticks         int     `yaml:"ticks"`
	TickPeriodMs  int     `yaml:"tick_period_ms"`
	SkipAnimation bool    `yaml:"skip_animation"`
	Presses       []Press `yaml:"presses"`
}

// Press holds the named buttons down for one tick.
type Press struct {
	Tick    int      `yaml:"tick"`
	Buttons []string `yaml:"buttons"`
}

// Button names accepted in a scenario. The Settings names are aliases for the switch that
// performs the action.
const (
	ButtonMode      = "mode"
	ButtonStartStop = "startstop"
	ButtonReset     = "reset"
)

var buttonNames = map[string]string{
	ButtonMode:      ButtonMode,
	ButtonStartStop: ButtonStartStop,
	ButtonReset:     ButtonReset,
	"select":        ButtonStartStop,
	"increment":     ButtonReset,
}

// Load reads a scenario file. Unknown keys are an error.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("scenario: empty document")
		}
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return &s, nil
}

// Start returns the wall-clock time the simulated RTC starts at. Empty fields fall back to
// midnight and 1 January 2000.
func (s *Scenario) Start() (time.Time, error) {
	tod, date := "00:00:00", "2000-01-01"
	if s.Time != "" {
		tod = s.Time
	}
	if s.Date != "" {
		date = s.Date
	}
	t, err := time.Parse(dateLayout+" "+timeLayout, date+" "+tod)
	if err != nil {
		return time.Time{}, fmt.Errorf("scenario: start: %w", err)
	}
	return t, nil
}
