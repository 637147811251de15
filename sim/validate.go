package sim

import (
	"fmt"
	"time"
)

// Validate checks a scenario without changing it.
func Validate(s *Scenario) error {
	if s.Time != "" {
		if _, err := time.Parse(timeLayout, s.Time); err != nil {
			return fmt.Errorf("scenario: time %q: want HH:MM:SS", s.Time)
		}
	}
	if s.Date != "" {
		if _, err := time.Parse(dateLayout, s.Date); err != nil {
			return fmt.Errorf("scenario: date %q: want YYYY-MM-DD", s.Date)
		}
	}
	if s.Ticks < 0 {
		return fmt.Errorf("scenario: ticks must not be negative, got %d", s.Ticks)
	}
	if s.TickPeriodMs < 0 {
		return fmt.Errorf("scenario: tick_period_ms must not be negative, got %d", s.TickPeriodMs)
	}

	ticks := s.Ticks
	if ticks == 0 {
		ticks = DefaultTicks
	}
	seen := make(map[int]int)
	for i, p := range s.Presses {
		if p.Tick < 0 || p.Tick >= ticks {
			return fmt.Errorf("scenario: press %d: tick %d outside 0..%d", i, p.Tick, ticks-1)
		}
		if prev, ok := seen[p.Tick]; ok {
			return fmt.Errorf("scenario: press %d: tick %d already used by press %d", i, p.Tick, prev)
		}
		seen[p.Tick] = i
		if len(p.Buttons) == 0 {
			return fmt.Errorf("scenario: press %d: no buttons", i)
		}
		for _, b := range p.Buttons {
			if _, ok := buttonNames[b]; !ok {
				return fmt.Errorf("scenario: press %d: unknown button %q", i, b)
			}
		}
	}
	return nil
}
