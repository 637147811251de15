package sim

const (
	DefaultTicks        = 10
	DefaultTickPeriodMs = 1000
)

// Normalize fills in defaults and maps button aliases to switch names. Call it after
// Validate.
func Normalize(s *Scenario) {
	if s == nil {
		return
	}
	if s.Time == "" {
		s.Time = "00:00:00"
	}
	if s.Date == "" {
		s.Date = "2000-01-01"
	}
	if s.Ticks == 0 {
		s.Ticks = DefaultTicks
	}
	if s.TickPeriodMs == 0 {
		s.TickPeriodMs = DefaultTickPeriodMs
	}
	for i := range s.Presses {
		for j, b := range s.Presses[i].Buttons {
			if name, ok := buttonNames[b]; ok {
				s.Presses[i].Buttons[j] = name
			}
		}
	}
}
