package multiclock

// StopwatchState accumulates elapsed milliseconds from a free-running uint32 counter.
//
// While stopped, Elapsed is authoritative. While running, the true elapsed time is
// now - start and Elapsed only catches up on Update. All arithmetic is modular, so one
// counter wrap during a run is harmless but a run longer than the counter period
// (about 49.7 days) aliases.
type StopwatchState struct {
	running bool
	start   uint32
	elapsed uint32
}

// Toggle starts or stops the stopwatch. Starting keeps the time already accumulated;
// stopping keeps Elapsed as of the last Update.
func (s *StopwatchState) Toggle(now uint32) {
	if s.running {
		s.running = false
		return
	}
	s.start = now - s.elapsed
	s.running = true
}

// Reset zeroes the elapsed time. It does nothing and returns false while running.
func (s *StopwatchState) Reset() bool {
	if s.running {
		return false
	}
	s.elapsed = 0
	return true
}

// Update recomputes Elapsed if running.
func (s *StopwatchState) Update(now uint32) {
	if s.running {
		s.elapsed = now - s.start
	}
}

func (s *StopwatchState) Running() bool {
	return s.running
}

// Elapsed returns the accumulated time in milliseconds.
func (s *StopwatchState) Elapsed() uint32 {
	return s.elapsed
}

// Split breaks Elapsed into hours, minutes and seconds. Hours are not wrapped.
func (s *StopwatchState) Split() (hours, minutes, seconds uint32) {
	seconds = s.elapsed / 1000
	minutes = seconds / 60
	hours = minutes / 60
	return hours, minutes % 60, seconds % 60
}
