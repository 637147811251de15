package rtc

import "time"

// Soft is a Clock kept in software on top of a free-running millisecond counter. It loses
// its time whenever the process stops, so it only suits hosts and simulations.
type Soft struct {
	millis func() uint32
	start  time.Time

	base time.Time
	ref  uint32
}

// NewSoft creates a software clock that reads start after Init.
func NewSoft(millis func() uint32, start time.Time) *Soft {
	return &Soft{
		millis: millis,
		start:  start.UTC(),
	}
}

func (s *Soft) Init() error {
	s.base = s.start
	s.ref = s.millis()
	return nil
}

func (s *Soft) now() time.Time {
	return s.base.Add(time.Duration(s.millis()-s.ref) * time.Millisecond)
}

// Now returns the current time as a time.Time.
func (s *Soft) Now() time.Time {
	return s.now()
}

func (s *Soft) Time() (Time, error) {
	t, _ := Split(s.now())
	return t, nil
}

func (s *Soft) SetTime(t Time) error {
	if !t.Valid() {
		return ErrInvalidTime
	}
	_, d := Split(s.now())
	s.base = Join(t, d)
	s.ref = s.millis()
	return nil
}

func (s *Soft) Date() (Date, error) {
	_, d := Split(s.now())
	return d, nil
}

func (s *Soft) SetDate(d Date) error {
	if !d.Valid() {
		return ErrInvalidDate
	}
	t, _ := Split(s.now())
	s.base = Join(t, d)
	s.ref = s.millis()
	return nil
}
