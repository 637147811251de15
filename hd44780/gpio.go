package hd44780

import "time"

// Output is a digital output line. machine.Pin satisfies it.
type Output interface {
	Set(high bool)
}

// GPIOBus drives the display from six directly wired output pins.
type GPIOBus struct {
	RS Output
	E  Output
	D  [4]Output // D4..D7

	// Delay blocks for at least the given duration. Defaults to time.Sleep; targets whose
	// sleep granularity is coarser than a few microseconds should plug in a busy-wait.
	Delay func(time.Duration)
}

// NewGPIOBus creates a bus from the register-select, enable and D4..D7 pins. The pins must
// already be configured as outputs.
func NewGPIOBus(rs, e, d4, d5, d6, d7 Output) *GPIOBus {
	return &GPIOBus{
		RS: rs,
		E:  e,
		D:  [4]Output{d4, d5, d6, d7},
	}
}

func (b *GPIOBus) SetRS(data bool) {
	b.RS.Set(data)
}

func (b *GPIOBus) SetData(nibble uint8) {
	for i, p := range b.D {
		p.Set(nibble&(1<<i) != 0)
	}
}

func (b *GPIOBus) SetEnable(high bool) {
	b.E.Set(high)
}

func (b *GPIOBus) Wait(d time.Duration) {
	if b.Delay == nil {
		time.Sleep(d)
		return
	}
	b.Delay(d)
}
