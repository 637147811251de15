package pcf8574

import "time"

// Pin assignment found on the common HD44780 backpacks.
const (
	BackpackRS        = 0
	BackpackRW        = 1
	BackpackE         = 2
	BackpackBacklight = 3
	BackpackD4        = 4 // D4..D7 on P4..P7
)

// Backpack drives an HD44780 display through the expander and implements hd44780.Bus.
// Every line change is a separate I2C write of the whole port. The display bus has no
// error path, so the first I2C failure is kept and reported by Err.
type Backpack struct {
	dev *Device
	err error

	// Delay blocks for at least the given duration. Defaults to time.Sleep.
	Delay func(time.Duration)
}

// Backpack returns a display bus on this expander with the backlight on, R/W held low
// (write) and all other lines low.
func (d *Device) Backpack() *Backpack {
	b := &Backpack{dev: d}
	b.apply(1 << BackpackBacklight)
	return b
}

func (b *Backpack) apply(state uint8) {
	err := b.dev.SetAll(state)
	if err != nil && b.err == nil {
		b.err = err
	}
}

func (b *Backpack) setBit(bit uint8, on bool) {
	state := b.dev.State()
	if on {
		state |= 1 << bit
	} else {
		state &^= 1 << bit
	}
	b.apply(state)
}

func (b *Backpack) SetRS(data bool) {
	b.setBit(BackpackRS, data)
}

func (b *Backpack) SetData(nibble uint8) {
	b.apply(b.dev.State()&0x0F | (nibble&0x0F)<<BackpackD4)
}

func (b *Backpack) SetEnable(high bool) {
	b.setBit(BackpackE, high)
}

func (b *Backpack) Wait(d time.Duration) {
	if b.Delay == nil {
		time.Sleep(d)
		return
	}
	b.Delay(d)
}

// Backlight switches the display backlight.
func (b *Backpack) Backlight(on bool) {
	b.setBit(BackpackBacklight, on)
}

// Err returns the first I2C error seen since the backpack was created.
func (b *Backpack) Err() error {
	return b.err
}
