// Package pcf8574 is a driver for the PCF8574 I2C GPIO expander.
//
// This expander is somewhat limited: Each pin can be set to either high (with a weak pullup) or low (grounded), as well
// as read. To use a pin for input, set it to "high" and check to see if something is forcing it to be low. To use a pin
// for output, they can sink a small amount of current when set to "low".
//
// Most I2C "backpacks" for HD44780 character displays are a PCF8574 wired to the display's 4-bit bus; Backpack drives
// one of those. Input exposes a single pin as a push-button line.
//
// Datasheet: https://cdn-learn.adafruit.com/assets/assets/000/113/910/original/pcf8574.pdf
package pcf8574

import (
	"tinygo.org/x/drivers"
)

const DefaultAddress = 0x20

type Device struct {
	bus  drivers.I2C
	addr uint16
	// current state of pins as we've defined them
	state uint8
}

type Config struct {
	Address uint8
}

type Report uint8

// New creates a new driver on the specified preconfigured I2C bus. The datasheet claims a maximum speed of 100 kHz.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus: bus,
		// defaults to everything high
		state: 0xFF,
	}
}

func (d *Device) Configure(c Config) {
	if c.Address == 0 {
		c.Address = DefaultAddress
	}

	d.addr = uint16(c.Address)
}

// SetPin configures a single pin based on val: True to activate the weak pullup resistor, false to sink current.
func (d *Device) SetPin(pin uint8, val bool) error {
	if val {
		d.state = d.state | 1<<pin
	} else {
		d.state = d.state & ^(1 << pin)
	}
	return d.send()
}

// SetAll configures all pins at once based on their bit in state: True to activate the weak pullup resistor, false to sink current.
func (d *Device) SetAll(state uint8) error {
	d.state = state
	return d.send()
}

// State returns the pin levels last written.
func (d *Device) State() uint8 {
	return d.state
}

func (d *Device) send() error {
	buf := [1]byte{d.state}
	return d.bus.Tx(d.addr, buf[:], nil)
}

// Read reads the status of every pin and returns a Report which can be used to check specific pins.
func (d *Device) Read() (Report, error) {
	var buf [1]byte
	// the chip doesn't have any registers and just returns the data directly when read
	err := d.bus.Tx(d.addr, nil, buf[:])
	return Report(buf[0]), err
}

// Pin reports whether the specified pin is high.
func (r Report) Pin(p uint8) bool {
	return r&(1<<p) > 0
}

// InputPin reads one expander pin. The pin must be left high (the power-on state) so an
// external switch can pull it low.
type InputPin struct {
	dev *Device
	pin uint8
	err error
}

// Input returns a reader for one pin.
func (d *Device) Input(pin uint8) *InputPin {
	return &InputPin{dev: d, pin: pin & 7}
}

// Get reports whether the pin is high. Every call is an I2C read. A failed read reports the
// idle (high) level and is remembered for Err.
func (p *InputPin) Get() bool {
	r, err := p.dev.Read()
	if err != nil {
		if p.err == nil {
			p.err = err
		}
		return true
	}
	return r.Pin(p.pin)
}

// Err returns the first read error, if any.
func (p *InputPin) Err() error {
	return p.err
}
