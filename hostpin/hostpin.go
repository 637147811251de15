// Package hostpin adapts periph.io GPIO pins and I2C buses to the interfaces used by
// hd44780, button and the tinygo device drivers, so the clock can run on a Linux
// single-board computer.
package hostpin

import (
	"fmt"
	"io"
	"strings"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"

	"github.com/ajanata/multiclock/hd44780"
)

// Output drives a periph.io pin. Set has no error return, so the first failure is kept and
// reported by Err.
type Output struct {
	Pin gpio.PinOut
	err error
}

func NewOutput(p gpio.PinOut) *Output {
	return &Output{Pin: p}
}

func (o *Output) Set(high bool) {
	if err := o.Pin.Out(gpio.Level(high)); err != nil && o.err == nil {
		o.err = fmt.Errorf("hostpin: %s: %w", o.Pin, err)
	}
}

// Err returns the first error seen by Set.
func (o *Output) Err() error {
	return o.err
}

// LCD drives an HD44780 wired straight to six pins: RS, E and D4..D7. R/W is expected to be
// tied to ground.
type LCD struct {
	*hd44780.GPIOBus
	pins [6]*Output
}

func NewLCD(rs, e, d4, d5, d6, d7 gpio.PinOut) *LCD {
	l := &LCD{}
	for i, p := range []gpio.PinOut{rs, e, d4, d5, d6, d7} {
		l.pins[i] = NewOutput(p)
	}
	l.GPIOBus = hd44780.NewGPIOBus(l.pins[0], l.pins[1], l.pins[2], l.pins[3], l.pins[4], l.pins[5])
	return l
}

// OpenLCD looks up a comma-separated list of six pin names in RS,E,D4,D5,D6,D7 order.
func OpenLCD(names string) (*LCD, error) {
	parts := strings.Split(names, ",")
	if len(parts) != 6 {
		return nil, fmt.Errorf("hostpin: lcd wants 6 pins (RS,E,D4..D7), got %d", len(parts))
	}
	var pins [6]gpio.PinOut
	for i, name := range parts {
		p, err := ByName(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		pins[i] = p
	}
	return NewLCD(pins[0], pins[1], pins[2], pins[3], pins[4], pins[5]), nil
}

// Err returns the first error of any of the six pins.
func (l *LCD) Err() error {
	for _, p := range l.pins {
		if err := p.Err(); err != nil {
			return err
		}
	}
	return nil
}

// Input reads a periph.io pin configured with the pull-up enabled, which suits switches
// wired to ground.
type Input struct {
	Pin gpio.PinIn
}

func NewInput(p gpio.PinIn) (*Input, error) {
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("hostpin: %s: %w", p, err)
	}
	return &Input{Pin: p}, nil
}

// Get returns the raw line level.
func (i *Input) Get() bool {
	return i.Pin.Read() == gpio.High
}

// ByName looks a pin up in the periph.io registry, e.g. "GPIO17".
func ByName(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("hostpin: no pin named %q", name)
	}
	return p, nil
}

// I2C adapts a periph.io bus to drivers.I2C, so the tinygo device drivers (pcf8523,
// pcf8574, mpr121) run unchanged on Linux.
type I2C struct {
	Bus i2c.Bus
}

func (b I2C) Tx(addr uint16, w, r []byte) error {
	return b.Bus.Tx(addr, w, r)
}

func (b I2C) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Bus.Tx(uint16(addr), []byte{reg}, buf)
}

func (b I2C) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	w := make([]byte, 0, len(buf)+1)
	w = append(w, reg)
	w = append(w, buf...)
	return b.Bus.Tx(uint16(addr), w, nil)
}

// OpenI2C opens a bus by name ("" picks the first one). The caller closes it.
func OpenI2C(name string) (I2C, io.Closer, error) {
	bus, err := i2creg.Open(name)
	if err != nil {
		return I2C{}, nil, fmt.Errorf("hostpin: i2c %q: %w", name, err)
	}
	return I2C{Bus: bus}, bus, nil
}
