// Package mpr121 provides a driver for the MPR121 capacitive touch sensor. Each electrode can
// be read as a button line through Pad, which lets a touch keypad stand in for the
// push-buttons of the clock.
//
// Datasheet: https://cdn-shop.adafruit.com/datasheets/MPR121.pdf
package mpr121

import (
	"time"

	"tinygo.org/x/drivers"
)

type Device struct {
	addr uint8
	bus  drivers.I2C
}

type Config struct {
	Address          uint8
	TouchThreshold   uint8
	ReleaseThreshold uint8
	ProximityMode    ProximityMode
	// AutoConfig enables the device's own automatic configuration. Seems to work well enough, you probably want this.
	AutoConfig bool
}

type Report uint16

// ProximityMode indicates how many channels are bundled together for the proximity sensor (starting from the first channel).
type ProximityMode uint8

const (
	ProximityModeOff ProximityMode = iota
	ProximityModeTwo
	ProximityModeFour
	ProximityModeTwelve
)

type regValue struct {
	reg, val uint8
}

// baseline filter settings from the Freescale application note AN3944
var filterDefaults = []regValue{
	{regMHDR, 0x01},
	{regNHDR, 0x01},
	{regNCLR, 0x0E},
	{regFDLR, 0x00},
	{regMHDF, 0x01},
	{regNHDF, 0x05},
	{regNCLF, 0x01},
	{regFDLF, 0x00},
	{regNHDT, 0x00},
	{regNCLT, 0x00},
	{regFDLT, 0x00},
	{regDebounce, 0},
	{regConfig1, 0x10}, // 16uA charge current
	{regConfig2, 0x20}, // 0.5uS encoding, 1ms period
}

// limits for Vdd = 3.3V: UPLIMIT = ((Vdd - 0.7)/Vdd) * 256, TARGET = UPLIMIT * 0.9, LOW = UPLIMIT * 0.65
var autoConfig = []regValue{
	{regAutoConfig0, 0x0B},
	{regUpLimit, 200},
	{regTargetLimit, 180},
	{regLowLimit, 130},
}

// New creates a new MPR121 driver on the provided I2C bus. The datasheet says it doesn't support more than 400 kHz, but
// mine worked with 1 MHz. YMMV.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus: bus,
	}
}

// Configure soft-resets the chip, programs thresholds and filters, and starts measuring all
// 12 electrodes.
func (d *Device) Configure(c Config) error {
	if c.Address == 0 {
		c.Address = DefaultAddress
	}
	d.addr = c.Address

	err := d.write(regSoftReset, softResetMagic)
	if err != nil {
		return err
	}
	time.Sleep(time.Millisecond)

	err = d.write(regECR, 0)
	if err != nil {
		return err
	}

	err = d.SetThresholds(c.TouchThreshold, c.ReleaseThreshold)
	if err != nil {
		return err
	}

	settings := filterDefaults
	if c.AutoConfig {
		settings = append(settings[:len(settings):len(settings)], autoConfig...)
	}
	for _, s := range settings {
		err = d.write(s.reg, s.val)
		if err != nil {
			return err
		}
	}

	// mask off invalid bits and shift into correct position
	pm := uint8((c.ProximityMode & 0b11) << 4)

	// enable all 12 normal channels plus selected proximity mode
	return d.write(regECR, 0b1000_0000+electrodes+pm)
}

// Status reads the state of every touch sensor and returns a Report which can be used to check each channel with a
// single round-trip I2C transaction.
func (d *Device) Status() (Report, error) {
	raw, err := d.read16(regTouchStatus)
	return Report(raw), err
}

func (r Report) Touched(channel uint8) bool {
	return r&(1<<channel) > 0
}

// SetThresholds sets every channel, including the proximity channel, to the specified thresholds. The touch threshold
// should be several counts larger than the release threshold to provide hysteresis; typical values are 0x04~0x10.
func (d *Device) SetThresholds(touch, release uint8) error {
	for i := uint8(0); i <= electrodes; i++ {
		err := d.SetThreshold(i, touch, release)
		if err != nil {
			return err
		}
	}
	return nil
}

// SetThreshold sets the given channel to the specified thresholds.
func (d *Device) SetThreshold(channel, touch, release uint8) error {
	err := d.write(regTouchTh0+2*channel, touch)
	if err != nil {
		return err
	}
	return d.write(regReleaseTh0+2*channel, release)
}

func (d *Device) read16(reg uint8) (uint16, error) {
	buf := [2]byte{}
	err := d.bus.ReadRegister(d.addr, reg, buf[:])
	return (uint16(buf[1]) << 8) | uint16(buf[0]), err
}

// write sets a register. Most registers can only be written in stop mode, so the electrode
// configuration is cleared around the write and restored afterwards.
func (d *Device) write(reg, val uint8) error {
	mustStop := reg != regECR && (reg < 0x73 || reg > 0x7A)
	buf := [1]byte{}
	var ecr uint8

	if mustStop {
		err := d.bus.ReadRegister(d.addr, regECR, buf[:])
		if err != nil {
			return err
		}
		ecr = buf[0]
		if ecr != 0 {
			buf[0] = 0
			err = d.bus.WriteRegister(d.addr, regECR, buf[:])
			if err != nil {
				return err
			}
		}
	}

	buf[0] = val
	err := d.bus.WriteRegister(d.addr, reg, buf[:])
	if err != nil {
		return err
	}

	if mustStop && ecr != 0 {
		buf[0] = ecr
		return d.bus.WriteRegister(d.addr, regECR, buf[:])
	}
	return nil
}

// Pad reads one electrode as a button line.
type Pad struct {
	dev     *Device
	channel uint8
	err     error
}

// Pad returns a button line for an electrode (0-11, or 12 for the proximity channel).
func (d *Device) Pad(channel uint8) *Pad {
	return &Pad{dev: d, channel: channel}
}

// Get reports whether the electrode is touched. Every call is an I2C read; a failed read
// reports "not touched" and is remembered for Err.
func (p *Pad) Get() bool {
	r, err := p.dev.Status()
	if err != nil {
		if p.err == nil {
			p.err = err
		}
		return false
	}
	return r.Touched(p.channel)
}

// Err returns the first read error, if any.
func (p *Pad) Err() error {
	return p.err
}
