// Package pcf8523 implements a driver for the PCF8523 Real-Time Clock (RTC). It keeps a
// 24-hour time of day and a calendar date across power loss while a backup battery is
// fitted, and implements rtc.Clock. The PCF8523 itself supports alarms, clock drift
// compensation, and timer interrupts, but those features remain unimplemented.
//
// Datasheet: https://www.nxp.com/docs/en/data-sheet/PCF8523.pdf
package pcf8523

import (
	"fmt"
	"time"

	"tinygo.org/x/drivers"

	"github.com/ajanata/multiclock/rtc"
)

type Device struct {
	bus     drivers.I2C
	Address uint8
}

func New(i2c drivers.I2C) Device {
	return Device{
		bus:     i2c,
		Address: Address,
	}
}

// LostPower reports whether the oscillator stopped since the time was last set, meaning the
// stored time can't be trusted.
func (d *Device) LostPower() (bool, error) {
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.Address, Seconds, buf[:])
	if err != nil {
		return false, err
	}
	return buf[0]&flagOscillatorStopped != 0, nil
}

// Initialized reports whether battery switchover was ever enabled by Set or Init. It is
// disabled after the chip sees power for the first time.
func (d *Device) Initialized() (bool, error) {
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.Address, Control3, buf[:])
	if err != nil {
		return false, err
	}
	return buf[0]&maskBatterySwitchover != maskBatterySwitchover, nil
}

// Init starts the clock. The stored time is kept if the chip was running on battery;
// otherwise the clock is reset to rtc.DefaultTime on rtc.DefaultDate.
func (d *Device) Init() error {
	lost, err := d.LostPower()
	if err != nil {
		return fmt.Errorf("pcf8523: %w", err)
	}
	init, err := d.Initialized()
	if err != nil {
		return fmt.Errorf("pcf8523: %w", err)
	}
	if !lost && init {
		return nil
	}
	err = d.Set(rtc.Join(rtc.DefaultTime, rtc.DefaultDate))
	if err != nil {
		return fmt.Errorf("pcf8523: reset time: %w", err)
	}
	return nil
}

// Set writes both time and date, starts the oscillator and enables battery switchover. Years
// before 2000 or after 2099 can't be stored and nothing is written for them.
func (d *Device) Set(t time.Time) error {
	hms, date := rtc.Split(t)
	if !storable(date.Year) {
		return rtc.ErrInvalidDate
	}

	err := d.start()
	if err != nil {
		return err
	}

	buf := []byte{
		decToBcd(hms.Second),
		decToBcd(hms.Minute),
		decToBcd(hms.Hour),
		decToBcd(date.Day),
		decToBcd(uint8(date.Weekday)),
		decToBcd(uint8(date.Month)),
		decToBcd(uint8(date.Year - 2000)),
	}
	err = d.bus.WriteRegister(d.Address, Seconds, buf)
	if err != nil {
		return err
	}
	// turn on battery switchover mode, turn off battery-related interrupts
	return d.bus.WriteRegister(d.Address, Control3, []byte{0})
}

// start clears STOP and selects 24-hour mode, leaving the other Control1 bits alone.
func (d *Device) start() error {
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.Address, Control1, buf[:])
	if err != nil {
		return err
	}
	buf[0] &= maskControl1Keep
	return d.bus.WriteRegister(d.Address, Control1, buf[:])
}

// Now reads time and date in a single transaction so they can't straddle a rollover.
func (d *Device) Now() (time.Time, error) {
	buf := [7]byte{}
	err := d.bus.ReadRegister(d.Address, Seconds, buf[:])
	if err != nil {
		return time.Time{}, err
	}
	return rtc.Join(decodeTime(buf[0:3]), decodeDate(buf[3:7])), nil
}

func (d *Device) Time() (rtc.Time, error) {
	buf := [3]byte{}
	err := d.bus.ReadRegister(d.Address, Seconds, buf[:])
	if err != nil {
		return rtc.Time{}, err
	}
	return decodeTime(buf[:]), nil
}

// SetTime changes the time of day only. Writing the seconds register also clears the
// oscillator-stopped flag.
func (d *Device) SetTime(t rtc.Time) error {
	if !t.Valid() {
		return rtc.ErrInvalidTime
	}
	return d.bus.WriteRegister(d.Address, Seconds, []byte{
		decToBcd(t.Second),
		decToBcd(t.Minute),
		decToBcd(t.Hour),
	})
}

func (d *Device) Date() (rtc.Date, error) {
	buf := [4]byte{}
	err := d.bus.ReadRegister(d.Address, Days, buf[:])
	if err != nil {
		return rtc.Date{}, err
	}
	return decodeDate(buf[:]), nil
}

// SetDate changes the date only. Years before 2000 or after 2099 can't be stored.
func (d *Device) SetDate(date rtc.Date) error {
	if !date.Valid() || !storable(date.Year) {
		return rtc.ErrInvalidDate
	}
	return d.bus.WriteRegister(d.Address, Days, []byte{
		decToBcd(date.Day),
		decToBcd(uint8(date.Weekday)),
		decToBcd(uint8(date.Month)),
		decToBcd(uint8(date.Year - 2000)),
	})
}

// storable reports whether the two-digit year register can hold year.
func storable(year uint16) bool {
	return year >= 2000 && year <= 2099
}

// decodeTime decodes the seconds, minutes and hours registers.
func decodeTime(buf []byte) rtc.Time {
	return rtc.Time{
		Second: bcdToDec(buf[0] & 0x7F),
		Minute: bcdToDec(buf[1] & 0x7F),
		Hour:   bcdToDec(buf[2] & 0x3F),
	}
}

// decodeDate decodes the days, weekdays, months and years registers.
func decodeDate(buf []byte) rtc.Date {
	return rtc.Date{
		Day:     bcdToDec(buf[0] & 0x3F),
		Weekday: time.Weekday(buf[1] & 0x07),
		Month:   time.Month(bcdToDec(buf[2] & 0x1F)),
		Year:    uint16(bcdToDec(buf[3])) + 2000,
	}
}

// decToBcd converts a value below 100 to BCD
func decToBcd(dec uint8) uint8 {
	return dec + 6*(dec/10)
}

// bcdToDec converts BCD to its value
func bcdToDec(bcd uint8) uint8 {
	return bcd - 6*(bcd>>4)
}
