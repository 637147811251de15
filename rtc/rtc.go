// Package rtc defines the wall-clock collaborator used by the clock application: a time of
// day and a calendar date kept by a battery-backed real-time clock, plus a software stand-in
// for hosts that have none.
package rtc

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTime = errors.New("rtc: invalid time of day")
	ErrInvalidDate = errors.New("rtc: invalid date")
)

// Time is a 24-hour time of day.
type Time struct {
	Hour   uint8
	Minute uint8
	Second uint8
}

func (t Time) Valid() bool {
	return t.Hour < 24 && t.Minute < 60 && t.Second < 60
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Date is a calendar date. Year is the full year, e.g. 2024.
type Date struct {
	Weekday time.Weekday
	Day     uint8
	Month   time.Month
	Year    uint16
}

func (d Date) Valid() bool {
	return d.Weekday >= time.Sunday && d.Weekday <= time.Saturday &&
		d.Month >= time.January && d.Month <= time.December &&
		d.Day >= 1 && int(d.Day) <= daysIn(d.Month, int(d.Year))
}

func (d Date) String() string {
	return fmt.Sprintf("%s %04d-%02d-%02d", d.Weekday.String()[:3], d.Year, d.Month, d.Day)
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Default is what a clock shows after it lost power: midnight on Saturday, 1 January 2000.
var (
	DefaultTime = Time{}
	DefaultDate = Date{Weekday: time.Saturday, Day: 1, Month: time.January, Year: 2000}
)

// Clock is a real-time clock. Init prepares the hardware and is the only call expected to
// fail; a failure there is fatal to the application.
type Clock interface {
	Init() error
	Time() (Time, error)
	SetTime(Time) error
	Date() (Date, error)
	SetDate(Date) error
}

// Split breaks a time.Time into its time of day and date.
func Split(t time.Time) (Time, Date) {
	return Time{
			Hour:   uint8(t.Hour()),
			Minute: uint8(t.Minute()),
			Second: uint8(t.Second()),
		}, Date{
			Weekday: t.Weekday(),
			Day:     uint8(t.Day()),
			Month:   t.Month(),
			Year:    uint16(t.Year()),
		}
}

// Join combines a time of day and a date into a UTC time.Time. The weekday is derived from
// the date and d.Weekday is ignored.
func Join(t Time, d Date) time.Time {
	return time.Date(int(d.Year), d.Month, int(d.Day), int(t.Hour), int(t.Minute), int(t.Second), 0, time.UTC)
}
