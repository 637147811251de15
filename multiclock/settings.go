package multiclock

import "github.com/ajanata/multiclock/rtc"

// Draft is the time being edited in Settings mode. It is copied from the RTC when Settings
// is entered and written back only when Save is confirmed.
type Draft struct {
	Time  rtc.Time
	Field Field
}

// Select moves to the next field.
func (d *Draft) Select() {
	d.Field = d.Field.Next()
}

// Increment bumps the selected field, wrapping hours at 24 and minutes at 60. On the Save
// field it changes nothing and returns true: the caller commits the draft.
func (d *Draft) Increment() (save bool) {
	switch d.Field {
	case Hours:
		d.Time.Hour = (d.Time.Hour + 1) % 24
	case Minutes:
		d.Time.Minute = (d.Time.Minute + 1) % 60
	case Save:
		return true
	}
	return false
}
