package multiclock

// Mode is the screen the appliance is showing. The mode button cycles
// Clock → Stopwatch → Settings → Clock.
type Mode uint8

const (
	Clock Mode = iota
	Stopwatch
	Settings
)

func (m Mode) String() string {
	switch m {
	case Clock:
		return "clock"
	case Stopwatch:
		return "stopwatch"
	case Settings:
		return "settings"
	default:
		return "unknown"
	}
}

// Next returns the mode the mode button switches to.
func (m Mode) Next() Mode {
	switch m {
	case Clock:
		return Stopwatch
	case Stopwatch:
		return Settings
	default:
		return Clock
	}
}

// Field selects what the increment button changes in Settings mode.
type Field uint8

const (
	Hours Field = iota
	Minutes
	Save
)

func (f Field) String() string {
	switch f {
	case Hours:
		return "hours"
	case Minutes:
		return "minutes"
	case Save:
		return "save"
	default:
		return "unknown"
	}
}

// Next returns the field the select button moves to.
func (f Field) Next() Field {
	switch f {
	case Hours:
		return Minutes
	case Minutes:
		return Save
	default:
		return Hours
	}
}
