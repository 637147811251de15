package pcf8523

const (
	Address           = 0x68 // I2C address for PCF8523
	Control1          = 0x00 // Control and status register 1
	Control2          = 0x01 // Control and status register 2
	Control3          = 0x02 // Control and status register 3
	Seconds           = 0x03 // Seconds, bit 7 is the oscillator-stopped flag
	Minutes           = 0x04
	Hours             = 0x05
	Days              = 0x06
	Weekdays          = 0x07
	Months            = 0x08
	Years             = 0x09 // Years since 2000
	Offset            = 0x0E // Offset register
	ClkOutControl     = 0x0F // Timer and CLKOUT control register
	TimerBFreqControl = 0x12 // Timer B source clock frequency control
	TimerBValue       = 0x13 // Timer B value (number clock periods)
)

const (
	flagOscillatorStopped = 0x80
	maskBatterySwitchover = 0xE0 // Control3 PM bits, all set after a power-on reset
	// Control1 bits to keep when (re)starting the clock: CAP_SEL and the second, alarm and
	// correction interrupt enables. STOP and 12_24 are cleared.
	maskControl1Keep = 0b1000_0111
)
