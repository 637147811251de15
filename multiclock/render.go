package multiclock

import "fmt"

// render clears the display and draws the screen for the current mode.
func (c *Controller) render() {
	c.display.Clear()
	switch c.mode {
	case Clock:
		c.renderClock()
	case Stopwatch:
		c.renderStopwatch()
	case Settings:
		c.renderSettings()
	}
}

func (c *Controller) renderClock() {
	t, err := c.rtc.Time()
	if err != nil {
		c.fail(fmt.Errorf("rtc read: %w", err))
		return
	}
	c.display.WriteStringAt(0, 0, fmt.Sprintf("T:%02d:%02d:%02d ", t.Hour, t.Minute, t.Second))
	c.display.WriteStringAt(1, 0, "MODE>SW>SET")
}

func (c *Controller) renderStopwatch() {
	h, m, s := c.stopwatch.Split()
	c.display.WriteStringAt(0, 0, fmt.Sprintf("SW: %02d:%02d:%02d", h, m, s))
	if c.stopwatch.Running() {
		c.display.WriteStringAt(1, 0, "Reset Mode Stop")
	} else {
		c.display.WriteStringAt(1, 0, "Reset Mode Start")
	}
}

func (c *Controller) renderSettings() {
	// the bracket blinks on its own timer, independent of the tick
	if now := c.millis(); now-c.lastBlink > c.blinkPeriod {
		c.blinkOn = !c.blinkOn
		c.lastBlink = now
	}

	h, m := c.draft.Time.Hour, c.draft.Time.Minute
	var line string
	switch c.draft.Field {
	case Hours:
		c.display.WriteStringAt(0, 0, "Set Hours:      ")
		if c.blinkOn {
			line = fmt.Sprintf("[%02d]:%02d  ", h, m)
		} else {
			line = fmt.Sprintf(" %02d :%02d  ", h, m)
		}
	case Minutes:
		c.display.WriteStringAt(0, 0, "Set Minutes:    ")
		if c.blinkOn {
			line = fmt.Sprintf(" %02d:[%02d] ", h, m)
		} else {
			line = fmt.Sprintf(" %02d : %02d  ", h, m)
		}
	case Save:
		c.display.WriteStringAt(0, 0, "Save Time?      ")
		c.display.WriteStringAt(1, 0, "Press INC to save")
		return
	}
	c.display.WriteStringAt(1, 0, line)
}
