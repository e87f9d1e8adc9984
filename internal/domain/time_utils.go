package domain

import "time"

const (
	// ClockLayout - message timestamps in the transcript
	ClockLayout = "15:04"
	// DatetimeLayout - log and debug output
	DatetimeLayout = "2006-01-02T15:04:05Z"
)

// FormatClock renders a message timestamp in local time
func FormatClock(t time.Time) string {
	return t.Local().Format(ClockLayout)
}
