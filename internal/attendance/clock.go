package attendance

import (
	"fmt"
	"strings"
	"time"
)

var dateTimeFormats = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

var clockFormats = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"03:04 PM",
}

// ParseClock reads a check-in or checkout time. Full timestamps are taken
// as-is; a bare clock time is placed on day. An empty value returns the
// zero time.
func ParseClock(day time.Time, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, nil
	}
	for _, format := range dateTimeFormats {
		if parsed, err := time.ParseInLocation(format, value, time.Local); err == nil {
			return parsed, nil
		}
	}
	for _, format := range clockFormats {
		if parsed, err := time.Parse(format, strings.ToUpper(value)); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), parsed.Second(), 0, day.Location()), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", value)
}

// ClockString renders a stored timestamp the way the boards show it.
func ClockString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04")
}
