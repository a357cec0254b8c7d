package attendance

import (
	"strings"
	"time"
)

// Presence is the live attendance state shown for an employee on a day.
// It is unrelated to employment status.
type Presence string

const (
	PresenceCheckedIn    Presence = "checkedin"
	PresenceNotCheckedIn Presence = "notcheckedin"
	PresenceException    Presence = "exception"
)

const DateLayout = "2006-01-02"

func (p Presence) Valid() bool {
	switch p {
	case PresenceCheckedIn, PresenceNotCheckedIn, PresenceException:
		return true
	}
	return false
}

// SameDay compares the calendar day of a and b, each in its own location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ResolveStatus reports checkedin when the stored attendance date falls on
// the selected calendar day and notcheckedin otherwise, including when no
// date is stored.
func ResolveStatus(attendanceDate *time.Time, selected time.Time) Presence {
	if attendanceDate == nil {
		return PresenceNotCheckedIn
	}
	if SameDay(*attendanceDate, selected) {
		return PresenceCheckedIn
	}
	return PresenceNotCheckedIn
}

// Mark carries the stored facts presence is derived from.
type Mark struct {
	Date          time.Time
	CheckIn       *time.Time
	CheckOut      *time.Time
	ExceptionOpen bool
}

// Resolve is ResolveStatus with the exception state layered on top: an
// unresolved exception on the selected day wins over checkedin.
func Resolve(mark *Mark, selected time.Time) Presence {
	if mark == nil {
		return PresenceNotCheckedIn
	}
	presence := ResolveStatus(&mark.Date, selected)
	if presence == PresenceCheckedIn && mark.ExceptionOpen {
		return PresenceException
	}
	return presence
}

func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.Local)
}

func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
