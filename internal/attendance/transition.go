package attendance

import (
	"errors"
	"strings"
	"time"
)

type State string

const (
	StateNotCheckedIn State = "NotCheckedIn"
	StateCheckedIn    State = "CheckedIn"
	StateCheckedOut   State = "CheckedOut"
	StateException    State = "Exception"
)

var (
	ErrDateRequired          = errors.New("date is required")
	ErrProjectRequired       = errors.New("project is required")
	ErrReasonRequired        = errors.New("reason is required")
	ErrAlreadyMarked         = errors.New("attendance already marked for this date")
	ErrNotCheckedIn          = errors.New("employee is not checked in")
	ErrAlreadyCheckedOut     = errors.New("employee already checked out")
	ErrExceptionOpen         = errors.New("open exception must be resolved first")
	ErrCheckOutBeforeCheckIn = errors.New("checkout cannot be before check-in")
	ErrFutureTime            = errors.New("time cannot be in the future")
	ErrCheckInOffDay         = errors.New("check-in must fall on the attendance date")
)

// StateOf derives the per-day state. Checked out is not stored separately;
// it is the presence of a checkout time.
func StateOf(checkIn, checkOut *time.Time, exceptionOpen bool) State {
	switch {
	case checkIn == nil:
		return StateNotCheckedIn
	case exceptionOpen:
		return StateException
	case checkOut != nil:
		return StateCheckedOut
	default:
		return StateCheckedIn
	}
}

type CheckInInput struct {
	Date      *time.Time
	ProjectID string
	Reason    string
}

// ValidateCheckIn runs every rule a manual check-in must pass before
// anything is written. lastMarked is the employee's most recent attendance
// date, nil when there is none.
func ValidateCheckIn(in CheckInInput, lastMarked *time.Time) error {
	if in.Date == nil || in.Date.IsZero() {
		return ErrDateRequired
	}
	if strings.TrimSpace(in.ProjectID) == "" {
		return ErrProjectRequired
	}
	if strings.TrimSpace(in.Reason) == "" {
		return ErrReasonRequired
	}
	if ResolveStatus(lastMarked, *in.Date) == PresenceCheckedIn {
		return ErrAlreadyMarked
	}
	return nil
}

type CheckOutInput struct {
	ProjectID string
	Reason    string
}

func ValidateCheckOut(in CheckOutInput, state State) error {
	if strings.TrimSpace(in.ProjectID) == "" {
		return ErrProjectRequired
	}
	if strings.TrimSpace(in.Reason) == "" {
		return ErrReasonRequired
	}
	switch state {
	case StateNotCheckedIn:
		return ErrNotCheckedIn
	case StateCheckedOut:
		return ErrAlreadyCheckedOut
	case StateException:
		return ErrExceptionOpen
	}
	return nil
}

// ClampCheckOut rejects a checkout before check-in and caps it at
// maxShift after check-in.
func ClampCheckOut(checkIn, checkOut time.Time, maxShift time.Duration) (time.Time, error) {
	if checkOut.Before(checkIn) {
		return time.Time{}, ErrCheckOutBeforeCheckIn
	}
	maxClose := checkIn.Add(maxShift)
	if maxShift > 0 && checkOut.After(maxClose) {
		return maxClose, nil
	}
	return checkOut, nil
}
