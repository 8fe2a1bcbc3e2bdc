package appointments

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no appointment exists for the given id.
	ErrNotFound = errors.New("appointments: not found")
	// ErrSlotTaken is returned by the store when the slot uniqueness
	// constraint rejects an insert.
	ErrSlotTaken = errors.New("appointments: slot already taken")
	// ErrStatusFinal is returned when status overrides are disabled and the
	// appointment already left the pending state.
	ErrStatusFinal = errors.New("appointments: status already final")
)

// Reason identifies which booking rule rejected a candidate slot.
type Reason string

const (
	ReasonNotOnTheHour    Reason = "not_on_the_hour"
	ReasonOutsideHours    Reason = "outside_hours"
	ReasonDateOutOfWindow Reason = "date_out_of_window"
	ReasonSlotTaken       Reason = "slot_taken"
)

// ValidationError reports the first booking rule a candidate violated.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("appointments: validation failed: %s", e.Reason)
}

// Message returns the caller-facing description for the violated rule.
func (e *ValidationError) Message(s Schedule) string {
	switch e.Reason {
	case ReasonNotOnTheHour:
		return "Appointments start on the hour. Please pick a time like 10:00."
	case ReasonOutsideHours:
		if s.BreakStartHour != s.BreakEndHour {
			return fmt.Sprintf("Appointments are available between %02d:00 and %02d:00, except %02d:00 to %02d:00.",
				s.OpenHour, s.CloseHour, s.BreakStartHour, s.BreakEndHour)
		}
		return fmt.Sprintf("Appointments are available between %02d:00 and %02d:00.", s.OpenHour, s.CloseHour)
	case ReasonDateOutOfWindow:
		return fmt.Sprintf("Appointments can be booked for today or the next %d days only.", s.WindowDays-1)
	case ReasonSlotTaken:
		return "That time slot is already taken. Please pick another time."
	}
	return "The requested appointment is not available."
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
