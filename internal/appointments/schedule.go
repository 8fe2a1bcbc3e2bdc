package appointments

import "time"

// Schedule holds the booking rules: daily business hours, an optional break
// window and the rolling window of bookable dates.
type Schedule struct {
	// OpenHour is the first bookable hour (inclusive).
	OpenHour int
	// CloseHour bounds the bookable hours (exclusive).
	CloseHour int
	// BreakStartHour/BreakEndHour exclude a half-open hour range from the
	// day. Both zero disables the break.
	BreakStartHour int
	BreakEndHour   int
	// WindowDays is the number of bookable calendar days counting today.
	WindowDays int
	// Now supplies the wall clock; tests inject a fixed one.
	Now func() time.Time
}

// DefaultSchedule returns the stock rules: 09:00-19:00, no break, bookings
// for today and the next two days.
func DefaultSchedule() Schedule {
	return Schedule{
		OpenHour:   9,
		CloseHour:  19,
		WindowDays: 3,
		Now:        time.Now,
	}
}

// Candidate is a slot request that has already been resolved to concrete
// calendar values. Free-text parsing happens upstream, never here.
type Candidate struct {
	Date   time.Time
	Hour   int
	Minute int
}

// Validate checks a candidate slot against the schedule and the existing
// non-rejected appointments. Rules run in order and the first violation
// wins; nil means the slot is bookable.
func (s Schedule) Validate(c Candidate, existing []Appointment) *ValidationError {
	if c.Minute != 0 {
		return &ValidationError{Reason: ReasonNotOnTheHour}
	}
	if c.Hour < s.OpenHour || c.Hour >= s.CloseHour || s.inBreak(c.Hour) {
		return &ValidationError{Reason: ReasonOutsideHours}
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	today := DateOnly(now())
	date := DateOnly(c.Date)
	last := today.AddDate(0, 0, s.WindowDays-1)
	if date.Before(today) || date.After(last) {
		return &ValidationError{Reason: ReasonDateOutOfWindow}
	}

	for _, a := range existing {
		if a.Status != StatusRejected && a.SameSlot(date, c.Hour) {
			return &ValidationError{Reason: ReasonSlotTaken}
		}
	}
	return nil
}

func (s Schedule) inBreak(hour int) bool {
	if s.BreakStartHour == 0 && s.BreakEndHour == 0 {
		return false
	}
	return hour >= s.BreakStartHour && hour < s.BreakEndHour
}
