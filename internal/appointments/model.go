// Package appointments implements the booking core: the appointment model,
// the slot validation rules and the service orchestrating both over Postgres.
package appointments

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an appointment. New appointments start
// pending and move to approved or rejected through explicit staff actions.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// Appointment is a single booked slot. Date carries the calendar day at
// midnight UTC; Hour is the hour-of-day of the slot.
type Appointment struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Date      time.Time `json:"-"`
	Hour      int       `json:"hour"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// SameSlot reports whether two appointments occupy the same (date, hour) pair.
func (a Appointment) SameSlot(date time.Time, hour int) bool {
	y1, m1, d1 := a.Date.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2 && a.Hour == hour
}

// DateOnly truncates t to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
