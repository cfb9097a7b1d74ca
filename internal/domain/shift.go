package domain

import "time"

// ShiftStatus tracks the lifecycle of a scheduled shift.
type ShiftStatus string

const (
	ShiftStatusActive    ShiftStatus = "active"
	ShiftStatusCancelled ShiftStatus = "cancelled"
	ShiftStatusCompleted ShiftStatus = "completed"
)

// Valid reports whether s is a known status.
func (s ShiftStatus) Valid() bool {
	switch s {
	case ShiftStatusActive, ShiftStatusCancelled, ShiftStatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s ShiftStatus) Terminal() bool {
	return s == ShiftStatusCancelled || s == ShiftStatusCompleted
}

// CanTransitionTo allows active -> cancelled and active -> completed only.
// Staying in the same status is not a transition and is always allowed.
func (s ShiftStatus) CanTransitionTo(next ShiftStatus) bool {
	if s == next {
		return true
	}
	return s == ShiftStatusActive && next.Terminal()
}

// Shift is one staff member's committed work window with one client on one date.
type Shift struct {
	ID                string
	StaffID           string
	ClientID          string
	Date              time.Time
	StartTime         TimeOfDay
	EndTime           TimeOfDay
	Status            ShiftStatus
	Recurring         bool
	RecurrencePattern *string
	Notes             *string
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Populated by list queries that join names.
	StaffName  string
	ClientName string
}

// Interval returns the shift window.
func (s *Shift) Interval() Interval {
	return Interval{Start: s.StartTime, End: s.EndTime}
}

// StartsAt combines date and start time.
func (s *Shift) StartsAt() time.Time {
	return TruncateDate(s.Date).Add(time.Duration(s.StartTime) * time.Minute)
}
