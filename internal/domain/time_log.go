package domain

import "time"

// TimeLogStatus is the review state of a time log.
type TimeLogStatus string

const (
	TimeLogStatusPending  TimeLogStatus = "pending"
	TimeLogStatusApproved TimeLogStatus = "approved"
	TimeLogStatusRejected TimeLogStatus = "rejected"
)

// TimeLog records time a caregiver spent with a client.
type TimeLog struct {
	ID              string
	StaffID         string
	ClientID        string
	Date            time.Time
	StartTime       TimeOfDay
	EndTime         TimeOfDay
	DurationMinutes int
	ServiceType     string
	Notes           *string
	Status          TimeLogStatus
	ReviewedBy      *string
	ReviewedAt      *time.Time
	CreatedAt       time.Time

	ClientName string
	StaffName  string
}

// Valid reports whether s is a known status.
func (s TimeLogStatus) Valid() bool {
	switch s {
	case TimeLogStatusPending, TimeLogStatusApproved, TimeLogStatusRejected:
		return true
	}
	return false
}
