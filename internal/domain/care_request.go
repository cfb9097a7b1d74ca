package domain

import "time"

// CareRequestStatus tracks intake follow-up.
type CareRequestStatus string

const (
	CareRequestStatusNew       CareRequestStatus = "new"
	CareRequestStatusContacted CareRequestStatus = "contacted"
	CareRequestStatusScheduled CareRequestStatus = "scheduled"
	CareRequestStatusDeclined  CareRequestStatus = "declined"
)

// Valid reports whether s is a known status.
func (s CareRequestStatus) Valid() bool {
	switch s {
	case CareRequestStatusNew, CareRequestStatusContacted, CareRequestStatusScheduled, CareRequestStatusDeclined:
		return true
	}
	return false
}

// CareRequest is an inbound request for services submitted from the public site.
type CareRequest struct {
	ID                 string
	FirstName          string
	LastName           string
	Email              string
	Phone              string
	CareType           string
	PreferredStartDate *time.Time
	Frequency          *string
	Message            *string
	Status             CareRequestStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
