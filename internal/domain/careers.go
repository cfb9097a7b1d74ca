package domain

import "time"

// JobPosition is an open role advertised on the careers page.
type JobPosition struct {
	ID             string
	Title          string
	Department     *string
	EmploymentType string
	Location       *string
	Salary         *string
	Description    string
	Requirements   []string
	Benefits       []string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ApplicationStatus tracks hiring review.
type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusReviewing   ApplicationStatus = "reviewing"
	ApplicationStatusInterviewed ApplicationStatus = "interviewed"
	ApplicationStatusHired       ApplicationStatus = "hired"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusReviewing, ApplicationStatusInterviewed,
		ApplicationStatusHired, ApplicationStatusRejected:
		return true
	}
	return false
}

// JobApplication is a candidate's submission for a position.
type JobApplication struct {
	ID            string
	PositionID    string
	PositionTitle string
	FirstName     string
	LastName      string
	Email         string
	Phone         *string
	ResumeKey     *string
	CoverLetter   *string
	Status        ApplicationStatus
	CreatedAt     time.Time
}
