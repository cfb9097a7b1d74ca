package domain

import "time"

// ClientCondition is the caregiver's assessment at the end of a shift.
type ClientCondition string

const (
	ClientConditionGood     ClientCondition = "good"
	ClientConditionFair     ClientCondition = "fair"
	ClientConditionPoor     ClientCondition = "poor"
	ClientConditionCritical ClientCondition = "critical"
)

// TaskEntry is one line of the completed-tasks checklist.
type TaskEntry struct {
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
}

// ShiftReport is filed by the assigned caregiver once a shift has been worked.
type ShiftReport struct {
	ID              string
	ShiftID         string
	StaffID         string
	TasksCompleted  []TaskEntry
	ClientCondition ClientCondition
	Notes           *string
	Concerns        *string
	FollowUpNeeded  bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Valid reports whether c is a known condition.
func (c ClientCondition) Valid() bool {
	switch c {
	case ClientConditionGood, ClientConditionFair, ClientConditionPoor, ClientConditionCritical:
		return true
	}
	return false
}
