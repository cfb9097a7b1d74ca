package dto

import (
	"time"

	"github.com/spec-kit/homecare-api/internal/domain"
)

// ShiftRequest payload for creating or replacing a shift.
type ShiftRequest struct {
	StaffID           string  `json:"staff_id" validate:"required,uuid"`
	ClientID          string  `json:"client_id" validate:"required,uuid"`
	Date              string  `json:"date" validate:"required,date"`
	StartTime         string  `json:"start_time" validate:"required,timeofday"`
	EndTime           string  `json:"end_time" validate:"required,timeofday"`
	Recurring         bool    `json:"recurring"`
	RecurrencePattern *string `json:"recurrence_pattern" validate:"omitempty,max=100"`
	Notes             *string `json:"notes" validate:"omitempty,max=2000"`
	Status            *string `json:"status" validate:"omitempty,oneof=active cancelled completed"`
}

// ConflictCheckRequest payload.
type ConflictCheckRequest struct {
	StaffID        string  `json:"staff_id" validate:"required,uuid"`
	Date           string  `json:"date" validate:"required,date"`
	StartTime      string  `json:"start_time" validate:"required,timeofday"`
	EndTime        string  `json:"end_time" validate:"required,timeofday"`
	ExcludeShiftID *string `json:"exclude_shift_id" validate:"omitempty,uuid"`
}

// Shift response.
type Shift struct {
	ID                string             `json:"id"`
	StaffID           string             `json:"staff_id"`
	StaffName         string             `json:"staff_name,omitempty"`
	ClientID          string             `json:"client_id"`
	ClientName        string             `json:"client_name,omitempty"`
	Date              string             `json:"date"`
	StartTime         string             `json:"start_time"`
	EndTime           string             `json:"end_time"`
	Status            domain.ShiftStatus `json:"status"`
	Recurring         bool               `json:"recurring"`
	RecurrencePattern *string            `json:"recurrence_pattern"`
	Notes             *string            `json:"notes"`
	CreatedBy         string             `json:"created_by,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// NewShift maps a domain shift.
func NewShift(s *domain.Shift) Shift {
	return Shift{
		ID:                s.ID,
		StaffID:           s.StaffID,
		StaffName:         s.StaffName,
		ClientID:          s.ClientID,
		ClientName:        s.ClientName,
		Date:              s.Date.Format(domain.DateLayout),
		StartTime:         s.StartTime.String(),
		EndTime:           s.EndTime.String(),
		Status:            s.Status,
		Recurring:         s.Recurring,
		RecurrencePattern: s.RecurrencePattern,
		Notes:             s.Notes,
		CreatedBy:         s.CreatedBy,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// NewShifts maps a slice, never returning nil.
func NewShifts(shifts []domain.Shift) []Shift {
	out := make([]Shift, 0, len(shifts))
	for i := range shifts {
		out = append(out, NewShift(&shifts[i]))
	}
	return out
}

// ShiftReportRequest payload.
type ShiftReportRequest struct {
	TasksCompleted  []domain.TaskEntry `json:"tasks_completed" validate:"dive"`
	ClientCondition string             `json:"client_condition" validate:"omitempty,oneof=good fair poor critical"`
	Notes           *string            `json:"notes" validate:"omitempty,max=5000"`
	Concerns        *string            `json:"concerns" validate:"omitempty,max=5000"`
	FollowUpNeeded  bool               `json:"follow_up_needed"`
}

// ShiftReport response.
type ShiftReport struct {
	ID              string                 `json:"id"`
	ShiftID         string                 `json:"shift_id"`
	StaffID         string                 `json:"staff_id"`
	TasksCompleted  []domain.TaskEntry     `json:"tasks_completed"`
	ClientCondition domain.ClientCondition `json:"client_condition"`
	Notes           *string                `json:"notes"`
	Concerns        *string                `json:"concerns"`
	FollowUpNeeded  bool                   `json:"follow_up_needed"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// NewShiftReport maps a report; nil maps to nil.
func NewShiftReport(r *domain.ShiftReport) *ShiftReport {
	if r == nil {
		return nil
	}
	return &ShiftReport{
		ID:              r.ID,
		ShiftID:         r.ShiftID,
		StaffID:         r.StaffID,
		TasksCompleted:  r.TasksCompleted,
		ClientCondition: r.ClientCondition,
		Notes:           r.Notes,
		Concerns:        r.Concerns,
		FollowUpNeeded:  r.FollowUpNeeded,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
