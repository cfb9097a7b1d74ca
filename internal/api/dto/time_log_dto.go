package dto

import (
	"time"

	"github.com/spec-kit/homecare-api/internal/domain"
)

// TimeLogRequest payload.
type TimeLogRequest struct {
	ClientID    string  `json:"client_id" validate:"required,uuid"`
	Date        string  `json:"date" validate:"required,date"`
	StartTime   string  `json:"start_time" validate:"required,timeofday"`
	EndTime     string  `json:"end_time" validate:"required,timeofday"`
	ServiceType string  `json:"service_type" validate:"required,max=100"`
	Notes       *string `json:"notes" validate:"omitempty,max=2000"`
}

// StatusRequest is the body of every status PATCH endpoint.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TimeLog response.
type TimeLog struct {
	ID              string               `json:"id"`
	StaffID         string               `json:"staff_id"`
	StaffName       string               `json:"staff_name,omitempty"`
	ClientID        string               `json:"client_id"`
	ClientName      string               `json:"client_name,omitempty"`
	Date            string               `json:"date"`
	StartTime       string               `json:"start_time"`
	EndTime         string               `json:"end_time"`
	DurationMinutes int                  `json:"duration_minutes"`
	ServiceType     string               `json:"service_type"`
	Notes           *string              `json:"notes"`
	Status          domain.TimeLogStatus `json:"status"`
	ReviewedBy      *string              `json:"reviewed_by"`
	ReviewedAt      *time.Time           `json:"reviewed_at"`
	CreatedAt       time.Time            `json:"created_at"`
}

// NewTimeLog maps a domain log.
func NewTimeLog(l *domain.TimeLog) TimeLog {
	return TimeLog{
		ID:              l.ID,
		StaffID:         l.StaffID,
		StaffName:       l.StaffName,
		ClientID:        l.ClientID,
		ClientName:      l.ClientName,
		Date:            l.Date.Format(domain.DateLayout),
		StartTime:       l.StartTime.String(),
		EndTime:         l.EndTime.String(),
		DurationMinutes: l.DurationMinutes,
		ServiceType:     l.ServiceType,
		Notes:           l.Notes,
		Status:          l.Status,
		ReviewedBy:      l.ReviewedBy,
		ReviewedAt:      l.ReviewedAt,
		CreatedAt:       l.CreatedAt,
	}
}

// NewTimeLogs maps a slice, never returning nil.
func NewTimeLogs(logs []domain.TimeLog) []TimeLog {
	out := make([]TimeLog, 0, len(logs))
	for i := range logs {
		out = append(out, NewTimeLog(&logs[i]))
	}
	return out
}

// Client response.
type Client struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// NewClients maps clients, never returning nil.
func NewClients(clients []domain.Client) []Client {
	out := make([]Client, 0, len(clients))
	for _, c := range clients {
		out = append(out, Client{
			ID:        c.ID,
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
			Address:   c.Address,
			CreatedAt: c.CreatedAt,
		})
	}
	return out
}
