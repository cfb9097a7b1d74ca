package dto

import (
	"time"

	"github.com/spec-kit/homecare-api/internal/domain"
)

// Dashboard response.
type Dashboard struct {
	TotalClients        int           `json:"total_clients"`
	TotalStaff          int           `json:"total_staff"`
	PendingCareRequests int           `json:"pending_care_requests"`
	ShiftsToday         int           `json:"shifts_today"`
	RecentCareRequests  []CareRequest `json:"recent_care_requests"`
}

// NewDashboard maps dashboard stats.
func NewDashboard(s *domain.DashboardStats) Dashboard {
	return Dashboard{
		TotalClients:        s.TotalClients,
		TotalStaff:          s.TotalStaff,
		PendingCareRequests: s.PendingCareRequests,
		ShiftsToday:         s.ShiftsToday,
		RecentCareRequests:  NewCareRequests(s.RecentCareRequests),
	}
}

// StaffMetric is one caregiver's row in the metrics report.
type StaffMetric struct {
	StaffID            string  `json:"staff_id"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	TotalLogs          int     `json:"total_logs"`
	UniqueClients      int     `json:"unique_clients"`
	TotalMinutes       int     `json:"total_minutes"`
	TotalHours         float64 `json:"total_hours"`
	ApprovedLogs       int     `json:"approved_logs"`
	RejectedLogs       int     `json:"rejected_logs"`
	AvgApprovedMinutes float64 `json:"avg_approved_minutes"`
}

// NewStaffMetrics maps metrics rows, never returning nil.
func NewStaffMetrics(rows []domain.StaffMetrics) []StaffMetric {
	out := make([]StaffMetric, 0, len(rows))
	for _, m := range rows {
		out = append(out, StaffMetric{
			StaffID:            m.StaffID,
			FirstName:          m.FirstName,
			LastName:           m.LastName,
			TotalLogs:          m.TotalLogs,
			UniqueClients:      m.UniqueClients,
			TotalMinutes:       m.TotalMinutes,
			TotalHours:         float64(m.TotalMinutes) / 60,
			ApprovedLogs:       m.ApprovedLogs,
			RejectedLogs:       m.RejectedLogs,
			AvgApprovedMinutes: m.AvgApprovedMinutes,
		})
	}
	return out
}

// Settings response and request body.
type Settings struct {
	Values    map[string]any `json:"values" validate:"required"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}

// NewSettings maps the settings document.
func NewSettings(s *domain.Settings) Settings {
	values := s.Values
	if values == nil {
		values = map[string]any{}
	}
	out := Settings{Values: values}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}
