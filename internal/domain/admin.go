package domain

import "time"

// DashboardStats summarizes agency activity for the admin home page.
type DashboardStats struct {
	TotalClients        int
	TotalStaff          int
	PendingCareRequests int
	ShiftsToday         int
	RecentCareRequests  []CareRequest
}

// StaffMetrics aggregates a caregiver's time logs over a period.
type StaffMetrics struct {
	StaffID            string
	FirstName          string
	LastName           string
	TotalLogs          int
	UniqueClients      int
	TotalMinutes       int
	ApprovedLogs       int
	RejectedLogs       int
	AvgApprovedMinutes float64
}

// Settings is the agency-wide configuration document edited by admins.
type Settings struct {
	Values    map[string]any
	UpdatedAt time.Time
}
