package events

import (
	"time"

	"github.com/spec-kit/homecare-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCareRequestSubmitted EventType = "care_request_submitted"
	EventShiftScheduled       EventType = "shift_scheduled"
	EventShiftStatusChanged   EventType = "shift_status_changed"
	EventApplicationReceived  EventType = "application_received"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID string      `json:"resource_id"`
	ActorID    string      `json:"actor_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// CareRequestSubmittedPayload payload.
type CareRequestSubmittedPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	CareType string `json:"care_type"`
}

// ShiftScheduledPayload payload.
type ShiftScheduledPayload struct {
	StaffID  string `json:"staff_id"`
	ClientID string `json:"client_id"`
	Date     string `json:"date"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

// ShiftStatusChangedPayload payload.
type ShiftStatusChangedPayload struct {
	StaffID   string             `json:"staff_id"`
	OldStatus domain.ShiftStatus `json:"old_status"`
	NewStatus domain.ShiftStatus `json:"new_status"`
}

// ApplicationReceivedPayload payload.
type ApplicationReceivedPayload struct {
	PositionID string `json:"position_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}
