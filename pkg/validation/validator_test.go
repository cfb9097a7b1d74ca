package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

type shiftPayload struct {
	StaffID   string  `json:"staff_id" validate:"required,uuid"`
	Date      string  `json:"date" validate:"required,date"`
	StartTime string  `json:"start_time" validate:"required,timeofday"`
	Status    *string `json:"status" validate:"omitempty,oneof=active cancelled"`
}

func TestValidateAcceptsWellFormedPayload(t *testing.T) {
	v := New()
	err := v.Validate(shiftPayload{
		StaffID:   "7b0c6c1e-3f61-4a3c-9f55-2b8f5d0f7e11",
		Date:      "2024-03-04",
		StartTime: "09:30",
	})
	assert.NoError(t, err)
}

func TestValidateReportsFieldsByWireName(t *testing.T) {
	v := New()
	status := "paused"
	err := v.Validate(shiftPayload{StaffID: "nope", Date: "04/03/2024", StartTime: "25:00", Status: &status})
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, domainErr.Code)
	fields, ok := domainErr.Details["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "must be a UUID", fields["staff_id"])
	assert.Equal(t, "must be a date in YYYY-MM-DD format", fields["date"])
	assert.Equal(t, "must be a time in HH:MM format", fields["start_time"])
	assert.Contains(t, fields["status"], "active cancelled")
}
