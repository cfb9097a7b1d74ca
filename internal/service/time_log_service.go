package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/homecare-api/internal/auth"
	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/repository"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

const recentTimeLogs = 5

// TimeLogService records caregiver hours and their review.
type TimeLogService struct {
	logs repository.TimeLogRepository
	now  func() time.Time
}

// TimeLogInput is the payload for a new time log.
type TimeLogInput struct {
	ClientID    string
	Date        time.Time
	Start       domain.TimeOfDay
	End         domain.TimeOfDay
	ServiceType string
	Notes       *string
}

// TimeLogListFilter narrows time log listings.
type TimeLogListFilter struct {
	ClientID *string
	Status   *domain.TimeLogStatus
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// NewTimeLogService constructs the service.
func NewTimeLogService(logs repository.TimeLogRepository) *TimeLogService {
	return &TimeLogService{logs: logs, now: time.Now}
}

// Create stores a pending time log for staffID. Duration is derived from the
// start and end times.
func (s *TimeLogService) Create(ctx context.Context, staffID string, input TimeLogInput) (*domain.TimeLog, error) {
	interval := domain.Interval{Start: input.Start, End: input.End}
	if !interval.Valid() {
		return nil, apperrors.NewValidationError("end_time must be after start_time", map[string]any{
			"start_time": input.Start.String(),
			"end_time":   input.End.String(),
		})
	}
	if strings.TrimSpace(input.ClientID) == "" {
		return nil, apperrors.NewValidationError("client_id is required", map[string]any{"field": "client_id"})
	}
	date := domain.TruncateDate(input.Date)
	if date.After(domain.TruncateDate(s.now())) {
		return nil, apperrors.NewValidationError("time cannot be logged for a future date", map[string]any{"field": "date"})
	}

	log := &domain.TimeLog{
		StaffID:         staffID,
		ClientID:        input.ClientID,
		Date:            date,
		StartTime:       input.Start,
		EndTime:         input.End,
		DurationMinutes: interval.Minutes(),
		ServiceType:     strings.TrimSpace(input.ServiceType),
		Notes:           input.Notes,
		Status:          domain.TimeLogStatusPending,
	}
	if err := s.logs.Create(ctx, log); err != nil {
		return nil, storeErr("time log", nil, err)
	}
	return log, nil
}

// ListOwn returns the caller's logs.
func (s *TimeLogService) ListOwn(ctx context.Context, staffID string, filter TimeLogListFilter) ([]domain.TimeLog, error) {
	logs, err := s.logs.List(ctx, repository.TimeLogFilter{
		StaffID:  &staffID,
		ClientID: filter.ClientID,
		Status:   filter.Status,
		From:     filter.From,
		To:       filter.To,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return logs, nil
}

// Recent returns the caller's latest logs.
func (s *TimeLogService) Recent(ctx context.Context, staffID string) ([]domain.TimeLog, error) {
	return s.ListOwn(ctx, staffID, TimeLogListFilter{Limit: recentTimeLogs})
}

// Get returns a log owned by the caller. Admins may read any log; other
// callers get NotFound for logs they do not own.
func (s *TimeLogService) Get(ctx context.Context, caller auth.Identity, id string) (*domain.TimeLog, error) {
	log, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("time log", map[string]any{"id": id}, err)
	}
	if log.StaffID != caller.SubjectID && !caller.IsAdmin() {
		return nil, apperrors.NewNotFound("time log", map[string]any{"id": id})
	}
	return log, nil
}

// Review approves or rejects a log on behalf of reviewerID.
func (s *TimeLogService) Review(ctx context.Context, reviewerID, id string, status domain.TimeLogStatus) (*domain.TimeLog, error) {
	if status != domain.TimeLogStatusApproved && status != domain.TimeLogStatusRejected {
		return nil, apperrors.NewValidationError("status must be approved or rejected", map[string]any{"status": status})
	}
	if err := s.logs.UpdateStatus(ctx, id, status, reviewerID); err != nil {
		return nil, storeErr("time log", map[string]any{"id": id}, err)
	}
	log, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("time log", map[string]any{"id": id}, err)
	}
	return log, nil
}

// Export renders every log in the date range as a spreadsheet.
func (s *TimeLogService) Export(ctx context.Context, from, to *time.Time) (*Workbook, error) {
	logs, err := s.logs.List(ctx, repository.TimeLogFilter{From: from, To: to, Limit: repository.MaxPageSize})
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}

	headers := []string{"Date", "Staff", "Client", "Start", "End", "Minutes", "Service", "Status", "Notes"}
	rows := make([][]any, 0, len(logs))
	for _, log := range logs {
		rows = append(rows, []any{
			log.Date.Format(domain.DateLayout),
			log.StaffName,
			log.ClientName,
			log.StartTime.String(),
			log.EndTime.String(),
			log.DurationMinutes,
			log.ServiceType,
			string(log.Status),
			derefString(log.Notes),
		})
	}
	data, err := buildWorkbook("Time Logs", headers, rows)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Workbook{Filename: exportFilename("time-logs", from, to), Data: data}, nil
}

func exportFilename(prefix string, from, to *time.Time) string {
	name := prefix
	if from != nil {
		name += "-" + from.Format(domain.DateLayout)
	}
	if to != nil {
		name += "-to-" + to.Format(domain.DateLayout)
	}
	return fmt.Sprintf("%s.xlsx", name)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
