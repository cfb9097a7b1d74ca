package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/homecare-api/internal/auth"
	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/repository"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

// ShiftReportService files end-of-shift reports.
type ShiftReportService struct {
	reports  repository.ShiftReportRepository
	shifts   repository.ShiftRepository
	schedule *ScheduleService
	tx       repository.TxManager
	now      func() time.Time
}

// ShiftReportDependencies bundles collaborators for the report service.
type ShiftReportDependencies struct {
	ReportRepo repository.ShiftReportRepository
	ShiftRepo  repository.ShiftRepository
	Schedule   *ScheduleService
	TxManager  repository.TxManager
}

// ShiftReportInput is the report body.
type ShiftReportInput struct {
	TasksCompleted  []domain.TaskEntry
	ClientCondition domain.ClientCondition
	Notes           *string
	Concerns        *string
	FollowUpNeeded  bool
}

// ShiftWithReport pairs a shift with its report, which may be nil.
type ShiftWithReport struct {
	Shift  *domain.Shift
	Report *domain.ShiftReport
}

// NewShiftReportService constructs the service.
func NewShiftReportService(deps ShiftReportDependencies) *ShiftReportService {
	return &ShiftReportService{
		reports:  deps.ReportRepo,
		shifts:   deps.ShiftRepo,
		schedule: deps.Schedule,
		tx:       deps.TxManager,
		now:      time.Now,
	}
}

// Get returns a shift and its report. Staff may only read their own shifts.
func (s *ShiftReportService) Get(ctx context.Context, caller auth.Identity, shiftID string) (*ShiftWithReport, error) {
	shift, err := s.ownedShift(ctx, caller, shiftID)
	if err != nil {
		return nil, err
	}
	report, err := s.reports.GetByShiftID(ctx, shiftID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &ShiftWithReport{Shift: shift}, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return &ShiftWithReport{Shift: shift, Report: report}, nil
}

// Submit upserts the report and marks the shift completed in one
// transaction. Cancelled shifts and shifts that have not started are refused.
func (s *ShiftReportService) Submit(ctx context.Context, caller auth.Identity, shiftID string, input ShiftReportInput) (*ShiftWithReport, error) {
	if input.ClientCondition == "" {
		input.ClientCondition = domain.ClientConditionGood
	}
	if !input.ClientCondition.Valid() {
		return nil, apperrors.NewValidationError("invalid client_condition", map[string]any{"client_condition": input.ClientCondition})
	}
	for i, task := range input.TasksCompleted {
		if strings.TrimSpace(task.Task) == "" {
			return nil, apperrors.NewValidationError("task description is required", map[string]any{"index": i})
		}
	}

	var (
		result    ShiftWithReport
		oldStatus domain.ShiftStatus
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		shift, err := s.ownedShift(ctx, caller, shiftID)
		if err != nil {
			return err
		}
		if shift.Status == domain.ShiftStatusCancelled {
			return apperrors.NewInvalidTransition(string(shift.Status), string(domain.ShiftStatusCompleted))
		}
		if s.now().Before(shift.StartsAt()) {
			return apperrors.NewValidationError("cannot report on a shift that has not started", map[string]any{
				"starts_at": shift.StartsAt(),
			})
		}

		report := &domain.ShiftReport{
			ShiftID:         shift.ID,
			StaffID:         shift.StaffID,
			TasksCompleted:  input.TasksCompleted,
			ClientCondition: input.ClientCondition,
			Notes:           input.Notes,
			Concerns:        input.Concerns,
			FollowUpNeeded:  input.FollowUpNeeded,
		}
		if report.TasksCompleted == nil {
			report.TasksCompleted = []domain.TaskEntry{}
		}
		if err := s.reports.Upsert(ctx, report); err != nil {
			return storeErr("report", nil, err)
		}

		completed, previous, err := s.schedule.applyTransition(ctx, shift.ID, domain.ShiftStatusCompleted)
		if err != nil {
			return err
		}
		oldStatus = previous
		result = ShiftWithReport{Shift: completed, Report: report}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if oldStatus != result.Shift.Status {
		s.schedule.publishStatusChange(ctx, result.Shift, oldStatus)
	}
	return &result, nil
}

func (s *ShiftReportService) ownedShift(ctx context.Context, caller auth.Identity, shiftID string) (*domain.Shift, error) {
	shift, err := s.shifts.GetByID(ctx, shiftID)
	if err != nil {
		return nil, storeErr("shift", map[string]any{"id": shiftID}, err)
	}
	if shift.StaffID != caller.SubjectID && !caller.IsAdmin() {
		return nil, apperrors.NewNotFound("shift", map[string]any{"id": shiftID})
	}
	return shift, nil
}
