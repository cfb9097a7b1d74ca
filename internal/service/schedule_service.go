package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/homecare-api/internal/auth"
	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/events"
	"github.com/spec-kit/homecare-api/internal/repository"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

// ConflictRecorder counts rejected bookings.
type ConflictRecorder interface {
	RecordScheduleConflict()
}

// ScheduleService books shifts while keeping each staff member's active
// shifts on a date free of overlaps.
type ScheduleService struct {
	shifts     repository.ShiftRepository
	tx         repository.TxManager
	dispatcher events.Dispatcher
	conflicts  ConflictRecorder
	logger     *zap.Logger
}

// ScheduleDependencies bundles collaborators for the schedule service.
type ScheduleDependencies struct {
	ShiftRepo  repository.ShiftRepository
	TxManager  repository.TxManager
	Dispatcher events.Dispatcher
	Conflicts  ConflictRecorder
	Logger     *zap.Logger
}

// ShiftInput carries the editable fields of a shift.
type ShiftInput struct {
	StaffID           string
	ClientID          string
	Date              time.Time
	Start             domain.TimeOfDay
	End               domain.TimeOfDay
	Recurring         bool
	RecurrencePattern *string
	Notes             *string
	// Status is honoured on update only. Nil keeps the current status.
	Status *domain.ShiftStatus
}

// ConflictResult is the outcome of a conflict check. ShiftIDs lists the
// colliding shifts when Conflict is true.
type ConflictResult struct {
	Conflict bool     `json:"conflict"`
	ShiftIDs []string `json:"conflicting_shift_ids"`
}

// ShiftListFilter narrows admin shift listings.
type ShiftListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	StaffID   *string
	ClientID  *string
	Status    *domain.ShiftStatus
	Limit     int
	Offset    int
}

// NewScheduleService constructs the service.
func NewScheduleService(deps ScheduleDependencies) *ScheduleService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		shifts:     deps.ShiftRepo,
		tx:         deps.TxManager,
		dispatcher: deps.Dispatcher,
		conflicts:  deps.Conflicts,
		logger:     logger,
	}
}

// FindConflicts returns the ids of the active shifts in existing that overlap
// proposed. The shift identified by excludeID is never reported.
func FindConflicts(existing []domain.Shift, proposed domain.Interval, excludeID *string) []string {
	ids := []string{}
	for i := range existing {
		shift := &existing[i]
		if shift.Status != domain.ShiftStatusActive {
			continue
		}
		if excludeID != nil && shift.ID == *excludeID {
			continue
		}
		if shift.Interval().Overlaps(proposed) {
			ids = append(ids, shift.ID)
		}
	}
	return ids
}

// CheckConflict reports whether [start, end) collides with an active shift of
// staffID on date. It performs no writes.
func (s *ScheduleService) CheckConflict(ctx context.Context, staffID string, date time.Time, start, end domain.TimeOfDay, excludeID *string) (ConflictResult, error) {
	interval := domain.Interval{Start: start, End: end}
	if err := validateInterval(staffID, interval); err != nil {
		return ConflictResult{}, err
	}
	return s.conflictsFor(ctx, staffID, date, interval, excludeID)
}

func (s *ScheduleService) conflictsFor(ctx context.Context, staffID string, date time.Time, interval domain.Interval, excludeID *string) (ConflictResult, error) {
	existing, err := s.shifts.ListActiveForStaffDay(ctx, staffID, domain.TruncateDate(date), excludeID)
	if err != nil {
		return ConflictResult{}, apperrors.NewStoreError(err)
	}
	ids := FindConflicts(existing, interval, excludeID)
	return ConflictResult{Conflict: len(ids) > 0, ShiftIDs: ids}, nil
}

// CreateShift books a new active shift. The conflict check and the insert run
// in one transaction holding the staff/date lock.
func (s *ScheduleService) CreateShift(ctx context.Context, input ShiftInput) (*domain.Shift, error) {
	interval := domain.Interval{Start: input.Start, End: input.End}
	if err := validateInterval(input.StaffID, interval); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ClientID) == "" {
		return nil, apperrors.NewValidationError("client_id is required", map[string]any{"field": "client_id"})
	}

	shift := &domain.Shift{
		StaffID:           input.StaffID,
		ClientID:          input.ClientID,
		Date:              domain.TruncateDate(input.Date),
		StartTime:         input.Start,
		EndTime:           input.End,
		Status:            domain.ShiftStatusActive,
		Recurring:         input.Recurring,
		RecurrencePattern: input.RecurrencePattern,
		Notes:             input.Notes,
	}
	if identity, ok := auth.IdentityFromContext(ctx); ok {
		shift.CreatedBy = identity.SubjectID
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.shifts.LockStaffDay(ctx, shift.StaffID, shift.Date); err != nil {
			return apperrors.NewStoreError(err)
		}
		result, err := s.conflictsFor(ctx, shift.StaffID, shift.Date, interval, nil)
		if err != nil {
			return err
		}
		if result.Conflict {
			return apperrors.NewScheduleConflict(result.ShiftIDs)
		}
		return storeErr("shift", nil, s.shifts.Create(ctx, shift))
	})
	if err != nil {
		s.observeConflict(err)
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventShiftScheduled,
		ResourceID: shift.ID,
		ActorID:    shift.CreatedBy,
		Payload: events.ShiftScheduledPayload{
			StaffID:  shift.StaffID,
			ClientID: shift.ClientID,
			Date:     shift.Date.Format(domain.DateLayout),
			Start:    shift.StartTime.String(),
			End:      shift.EndTime.String(),
		},
	})
	return shift, nil
}

// UpdateShift replaces the editable fields of a shift. When the shift stays
// active the new window is conflict-checked against every other active shift
// of the same staff member, excluding the shift itself.
func (s *ScheduleService) UpdateShift(ctx context.Context, id string, input ShiftInput) (*domain.Shift, error) {
	interval := domain.Interval{Start: input.Start, End: input.End}
	if err := validateInterval(input.StaffID, interval); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ClientID) == "" {
		return nil, apperrors.NewValidationError("client_id is required", map[string]any{"field": "client_id"})
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
	}
	date := domain.TruncateDate(input.Date)
	mayStayActive := input.Status == nil || *input.Status == domain.ShiftStatusActive

	var (
		updated   *domain.Shift
		oldStatus domain.ShiftStatus
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Staff/date lock first, row lock second, matching CreateShift.
		if mayStayActive {
			if err := s.shifts.LockStaffDay(ctx, input.StaffID, date); err != nil {
				return apperrors.NewStoreError(err)
			}
		}
		current, err := s.shifts.GetByIDForUpdate(ctx, id)
		if err != nil {
			return storeErr("shift", map[string]any{"id": id}, err)
		}
		oldStatus = current.Status
		if current.Status.Terminal() {
			return apperrors.NewFinalShift(string(current.Status))
		}
		next := current.Status
		if input.Status != nil {
			next = *input.Status
		}
		if !current.Status.CanTransitionTo(next) {
			return apperrors.NewInvalidTransition(string(current.Status), string(next))
		}

		current.StaffID = input.StaffID
		current.ClientID = input.ClientID
		current.Date = date
		current.StartTime = input.Start
		current.EndTime = input.End
		current.Recurring = input.Recurring
		current.RecurrencePattern = input.RecurrencePattern
		current.Notes = input.Notes
		current.Status = next

		if next == domain.ShiftStatusActive {
			result, err := s.conflictsFor(ctx, current.StaffID, current.Date, interval, &current.ID)
			if err != nil {
				return err
			}
			if result.Conflict {
				return apperrors.NewScheduleConflict(result.ShiftIDs)
			}
		}
		if err := s.shifts.Update(ctx, current); err != nil {
			return storeErr("shift", map[string]any{"id": id}, err)
		}
		updated = current
		return nil
	})
	if err != nil {
		s.observeConflict(err)
		return nil, err
	}

	if oldStatus != updated.Status {
		s.publishStatusChange(ctx, updated, oldStatus)
	}
	return updated, nil
}

// CancelShift moves an active shift to cancelled. Cancelling a cancelled
// shift is a no-op.
func (s *ScheduleService) CancelShift(ctx context.Context, id string) (*domain.Shift, error) {
	return s.transition(ctx, id, domain.ShiftStatusCancelled)
}

// CompleteShift moves an active shift to completed.
func (s *ScheduleService) CompleteShift(ctx context.Context, id string) (*domain.Shift, error) {
	return s.transition(ctx, id, domain.ShiftStatusCompleted)
}

func (s *ScheduleService) transition(ctx context.Context, id string, next domain.ShiftStatus) (*domain.Shift, error) {
	shift, oldStatus, err := s.applyTransition(ctx, id, next)
	if err != nil {
		return nil, err
	}
	if oldStatus != shift.Status {
		s.publishStatusChange(ctx, shift, oldStatus)
	}
	return shift, nil
}

// applyTransition changes the status without announcing it. A caller that
// joins it to an outer transaction publishes once that transaction commits.
func (s *ScheduleService) applyTransition(ctx context.Context, id string, next domain.ShiftStatus) (*domain.Shift, domain.ShiftStatus, error) {
	var (
		shift     *domain.Shift
		oldStatus domain.ShiftStatus
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.shifts.GetByIDForUpdate(ctx, id)
		if err != nil {
			return storeErr("shift", map[string]any{"id": id}, err)
		}
		oldStatus = current.Status
		if !current.Status.CanTransitionTo(next) {
			return apperrors.NewInvalidTransition(string(current.Status), string(next))
		}
		shift = current
		if current.Status == next {
			return nil
		}
		current.Status = next
		return storeErr("shift", map[string]any{"id": id}, s.shifts.Update(ctx, current))
	})
	if err != nil {
		return nil, "", err
	}
	return shift, oldStatus, nil
}

// DeleteShift physically removes a shift. This is an administrative action
// distinct from cancellation.
func (s *ScheduleService) DeleteShift(ctx context.Context, id string) error {
	return storeErr("shift", map[string]any{"id": id}, s.shifts.Delete(ctx, id))
}

// GetShift fetches a shift with joined names.
func (s *ScheduleService) GetShift(ctx context.Context, id string) (*domain.Shift, error) {
	shift, err := s.shifts.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("shift", map[string]any{"id": id}, err)
	}
	return shift, nil
}

// ListShifts returns shifts matching filter.
func (s *ScheduleService) ListShifts(ctx context.Context, filter ShiftListFilter) ([]domain.Shift, error) {
	shifts, err := s.shifts.List(ctx, repository.ShiftFilter{
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		StaffID:   filter.StaffID,
		ClientID:  filter.ClientID,
		Status:    filter.Status,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	})
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return shifts, nil
}

// ListForStaff returns a staff member's own shifts between from and to.
func (s *ScheduleService) ListForStaff(ctx context.Context, staffID string, from, to *time.Time) ([]domain.Shift, error) {
	return s.ListShifts(ctx, ShiftListFilter{StaffID: &staffID, StartDate: from, EndDate: to})
}

// Availability returns the active shifts already booked for staffID on date.
func (s *ScheduleService) Availability(ctx context.Context, staffID string, date time.Time) ([]domain.Shift, error) {
	if strings.TrimSpace(staffID) == "" {
		return nil, apperrors.NewValidationError("staff_id is required", map[string]any{"field": "staff_id"})
	}
	shifts, err := s.shifts.ListActiveForStaffDay(ctx, staffID, domain.TruncateDate(date), nil)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return shifts, nil
}

func validateInterval(staffID string, interval domain.Interval) error {
	if strings.TrimSpace(staffID) == "" {
		return apperrors.NewValidationError("staff_id is required", map[string]any{"field": "staff_id"})
	}
	if !interval.Valid() {
		return apperrors.NewValidationError("end_time must be after start_time on the same day", map[string]any{
			"start_time": interval.Start.String(),
			"end_time":   interval.End.String(),
		})
	}
	return nil
}

func (s *ScheduleService) observeConflict(err error) {
	if s.conflicts != nil && apperrors.HasCode(err, apperrors.CodeScheduleConflict) {
		s.conflicts.RecordScheduleConflict()
	}
}

func (s *ScheduleService) publishStatusChange(ctx context.Context, shift *domain.Shift, oldStatus domain.ShiftStatus) {
	s.publishEvent(ctx, events.Event{
		Type:       events.EventShiftStatusChanged,
		ResourceID: shift.ID,
		ActorID:    actorID(ctx),
		Payload: events.ShiftStatusChangedPayload{
			StaffID:   shift.StaffID,
			OldStatus: oldStatus,
			NewStatus: shift.Status,
		},
	})
}

func (s *ScheduleService) publishEvent(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.logger, event)
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := dispatcher.Publish(ctx, event); err != nil && logger != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func actorID(ctx context.Context) string {
	if identity, ok := auth.IdentityFromContext(ctx); ok {
		return identity.SubjectID
	}
	return ""
}
