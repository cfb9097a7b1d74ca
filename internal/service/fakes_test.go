package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/events"
	"github.com/spec-kit/homecare-api/internal/repository"
)

// serialTx runs each unit of work under one mutex, standing in for the
// database lock the real TxManager takes.
type serialTx struct {
	mu    sync.Mutex
	calls int
}

type inTxKey struct{}

func (t *serialTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(inTxKey{}) != nil {
		return fn(ctx)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	return fn(context.WithValue(ctx, inTxKey{}, true))
}

type memShiftRepo struct {
	mu     sync.Mutex
	shifts map[string]domain.Shift
	reads  int
	writes int
	locks  []string
}

var _ repository.ShiftRepository = (*memShiftRepo)(nil)

func newMemShiftRepo(seed ...domain.Shift) *memShiftRepo {
	repo := &memShiftRepo{shifts: map[string]domain.Shift{}}
	for _, shift := range seed {
		repo.shifts[shift.ID] = shift
	}
	return repo
}

func (r *memShiftRepo) LockStaffDay(_ context.Context, staffID string, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locks = append(r.locks, staffID+"|"+date.Format(domain.DateLayout))
	return nil
}

func (r *memShiftRepo) ListActiveForStaffDay(_ context.Context, staffID string, date time.Time, excludeID *string) ([]domain.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	var result []domain.Shift
	for _, shift := range r.shifts {
		if shift.StaffID != staffID || !shift.Date.Equal(date) || shift.Status != domain.ShiftStatusActive {
			continue
		}
		if excludeID != nil && shift.ID == *excludeID {
			continue
		}
		result = append(result, shift)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

func (r *memShiftRepo) Create(_ context.Context, shift *domain.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	shift.ID = uuid.NewString()
	shift.CreatedAt = time.Now()
	shift.UpdatedAt = shift.CreatedAt
	r.shifts[shift.ID] = *shift
	return nil
}

func (r *memShiftRepo) Update(_ context.Context, shift *domain.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shifts[shift.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.writes++
	shift.UpdatedAt = time.Now()
	r.shifts[shift.ID] = *shift
	return nil
}

func (r *memShiftRepo) GetByID(_ context.Context, id string) (*domain.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	shift, ok := r.shifts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &shift, nil
}

func (r *memShiftRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Shift, error) {
	return r.GetByID(ctx, id)
}

func (r *memShiftRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shifts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.shifts, id)
	return nil
}

func (r *memShiftRepo) List(_ context.Context, filter repository.ShiftFilter) ([]domain.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Shift
	for _, shift := range r.shifts {
		if filter.StaffID != nil && shift.StaffID != *filter.StaffID {
			continue
		}
		if filter.Status != nil && shift.Status != *filter.Status {
			continue
		}
		if filter.StartDate != nil && shift.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && shift.Date.After(*filter.EndDate) {
			continue
		}
		result = append(result, shift)
	}
	return result, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, event := range d.events {
		out = append(out, event.Type)
	}
	return out
}

type conflictCounter struct {
	mu sync.Mutex
	n  int
}

func (c *conflictCounter) RecordScheduleConflict() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func mustDate(value string) time.Time {
	d, err := domain.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

func tod(value string) domain.TimeOfDay {
	return domain.MustTimeOfDay(value)
}
