package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/homecare-api/internal/domain"
)

// ShiftReportRepository stores end-of-shift reports, one per shift.
type ShiftReportRepository interface {
	GetByShiftID(ctx context.Context, shiftID string) (*domain.ShiftReport, error)
	Upsert(ctx context.Context, report *domain.ShiftReport) error
}

type shiftReportRepository struct {
	pool *pgxpool.Pool
}

// NewShiftReportRepository instantiates the repository.
func NewShiftReportRepository(pool *pgxpool.Pool) ShiftReportRepository {
	return &shiftReportRepository{pool: pool}
}

func (r *shiftReportRepository) GetByShiftID(ctx context.Context, shiftID string) (*domain.ShiftReport, error) {
	const query = `
        SELECT id, shift_id, staff_id, tasks_completed, client_condition, notes, concerns,
            follow_up_needed, created_at, updated_at
        FROM shift_reports WHERE shift_id=$1`

	var report domain.ShiftReport
	if err := conn(ctx, r.pool).QueryRow(ctx, query, shiftID).Scan(
		&report.ID,
		&report.ShiftID,
		&report.StaffID,
		&report.TasksCompleted,
		&report.ClientCondition,
		&report.Notes,
		&report.Concerns,
		&report.FollowUpNeeded,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *shiftReportRepository) Upsert(ctx context.Context, report *domain.ShiftReport) error {
	const query = `
        INSERT INTO shift_reports (shift_id, staff_id, tasks_completed, client_condition, notes, concerns, follow_up_needed)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (shift_id) DO UPDATE
        SET tasks_completed=EXCLUDED.tasks_completed,
            client_condition=EXCLUDED.client_condition,
            notes=EXCLUDED.notes,
            concerns=EXCLUDED.concerns,
            follow_up_needed=EXCLUDED.follow_up_needed,
            updated_at=NOW()
        RETURNING id, created_at, updated_at`

	tasks := report.TasksCompleted
	if tasks == nil {
		tasks = []domain.TaskEntry{}
	}
	return conn(ctx, r.pool).QueryRow(ctx, query,
		report.ShiftID,
		report.StaffID,
		tasks,
		report.ClientCondition,
		report.Notes,
		report.Concerns,
		report.FollowUpNeeded,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}
