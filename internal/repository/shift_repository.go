package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/homecare-api/internal/domain"
)

// ShiftRepository handles persistence for scheduled shifts.
type ShiftRepository interface {
	// LockStaffDay serializes writers for one staff member and date until the
	// surrounding transaction ends.
	LockStaffDay(ctx context.Context, staffID string, date time.Time) error
	// ListActiveForStaffDay returns active shifts on date, skipping excludeID.
	// Inside a transaction the returned rows are locked FOR UPDATE.
	ListActiveForStaffDay(ctx context.Context, staffID string, date time.Time, excludeID *string) ([]domain.Shift, error)
	Create(ctx context.Context, shift *domain.Shift) error
	Update(ctx context.Context, shift *domain.Shift) error
	GetByID(ctx context.Context, id string) (*domain.Shift, error)
	// GetByIDForUpdate locks the row for the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Shift, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ShiftFilter) ([]domain.Shift, error)
}

// ShiftFilter defines query params for shift listing.
type ShiftFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	StaffID   *string
	ClientID  *string
	Status    *domain.ShiftStatus
	Limit     int
	Offset    int
}

type shiftRepository struct {
	pool *pgxpool.Pool
}

// NewShiftRepository instantiates the repository.
func NewShiftRepository(pool *pgxpool.Pool) ShiftRepository {
	return &shiftRepository{pool: pool}
}

const shiftColumns = `s.id, s.staff_id, s.client_id, s.date, s.start_time, s.end_time, s.status,
        s.recurring, s.recurrence_pattern, s.notes, COALESCE(s.created_by::text, ''), s.created_at, s.updated_at`

func (r *shiftRepository) LockStaffDay(ctx context.Context, staffID string, date time.Time) error {
	const query = `SELECT pg_advisory_xact_lock(hashtextextended($1::text || '|' || $2::date::text, 0))`
	_, err := conn(ctx, r.pool).Exec(ctx, query, staffID, dateParam(date))
	return err
}

func (r *shiftRepository) ListActiveForStaffDay(ctx context.Context, staffID string, date time.Time, excludeID *string) ([]domain.Shift, error) {
	query := `
        SELECT ` + shiftColumns + `
        FROM schedules s
        WHERE s.staff_id = $1 AND s.date = $2 AND s.status = 'active'
          AND ($3::uuid IS NULL OR s.id <> $3::uuid)
        ORDER BY s.start_time`
	if _, inTx := ctx.Value(txKey{}).(pgx.Tx); inTx {
		query += " FOR UPDATE"
	}

	rows, err := conn(ctx, r.pool).Query(ctx, query, staffID, dateParam(date), excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Shift
	for rows.Next() {
		shift, err := scanShift(rows, false)
		if err != nil {
			return nil, err
		}
		result = append(result, *shift)
	}
	return result, rows.Err()
}

func (r *shiftRepository) Create(ctx context.Context, shift *domain.Shift) error {
	const query = `
        INSERT INTO schedules (staff_id, client_id, date, start_time, end_time, status, recurring, recurrence_pattern, notes, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NULLIF($10, '')::uuid)
        RETURNING id, created_at, updated_at`

	return conn(ctx, r.pool).QueryRow(ctx, query,
		shift.StaffID,
		shift.ClientID,
		dateParam(shift.Date),
		timeParam(shift.StartTime),
		timeParam(shift.EndTime),
		shift.Status,
		shift.Recurring,
		shift.RecurrencePattern,
		shift.Notes,
		shift.CreatedBy,
	).Scan(&shift.ID, &shift.CreatedAt, &shift.UpdatedAt)
}

func (r *shiftRepository) Update(ctx context.Context, shift *domain.Shift) error {
	const query = `
        UPDATE schedules
        SET staff_id=$1, client_id=$2, date=$3, start_time=$4, end_time=$5, status=$6,
            recurring=$7, recurrence_pattern=$8, notes=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`

	err := conn(ctx, r.pool).QueryRow(ctx, query,
		shift.StaffID,
		shift.ClientID,
		dateParam(shift.Date),
		timeParam(shift.StartTime),
		timeParam(shift.EndTime),
		shift.Status,
		shift.Recurring,
		shift.RecurrencePattern,
		shift.Notes,
		shift.ID,
	).Scan(&shift.UpdatedAt)
	return err
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	return r.getByID(ctx, id, false)
}

func (r *shiftRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Shift, error) {
	return r.getByID(ctx, id, true)
}

func (r *shiftRepository) getByID(ctx context.Context, id string, lock bool) (*domain.Shift, error) {
	query := `
        SELECT ` + shiftColumns + `,
            COALESCE(u.first_name || ' ' || u.last_name, ''),
            COALESCE(c.first_name || ' ' || c.last_name, '')
        FROM schedules s
        LEFT JOIN users u ON u.id = s.staff_id
        LEFT JOIN clients c ON c.id = s.client_id
        WHERE s.id = $1`
	if lock {
		query += " FOR UPDATE OF s"
	}
	return scanShift(conn(ctx, r.pool).QueryRow(ctx, query, id), true)
}

func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM schedules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *shiftRepository) List(ctx context.Context, filter ShiftFilter) ([]domain.Shift, error) {
	limit, offset := pageBounds(filter.Limit, filter.Offset, 200)
	builder := psql.Select(shiftColumns,
		"COALESCE(u.first_name || ' ' || u.last_name, '')",
		"COALESCE(c.first_name || ' ' || c.last_name, '')").
		From("schedules s").
		LeftJoin("users u ON u.id = s.staff_id").
		LeftJoin("clients c ON c.id = s.client_id").
		OrderBy("s.date", "s.start_time").
		Limit(limit).
		Offset(offset)

	if filter.StartDate != nil {
		builder = builder.Where(sq.GtOrEq{"s.date": dateParam(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		builder = builder.Where(sq.LtOrEq{"s.date": dateParam(*filter.EndDate)})
	}
	if filter.StaffID != nil {
		builder = builder.Where(sq.Eq{"s.staff_id": *filter.StaffID})
	}
	if filter.ClientID != nil {
		builder = builder.Where(sq.Eq{"s.client_id": *filter.ClientID})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"s.status": *filter.Status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Shift
	for rows.Next() {
		shift, err := scanShift(rows, true)
		if err != nil {
			return nil, err
		}
		result = append(result, *shift)
	}
	return result, rows.Err()
}

func scanShift(row pgx.Row, withNames bool) (*domain.Shift, error) {
	var (
		shift      domain.Shift
		start, end pgtype.Time
	)
	dest := []any{
		&shift.ID,
		&shift.StaffID,
		&shift.ClientID,
		&shift.Date,
		&start,
		&end,
		&shift.Status,
		&shift.Recurring,
		&shift.RecurrencePattern,
		&shift.Notes,
		&shift.CreatedBy,
		&shift.CreatedAt,
		&shift.UpdatedAt,
	}
	if withNames {
		dest = append(dest, &shift.StaffName, &shift.ClientName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	shift.StartTime = timeOfDay(start)
	shift.EndTime = timeOfDay(end)
	return &shift, nil
}
