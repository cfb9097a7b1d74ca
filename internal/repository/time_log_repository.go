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

// TimeLogRepository handles caregiver time logs.
type TimeLogRepository interface {
	Create(ctx context.Context, log *domain.TimeLog) error
	GetByID(ctx context.Context, id string) (*domain.TimeLog, error)
	List(ctx context.Context, filter TimeLogFilter) ([]domain.TimeLog, error)
	UpdateStatus(ctx context.Context, id string, status domain.TimeLogStatus, reviewerID string) error
}

// TimeLogFilter defines query params for time log listing.
type TimeLogFilter struct {
	StaffID  *string
	ClientID *string
	Status   *domain.TimeLogStatus
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

type timeLogRepository struct {
	pool *pgxpool.Pool
}

// NewTimeLogRepository instantiates the repository.
func NewTimeLogRepository(pool *pgxpool.Pool) TimeLogRepository {
	return &timeLogRepository{pool: pool}
}

const timeLogColumns = `t.id, t.staff_id, t.client_id, t.date, t.start_time, t.end_time, t.duration_minutes,
        t.service_type, t.notes, t.status, t.reviewed_by::text, t.reviewed_at, t.created_at,
        COALESCE(c.first_name || ' ' || c.last_name, ''),
        COALESCE(u.first_name || ' ' || u.last_name, '')`

func (r *timeLogRepository) Create(ctx context.Context, log *domain.TimeLog) error {
	const query = `
        INSERT INTO time_logs (staff_id, client_id, date, start_time, end_time, duration_minutes, service_type, notes, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at`

	return conn(ctx, r.pool).QueryRow(ctx, query,
		log.StaffID,
		log.ClientID,
		dateParam(log.Date),
		timeParam(log.StartTime),
		timeParam(log.EndTime),
		log.DurationMinutes,
		log.ServiceType,
		log.Notes,
		log.Status,
	).Scan(&log.ID, &log.CreatedAt)
}

func (r *timeLogRepository) GetByID(ctx context.Context, id string) (*domain.TimeLog, error) {
	query, args, err := r.selectBuilder().Where(sq.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanTimeLog(conn(ctx, r.pool).QueryRow(ctx, query, args...))
}

func (r *timeLogRepository) List(ctx context.Context, filter TimeLogFilter) ([]domain.TimeLog, error) {
	limit, offset := pageBounds(filter.Limit, filter.Offset, 100)
	builder := r.selectBuilder().
		OrderBy("t.date DESC", "t.start_time DESC").
		Limit(limit).
		Offset(offset)
	if filter.StaffID != nil {
		builder = builder.Where(sq.Eq{"t.staff_id": *filter.StaffID})
	}
	if filter.ClientID != nil {
		builder = builder.Where(sq.Eq{"t.client_id": *filter.ClientID})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"t.status": *filter.Status})
	}
	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"t.date": dateParam(*filter.From)})
	}
	if filter.To != nil {
		builder = builder.Where(sq.LtOrEq{"t.date": dateParam(*filter.To)})
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

	var result []domain.TimeLog
	for rows.Next() {
		log, err := scanTimeLog(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *log)
	}
	return result, rows.Err()
}

func (r *timeLogRepository) UpdateStatus(ctx context.Context, id string, status domain.TimeLogStatus, reviewerID string) error {
	const query = `
        UPDATE time_logs SET status=$1, reviewed_by=$2, reviewed_at=NOW()
        WHERE id=$3`
	cmd, err := conn(ctx, r.pool).Exec(ctx, query, status, reviewerID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *timeLogRepository) selectBuilder() sq.SelectBuilder {
	return psql.Select(timeLogColumns).
		From("time_logs t").
		LeftJoin("clients c ON c.id = t.client_id").
		LeftJoin("users u ON u.id = t.staff_id")
}

func scanTimeLog(row pgx.Row) (*domain.TimeLog, error) {
	var (
		log        domain.TimeLog
		start, end pgtype.Time
	)
	if err := row.Scan(
		&log.ID,
		&log.StaffID,
		&log.ClientID,
		&log.Date,
		&start,
		&end,
		&log.DurationMinutes,
		&log.ServiceType,
		&log.Notes,
		&log.Status,
		&log.ReviewedBy,
		&log.ReviewedAt,
		&log.CreatedAt,
		&log.ClientName,
		&log.StaffName,
	); err != nil {
		return nil, err
	}
	log.StartTime = timeOfDay(start)
	log.EndTime = timeOfDay(end)
	return &log, nil
}
