package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/homecare-api/internal/domain"
)

// ApplicationRepository handles job applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.JobApplication) error
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error
	List(ctx context.Context, filter ApplicationFilter) ([]domain.JobApplication, error)
}

// ApplicationFilter defines query params for application listing.
type ApplicationFilter struct {
	PositionID *string
	Status     *domain.ApplicationStatus
	Limit      int
	Offset     int
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository instantiates the repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.JobApplication) error {
	const query = `
        INSERT INTO job_applications (position_id, first_name, last_name, email, phone, resume_key, cover_letter, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`

	return conn(ctx, r.pool).QueryRow(ctx, query,
		app.PositionID,
		app.FirstName,
		app.LastName,
		app.Email,
		app.Phone,
		app.ResumeKey,
		app.CoverLetter,
		app.Status,
	).Scan(&app.ID, &app.CreatedAt)
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `UPDATE job_applications SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]domain.JobApplication, error) {
	limit, offset := pageBounds(filter.Limit, filter.Offset, 100)
	builder := psql.Select("a.id", "a.position_id", "COALESCE(p.title, '')", "a.first_name", "a.last_name",
		"a.email", "a.phone", "a.resume_key", "a.cover_letter", "a.status", "a.created_at").
		From("job_applications a").
		LeftJoin("job_positions p ON p.id = a.position_id").
		OrderBy("a.created_at DESC").
		Limit(limit).
		Offset(offset)
	if filter.PositionID != nil {
		builder = builder.Where(sq.Eq{"a.position_id": *filter.PositionID})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"a.status": *filter.Status})
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

	var result []domain.JobApplication
	for rows.Next() {
		var app domain.JobApplication
		if err := rows.Scan(
			&app.ID,
			&app.PositionID,
			&app.PositionTitle,
			&app.FirstName,
			&app.LastName,
			&app.Email,
			&app.Phone,
			&app.ResumeKey,
			&app.CoverLetter,
			&app.Status,
			&app.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	return result, rows.Err()
}
