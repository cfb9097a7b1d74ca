package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/homecare-api/internal/domain"
)

// CareRequestRepository handles intake requests.
type CareRequestRepository interface {
	Create(ctx context.Context, req *domain.CareRequest) error
	GetByID(ctx context.Context, id string) (*domain.CareRequest, error)
	UpdateStatus(ctx context.Context, id string, status domain.CareRequestStatus) error
	List(ctx context.Context, filter CareRequestFilter) ([]domain.CareRequest, error)
}

// CareRequestFilter defines query params for care request listing.
type CareRequestFilter struct {
	Status *domain.CareRequestStatus
	Limit  int
	Offset int
}

type careRequestRepository struct {
	pool *pgxpool.Pool
}

// NewCareRequestRepository instantiates the repository.
func NewCareRequestRepository(pool *pgxpool.Pool) CareRequestRepository {
	return &careRequestRepository{pool: pool}
}

const careRequestColumns = `id, first_name, last_name, email, phone, care_type, preferred_start_date,
        frequency, message, status, created_at, updated_at`

func (r *careRequestRepository) Create(ctx context.Context, req *domain.CareRequest) error {
	const query = `
        INSERT INTO care_requests (first_name, last_name, email, phone, care_type, preferred_start_date, frequency, message, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	return conn(ctx, r.pool).QueryRow(ctx, query,
		req.FirstName,
		req.LastName,
		req.Email,
		req.Phone,
		req.CareType,
		req.PreferredStartDate,
		req.Frequency,
		req.Message,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *careRequestRepository) GetByID(ctx context.Context, id string) (*domain.CareRequest, error) {
	query := `SELECT ` + careRequestColumns + ` FROM care_requests WHERE id=$1`
	return scanCareRequest(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *careRequestRepository) UpdateStatus(ctx context.Context, id string, status domain.CareRequestStatus) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE care_requests SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *careRequestRepository) List(ctx context.Context, filter CareRequestFilter) ([]domain.CareRequest, error) {
	limit, offset := pageBounds(filter.Limit, filter.Offset, 50)
	builder := psql.Select(careRequestColumns).
		From("care_requests").
		OrderBy("created_at DESC").
		Limit(limit).
		Offset(offset)
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": *filter.Status})
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

	var result []domain.CareRequest
	for rows.Next() {
		req, err := scanCareRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	return result, rows.Err()
}

func scanCareRequest(row pgx.Row) (*domain.CareRequest, error) {
	var req domain.CareRequest
	if err := row.Scan(
		&req.ID,
		&req.FirstName,
		&req.LastName,
		&req.Email,
		&req.Phone,
		&req.CareType,
		&req.PreferredStartDate,
		&req.Frequency,
		&req.Message,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}
