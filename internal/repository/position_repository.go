package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/homecare-api/internal/domain"
)

// PositionRepository handles advertised job positions.
type PositionRepository interface {
	Create(ctx context.Context, position *domain.JobPosition) error
	Update(ctx context.Context, position *domain.JobPosition) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.JobPosition, error)
	List(ctx context.Context, activeOnly bool) ([]domain.JobPosition, error)
}

type positionRepository struct {
	pool *pgxpool.Pool
}

// NewPositionRepository instantiates the repository.
func NewPositionRepository(pool *pgxpool.Pool) PositionRepository {
	return &positionRepository{pool: pool}
}

const positionColumns = `id, title, department, employment_type, location, salary, description,
        requirements, benefits, is_active, created_at, updated_at`

func (r *positionRepository) Create(ctx context.Context, position *domain.JobPosition) error {
	const query = `
        INSERT INTO job_positions (title, department, employment_type, location, salary, description, requirements, benefits, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	return conn(ctx, r.pool).QueryRow(ctx, query,
		position.Title,
		position.Department,
		position.EmploymentType,
		position.Location,
		position.Salary,
		position.Description,
		nonNilStrings(position.Requirements),
		nonNilStrings(position.Benefits),
		position.IsActive,
	).Scan(&position.ID, &position.CreatedAt, &position.UpdatedAt)
}

func (r *positionRepository) Update(ctx context.Context, position *domain.JobPosition) error {
	const query = `
        UPDATE job_positions
        SET title=$1, department=$2, employment_type=$3, location=$4, salary=$5, description=$6,
            requirements=$7, benefits=$8, is_active=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`

	return conn(ctx, r.pool).QueryRow(ctx, query,
		position.Title,
		position.Department,
		position.EmploymentType,
		position.Location,
		position.Salary,
		position.Description,
		nonNilStrings(position.Requirements),
		nonNilStrings(position.Benefits),
		position.IsActive,
		position.ID,
	).Scan(&position.UpdatedAt)
}

func (r *positionRepository) Delete(ctx context.Context, id string) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM job_positions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *positionRepository) GetByID(ctx context.Context, id string) (*domain.JobPosition, error) {
	query := `SELECT ` + positionColumns + ` FROM job_positions WHERE id=$1`
	return scanPosition(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *positionRepository) List(ctx context.Context, activeOnly bool) ([]domain.JobPosition, error) {
	query := `SELECT ` + positionColumns + ` FROM job_positions`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.JobPosition
	for rows.Next() {
		position, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *position)
	}
	return result, rows.Err()
}

func scanPosition(row pgx.Row) (*domain.JobPosition, error) {
	var position domain.JobPosition
	if err := row.Scan(
		&position.ID,
		&position.Title,
		&position.Department,
		&position.EmploymentType,
		&position.Location,
		&position.Salary,
		&position.Description,
		&position.Requirements,
		&position.Benefits,
		&position.IsActive,
		&position.CreatedAt,
		&position.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &position, nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
