package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/homecare-api/internal/domain"
)

// UserRepository handles persistence for agency accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetStatus(ctx context.Context, id string, status domain.UserStatus) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
}

// UserFilter defines query params for user listing.
type UserFilter struct {
	Role   *domain.Role
	Status *domain.UserStatus
	Limit  int
	Offset int
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates the repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, email, password_hash, first_name, last_name, role, phone, status,
        position, department, qualifications, certifications, start_date, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, password_hash, first_name, last_name, role, phone, status,
            position, department, qualifications, certifications, start_date)
        VALUES (LOWER($1),$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,COALESCE($12, CURRENT_DATE))
        RETURNING id, email, start_date, created_at, updated_at`

	return conn(ctx, r.pool).QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
		user.Phone,
		user.Status,
		user.Profile.Position,
		user.Profile.Department,
		user.Profile.Qualifications,
		user.Profile.Certifications,
		user.Profile.StartDate,
	).Scan(&user.ID, &user.Email, &user.Profile.StartDate, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users
        SET email=LOWER($1), first_name=$2, last_name=$3, role=$4, phone=$5, status=$6,
            position=$7, department=$8, qualifications=$9, certifications=$10, updated_at=NOW()
        WHERE id=$11
        RETURNING updated_at`

	return conn(ctx, r.pool).QueryRow(ctx, query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Role,
		user.Phone,
		user.Status,
		user.Profile.Position,
		user.Profile.Department,
		user.Profile.Qualifications,
		user.Profile.Certifications,
		user.ID,
	).Scan(&user.UpdatedAt)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) SetStatus(ctx context.Context, id string, status domain.UserStatus) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE users SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=LOWER($1)`
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, query, email))
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]domain.User, error) {
	limit, offset := pageBounds(filter.Limit, filter.Offset, 100)
	builder := psql.Select(userColumns).
		From("users").
		OrderBy("last_name", "first_name").
		Limit(limit).
		Offset(offset)
	if filter.Role != nil {
		builder = builder.Where(sq.Eq{"role": *filter.Role})
	}
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

	var result []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.Phone,
		&user.Status,
		&user.Profile.Position,
		&user.Profile.Department,
		&user.Profile.Qualifications,
		&user.Profile.Certifications,
		&user.Profile.StartDate,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
