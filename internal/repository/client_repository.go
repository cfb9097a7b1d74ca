package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/homecare-api/internal/domain"
)

// ClientRepository reads care recipients.
type ClientRepository interface {
	List(ctx context.Context) ([]domain.Client, error)
	GetByID(ctx context.Context, id string) (*domain.Client, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository instantiates the repository.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	const query = `
        SELECT id, first_name, last_name, email, phone, address, created_at
        FROM clients ORDER BY last_name, first_name`

	rows, err := conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *client)
	}
	return result, rows.Err()
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	const query = `
        SELECT id, first_name, last_name, email, phone, address, created_at
        FROM clients WHERE id=$1`
	return scanClient(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var client domain.Client
	if err := row.Scan(
		&client.ID,
		&client.FirstName,
		&client.LastName,
		&client.Email,
		&client.Phone,
		&client.Address,
		&client.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &client, nil
}
