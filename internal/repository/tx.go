package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type txKey struct{}

// TxManager runs a function inside a database transaction. Repositories
// called with the context passed to fn join that transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type pgTxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager builds a TxManager over pool.
func NewTxManager(pool *pgxpool.Pool) TxManager {
	return &pgTxManager{pool: pool}
}

// WithinTx commits when fn returns nil and rolls back otherwise. Nested calls
// reuse the outer transaction.
func (m *pgTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				err = fmt.Errorf("rollback: %v (original error: %w)", rbErr, err)
			}
		} else if err = tx.Commit(ctx); err != nil {
			err = fmt.Errorf("commit transaction: %w", err)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, tx))
}

// conn returns the transaction bound to ctx, or the pool.
func conn(ctx context.Context, pool *pgxpool.Pool) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}
