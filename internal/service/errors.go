package service

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

// storeErr translates a repository error. Missing rows become NotFound for
// resource; constraint violations keep their specific codes; anything else is
// a StoreError.
func storeErr(resource string, details map[string]any, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, details)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return apperrors.MapError(err)
	}
	return apperrors.NewStoreError(err)
}
