package errorutil

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Error codes surfaced to API clients.
const (
	CodeMissingToken       = "MISSING_TOKEN"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeMalformedClaim     = "MALFORMED_CLAIM"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeScheduleConflict   = "SCHEDULE_CONFLICT"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeConflict           = "CONFLICT"
	CodeNotFound           = "NOT_FOUND"
	CodeValidation         = "VALIDATION_FAILED"
	CodeRateLimited        = "RATE_LIMITED"
	CodeStoreError         = "STORE_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
	pgForeignKey         = "23503"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on code so callers can compare against sentinel instances.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewMissingToken(message string) error {
	return NewDomainError(CodeMissingToken, message, http.StatusUnauthorized, nil)
}

func NewInvalidToken(message string) error {
	return NewDomainError(CodeInvalidToken, message, http.StatusUnauthorized, nil)
}

func NewMalformedClaim(message string) error {
	return NewDomainError(CodeMalformedClaim, message, http.StatusUnauthorized, nil)
}

func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "invalid email or password", http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

// NewScheduleConflict reports the shifts that collide with a proposed interval.
func NewScheduleConflict(shiftIDs []string) error {
	return NewDomainError(CodeScheduleConflict, "staff member already has a shift during this time", http.StatusConflict,
		map[string]any{"conflicting_shift_ids": shiftIDs})
}

func NewInvalidTransition(from, to string) error {
	return NewDomainError(CodeInvalidTransition, fmt.Sprintf("cannot move shift from %s to %s", from, to), http.StatusConflict,
		map[string]any{"from": from, "to": to})
}

// NewFinalShift refuses edits to a cancelled or completed shift.
func NewFinalShift(status string) error {
	return NewDomainError(CodeInvalidTransition, fmt.Sprintf("a %s shift can no longer be changed", status), http.StatusConflict,
		map[string]any{"status": status})
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewRateLimited(retryAfterSeconds int) error {
	return NewDomainError(CodeRateLimited, "too many requests, please try again later", http.StatusTooManyRequests,
		map[string]any{"retry_after_seconds": retryAfterSeconds})
}

// NewStoreError wraps a data-store failure. The cause is logged, never rendered.
func NewStoreError(err error) error {
	return &DomainError{
		Code:       CodeStoreError,
		Message:    "data store error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return NewDomainError(codeForStatus(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return NewNotFound("resource", nil).(*DomainError)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgExclusionViolation:
			return NewScheduleConflict(nil).(*DomainError)
		case pgUniqueViolation:
			return NewConflict("resource already exists", map[string]any{"constraint": pgErr.ConstraintName}).(*DomainError)
		case pgForeignKey:
			return NewValidationError("referenced resource does not exist", map[string]any{"constraint": pgErr.ConstraintName}).(*DomainError)
		}
		return NewStoreError(err).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// HasCode reports whether err carries the given DomainError code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeRateLimited
	}
	if status >= 500 {
		return CodeInternal
	}
	return http.StatusText(status)
}
