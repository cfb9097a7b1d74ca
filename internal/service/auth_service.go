package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/homecare-api/internal/auth"
	"github.com/spec-kit/homecare-api/internal/config"
	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/repository"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

// AuthService coordinates login and password flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	// TokenManager overrides the manager built from config.
	TokenManager *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	tokenMgr := deps.TokenManager
	if tokenMgr == nil {
		tokenMgr = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   tokenMgr,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Login authenticates an account and returns a signed token. Unknown emails,
// inactive accounts and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewStoreError(err)
	}
	if !user.Active() {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.Issue(auth.Identity{
		SubjectID: user.ID,
		Role:      user.Role,
		Email:     user.Email,
		Name:      user.FullName(),
	})
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < auth.MinPasswordLength {
		return apperrors.NewValidationError("new password must be at least 8 characters", map[string]any{"field": "new_password"})
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return storeErr("user", map[string]any{"id": userID}, err)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewValidationError("current password is incorrect", map[string]any{"field": "current_password"})
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return storeErr("user", map[string]any{"id": userID}, s.users.UpdatePassword(ctx, userID, hash))
}

// Me returns the account behind an identity.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr("user", map[string]any{"id": userID}, err)
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
