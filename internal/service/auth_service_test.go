package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homecare-api/internal/auth"
	"github.com/spec-kit/homecare-api/internal/config"
	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/repository"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

// MockUserRepository implements repository.UserRepository for testing.
type MockUserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) SetStatus(ctx context.Context, id string, status domain.UserStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func testConfig() config.Config {
	var cfg config.Config
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 60
	cfg.Auth.BcryptCost = 4
	return cfg
}

func newUser(t *testing.T, password string, status domain.UserStatus) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	return &domain.User{
		ID:           "user-1",
		Email:        "nurse@example.com",
		PasswordHash: hash,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Role:         domain.RoleStaff,
		Status:       status,
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := new(MockUserRepository)
	user := newUser(t, "correct-horse", domain.UserStatusActive)
	repo.On("GetByEmail", mock.Anything, "nurse@example.com").Return(user, nil)

	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: repo})
	got, token, exp, err := svc.Login(context.Background(), " nurse@example.com ", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.False(t, exp.IsZero())

	identity, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.SubjectID)
	assert.Equal(t, domain.RoleStaff, identity.Role)
	assert.Equal(t, "Ada Lovelace", identity.Name)
	repo.AssertExpectations(t)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	cases := []struct {
		name  string
		setup func(repo *MockUserRepository)
		pass  string
	}{
		{
			name: "unknown email",
			setup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, pgx.ErrNoRows)
			},
			pass: "whatever-pass",
		},
		{
			name: "wrong password",
			setup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, mock.Anything).Return(newUser(t, "correct-horse", domain.UserStatusActive), nil)
			},
			pass: "battery-staple",
		},
		{
			name: "inactive account",
			setup: func(repo *MockUserRepository) {
				repo.On("GetByEmail", mock.Anything, mock.Anything).Return(newUser(t, "correct-horse", domain.UserStatusInactive), nil)
			},
			pass: "correct-horse",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tc.setup(repo)
			svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: repo})

			_, token, _, err := svc.Login(context.Background(), "nurse@example.com", tc.pass)
			assert.Empty(t, token)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCredentials), "got %v", err)
		})
	}
}

func TestLoginStoreFailure(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: repo})

	_, _, _, err := svc.Login(context.Background(), "nurse@example.com", "whatever-pass")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStoreError))
}

func TestChangePassword(t *testing.T) {
	repo := new(MockUserRepository)
	user := newUser(t, "correct-horse", domain.UserStatusActive)
	repo.On("GetByID", mock.Anything, "user-1").Return(user, nil)
	repo.On("UpdatePassword", mock.Anything, "user-1", mock.MatchedBy(func(hash string) bool {
		return auth.ComparePassword(hash, "new-password-1") == nil
	})).Return(nil).Once()
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: repo})

	err := svc.ChangePassword(context.Background(), "user-1", "wrong-current", "new-password-1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	err = svc.ChangePassword(context.Background(), "user-1", "correct-horse", "short")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	require.NoError(t, svc.ChangePassword(context.Background(), "user-1", "correct-horse", "new-password-1"))
	repo.AssertExpectations(t)
}

func TestMeNotFound(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("GetByID", mock.Anything, "ghost").Return(nil, pgx.ErrNoRows)
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: repo})

	_, err := svc.Me(context.Background(), "ghost")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
