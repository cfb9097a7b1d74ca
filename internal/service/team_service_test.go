package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homecare-api/internal/auth"
	"github.com/spec-kit/homecare-api/internal/domain"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

func TestDeactivateOwnAccountIsRefused(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewTeamService(repo, 4)

	err := svc.Deactivate(context.Background(), "admin-1", "admin-1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	repo.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeactivateTeamMember(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("SetStatus", mock.Anything, "staff-1", domain.UserStatusInactive).Return(nil)
	repo.On("SetStatus", mock.Anything, "ghost", domain.UserStatusInactive).Return(pgx.ErrNoRows)
	svc := NewTeamService(repo, 4)

	require.NoError(t, svc.Deactivate(context.Background(), "admin-1", "staff-1"))

	err := svc.Deactivate(context.Background(), "admin-1", "ghost")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	repo.AssertExpectations(t)
}

func TestCreateTeamMemberHashesPassword(t *testing.T) {
	repo := new(MockUserRepository)
	var stored *domain.User
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.User) }).
		Return(nil)
	svc := NewTeamService(repo, 4)
	start := time.Date(2024, 3, 4, 17, 30, 0, 0, time.UTC)

	user, err := svc.Create(context.Background(), TeamMemberInput{
		Email:     " nurse@example.com ",
		FirstName: "Ada",
		LastName:  "Carer",
		Role:      domain.RoleStaff,
		Password:  "correct-horse",
		Profile:   domain.StaffProfile{StartDate: &start},
	})
	require.NoError(t, err)
	require.Same(t, stored, user)
	assert.Equal(t, "nurse@example.com", user.Email)
	assert.Equal(t, domain.UserStatusActive, user.Status)
	assert.NoError(t, auth.ComparePassword(user.PasswordHash, "correct-horse"))
	require.NotNil(t, user.Profile.StartDate)
	assert.Equal(t, mustDate("2024-03-04"), *user.Profile.StartDate)
}

func TestCreateTeamMemberValidation(t *testing.T) {
	cases := map[string]TeamMemberInput{
		"short password": {Email: "a@b.c", Role: domain.RoleStaff, Password: "short"},
		"unknown role":   {Email: "a@b.c", Role: "owner", Password: "long-enough"},
		"missing email":  {Email: " ", Role: domain.RoleAdmin, Password: "long-enough"},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			repo := new(MockUserRepository)
			_, err := NewTeamService(repo, 4).Create(context.Background(), input)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation), "got %v", err)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateTeamMemberKeepsPasswordAndStartDate(t *testing.T) {
	start := mustDate("2023-01-09")
	existing := &domain.User{
		ID:           "staff-1",
		Email:        "old@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleStaff,
		Status:       domain.UserStatusActive,
		Profile:      domain.StaffProfile{StartDate: &start},
	}
	repo := new(MockUserRepository)
	repo.On("GetByID", mock.Anything, "staff-1").Return(existing, nil)
	repo.On("Update", mock.Anything, existing).Return(nil)
	svc := NewTeamService(repo, 4)

	other := mustDate("2024-06-01")
	user, err := svc.Update(context.Background(), "staff-1", TeamMemberInput{
		Email:    "new@example.com",
		Role:     domain.RoleAdmin,
		Password: "ignored-password",
		Profile:  domain.StaffProfile{StartDate: &other},
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.Equal(t, start, *user.Profile.StartDate)
	repo.AssertExpectations(t)
}
