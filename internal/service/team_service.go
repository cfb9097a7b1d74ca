package service

import (
	"context"
	"strings"

	"github.com/spec-kit/homecare-api/internal/auth"
	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/repository"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

// TeamService manages agency accounts.
type TeamService struct {
	users      repository.UserRepository
	bcryptCost int
}

// TeamMemberInput is the editable part of an account.
type TeamMemberInput struct {
	Email     string
	FirstName string
	LastName  string
	Role      domain.Role
	Phone     *string
	Profile   domain.StaffProfile
	// Password is required on create and ignored on update.
	Password string
}

// NewTeamService constructs the service.
func NewTeamService(users repository.UserRepository, bcryptCost int) *TeamService {
	return &TeamService{users: users, bcryptCost: bcryptCost}
}

// List returns accounts, optionally filtered by role and status.
func (s *TeamService) List(ctx context.Context, role *domain.Role, status *domain.UserStatus, limit, offset int) ([]domain.User, error) {
	users, err := s.users.List(ctx, repository.UserFilter{Role: role, Status: status, Limit: limit, Offset: offset})
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// Create adds an active account with a hashed initial password.
func (s *TeamService) Create(ctx context.Context, input TeamMemberInput) (*domain.User, error) {
	if err := validateMember(input); err != nil {
		return nil, err
	}
	if len(input.Password) < auth.MinPasswordLength {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", map[string]any{"field": "password"})
	}
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         input.Role,
		Phone:        input.Phone,
		Status:       domain.UserStatusActive,
		Profile:      input.Profile,
	}
	if user.Profile.StartDate != nil {
		start := domain.TruncateDate(*user.Profile.StartDate)
		user.Profile.StartDate = &start
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeErr("team member", nil, err)
	}
	return user, nil
}

// Update replaces an account's profile. The password is not touched.
func (s *TeamService) Update(ctx context.Context, id string, input TeamMemberInput) (*domain.User, error) {
	if err := validateMember(input); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("team member", map[string]any{"id": id}, err)
	}
	user.Email = strings.TrimSpace(input.Email)
	user.FirstName = strings.TrimSpace(input.FirstName)
	user.LastName = strings.TrimSpace(input.LastName)
	user.Role = input.Role
	user.Phone = input.Phone
	startDate := user.Profile.StartDate
	user.Profile = input.Profile
	user.Profile.StartDate = startDate
	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeErr("team member", map[string]any{"id": id}, err)
	}
	return user, nil
}

// Deactivate blocks future logins without deleting history. Outstanding
// tokens stay valid until they expire.
func (s *TeamService) Deactivate(ctx context.Context, callerID, id string) error {
	if callerID == id {
		return apperrors.NewConflict("you cannot deactivate your own account", nil)
	}
	return storeErr("team member", map[string]any{"id": id}, s.users.SetStatus(ctx, id, domain.UserStatusInactive))
}

func validateMember(input TeamMemberInput) error {
	if !input.Role.Valid() {
		return apperrors.NewValidationError("role must be admin or staff", map[string]any{"field": "role"})
	}
	if strings.TrimSpace(input.Email) == "" {
		return apperrors.NewValidationError("email is required", map[string]any{"field": "email"})
	}
	return nil
}
