package dto

import (
	"time"

	"github.com/spec-kit/homecare-api/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// User is the public view of an account.
type User struct {
	ID             string            `json:"id"`
	Email          string            `json:"email"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Role           domain.Role       `json:"role"`
	Phone          *string           `json:"phone"`
	Status         domain.UserStatus `json:"status"`
	Position       *string           `json:"position"`
	Department     *string           `json:"department"`
	Qualifications *string           `json:"qualifications"`
	Certifications *string           `json:"certifications"`
	StartDate      *string           `json:"start_date"`
	CreatedAt      time.Time         `json:"created_at"`
}

// NewUser maps a domain user, dropping the password hash.
func NewUser(u *domain.User) User {
	out := User{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           u.Role,
		Phone:          u.Phone,
		Status:         u.Status,
		Position:       u.Profile.Position,
		Department:     u.Profile.Department,
		Qualifications: u.Profile.Qualifications,
		Certifications: u.Profile.Certifications,
		CreatedAt:      u.CreatedAt,
	}
	if u.Profile.StartDate != nil {
		d := u.Profile.StartDate.Format(domain.DateLayout)
		out.StartDate = &d
	}
	return out
}

// TeamMemberRequest payload for creating or updating an account.
type TeamMemberRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"omitempty,min=8"`
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	Role           string  `json:"role" validate:"required,oneof=admin staff"`
	Phone          *string `json:"phone" validate:"omitempty,max=40"`
	Position       *string `json:"position"`
	Department     *string `json:"department"`
	Qualifications *string `json:"qualifications"`
	Certifications *string `json:"certifications"`
	StartDate      *string `json:"start_date" validate:"omitempty,date"`
}
