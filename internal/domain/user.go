package domain

import (
	"strings"
	"time"
)

// UserStatus controls whether an account may sign in.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User is an agency account: an administrator or a caregiver.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	Phone        *string
	Status       UserStatus
	Profile      StaffProfile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StaffProfile holds employment details for team members.
type StaffProfile struct {
	Position       *string
	Department     *string
	Qualifications *string
	Certifications *string
	StartDate      *time.Time
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Active reports whether the account may sign in.
func (u *User) Active() bool {
	return u.Status == UserStatusActive
}
