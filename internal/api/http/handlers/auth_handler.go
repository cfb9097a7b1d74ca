package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homecare-api/internal/api/dto"
	"github.com/spec-kit/homecare-api/internal/service"
)

// AuthHandler serves login and account endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, token, expiresAt, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{Token: token, ExpiresAt: expiresAt, User: dto.NewUser(user)})
}

// Me GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	user, err := h.service.Me(c.UserContext(), identity.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUser(user))
}

// ChangePassword POST /api/staff/change-password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.service.ChangePassword(c.UserContext(), identity.SubjectID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "password updated"})
}
