package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homecare-api/internal/api/dto"
	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/service"
)

// CareRequestHandler takes public intake and lets admins triage it.
type CareRequestHandler struct {
	service *service.CareRequestService
}

// NewCareRequestHandler constructs handler.
func NewCareRequestHandler(careRequestService *service.CareRequestService) *CareRequestHandler {
	return &CareRequestHandler{service: careRequestService}
}

// Submit POST /api/care-requests.
func (h *CareRequestHandler) Submit(c *fiber.Ctx) error {
	var req dto.CareRequestRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	start, err := optionalDate(req.PreferredStartDate)
	if err != nil {
		return err
	}
	created, err := h.service.Submit(c.UserContext(), service.CareRequestInput{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		Phone:              req.Phone,
		CareType:           req.CareType,
		PreferredStartDate: start,
		Frequency:          req.Frequency,
		Message:            req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCareRequest(created))
}

// List GET /api/admin/care-requests.
func (h *CareRequestHandler) List(c *fiber.Ctx) error {
	var status *domain.CareRequestStatus
	if v := optionalQuery(c, "status"); v != nil {
		s := domain.CareRequestStatus(*v)
		status = &s
	}
	requests, err := h.service.List(c.UserContext(), status, parseIntQuery(c, "limit", 0), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCareRequests(requests))
}

// UpdateStatus PATCH /api/admin/care-requests/:id/status.
func (h *CareRequestHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.StatusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	updated, err := h.service.UpdateStatus(c.UserContext(), id, domain.CareRequestStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCareRequest(updated))
}
