package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homecare-api/internal/api/dto"
	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/service"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

// TimeLogHandler serves caregiver time logs and their admin review.
type TimeLogHandler struct {
	service *service.TimeLogService
}

// NewTimeLogHandler constructs handler.
func NewTimeLogHandler(timeLogService *service.TimeLogService) *TimeLogHandler {
	return &TimeLogHandler{service: timeLogService}
}

// Create POST /api/time-logs.
func (h *TimeLogHandler) Create(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.TimeLogRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	date, _ := domain.ParseDate(req.Date)
	start, _ := domain.ParseTimeOfDay(req.StartTime)
	end, _ := domain.ParseTimeOfDay(req.EndTime)

	log, err := h.service.Create(c.UserContext(), identity.SubjectID, service.TimeLogInput{
		ClientID:    req.ClientID,
		Date:        date,
		Start:       start,
		End:         end,
		ServiceType: req.ServiceType,
		Notes:       req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTimeLog(log))
}

// List GET /api/time-logs.
func (h *TimeLogHandler) List(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	from, err := optionalDateQuery(c, "from")
	if err != nil {
		return err
	}
	to, err := optionalDateQuery(c, "to")
	if err != nil {
		return err
	}
	filter := service.TimeLogListFilter{
		ClientID: optionalQuery(c, "client_id"),
		From:     from,
		To:       to,
		Limit:    parseIntQuery(c, "limit", 0),
		Offset:   parseIntQuery(c, "offset", 0),
	}
	if status := optionalQuery(c, "status"); status != nil {
		s := domain.TimeLogStatus(*status)
		if !s.Valid() {
			return apperrors.NewValidationError("invalid status", map[string]any{"field": "status"})
		}
		filter.Status = &s
	}
	logs, err := h.service.ListOwn(c.UserContext(), identity.SubjectID, filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTimeLogs(logs))
}

// Recent GET /api/time-logs/recent.
func (h *TimeLogHandler) Recent(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	logs, err := h.service.Recent(c.UserContext(), identity.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTimeLogs(logs))
}

// Get GET /api/time-logs/:id.
func (h *TimeLogHandler) Get(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	log, err := h.service.Get(c.UserContext(), identity, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTimeLog(log))
}

// Review PATCH /api/admin/time-logs/:id/status.
func (h *TimeLogHandler) Review(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.StatusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	log, err := h.service.Review(c.UserContext(), identity.SubjectID, id, domain.TimeLogStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTimeLog(log))
}

// Export GET /api/admin/time-logs/export.
func (h *TimeLogHandler) Export(c *fiber.Ctx) error {
	from, err := optionalDateQuery(c, "from")
	if err != nil {
		return err
	}
	to, err := optionalDateQuery(c, "to")
	if err != nil {
		return err
	}
	wb, err := h.service.Export(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return sendWorkbook(c, wb)
}
