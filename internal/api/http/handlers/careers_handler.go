package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/spec-kit/homecare-api/internal/api/dto"
	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/service"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

// CareersHandler serves job positions and applications.
type CareersHandler struct {
	service *service.CareersService
}

// NewCareersHandler constructs handler.
func NewCareersHandler(careersService *service.CareersService) *CareersHandler {
	return &CareersHandler{service: careersService}
}

// ListPositions GET /api/careers/positions (active only) and
// GET /api/admin/positions (all).
func (h *CareersHandler) ListPositions(activeOnly bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		positions, err := h.service.ListPositions(c.UserContext(), activeOnly)
		if err != nil {
			return err
		}
		return c.JSON(dto.NewPositions(positions))
	}
}

// GetPosition GET /api/careers/positions/:id.
func (h *CareersHandler) GetPosition(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	position, err := h.service.GetPosition(c.UserContext(), id, true)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPosition(position))
}

// CreatePosition POST /api/admin/positions.
func (h *CareersHandler) CreatePosition(c *fiber.Ctx) error {
	input, err := positionInput(c)
	if err != nil {
		return err
	}
	position, err := h.service.CreatePosition(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewPosition(position))
}

// UpdatePosition PUT /api/admin/positions/:id.
func (h *CareersHandler) UpdatePosition(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	input, err := positionInput(c)
	if err != nil {
		return err
	}
	position, err := h.service.UpdatePosition(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPosition(position))
}

// DeletePosition DELETE /api/admin/positions/:id.
func (h *CareersHandler) DeletePosition(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeletePosition(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Apply POST /api/careers/applications (multipart).
func (h *CareersHandler) Apply(c *fiber.Ctx) error {
	var form dto.ApplicationForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid form", nil)
	}
	if err := validate.Validate(&form); err != nil {
		return err
	}

	resume, err := readResume(c)
	if err != nil {
		return err
	}
	app, err := h.service.Apply(c.UserContext(), service.ApplicationInput{
		PositionID:  form.PositionID,
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		Phone:       form.Phone,
		CoverLetter: form.CoverLetter,
		Resume:      resume,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewApplication(app))
}

// ListApplications GET /api/admin/applications.
func (h *CareersHandler) ListApplications(c *fiber.Ctx) error {
	var status *domain.ApplicationStatus
	if v := optionalQuery(c, "status"); v != nil {
		s := domain.ApplicationStatus(*v)
		status = &s
	}
	views, err := h.service.ListApplications(c.UserContext(), optionalQuery(c, "position_id"), status,
		parseIntQuery(c, "limit", 0), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewApplicationViews(views))
}

// UpdateApplicationStatus PATCH /api/admin/applications/:id/status.
func (h *CareersHandler) UpdateApplicationStatus(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.StatusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.service.UpdateApplicationStatus(c.UserContext(), id, domain.ApplicationStatus(req.Status)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"id": id, "status": req.Status})
}

func positionInput(c *fiber.Ctx) (service.PositionInput, error) {
	var req dto.PositionRequest
	if err := bindJSON(c, &req); err != nil {
		return service.PositionInput{}, err
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return service.PositionInput{
		Title:          req.Title,
		Department:     req.Department,
		EmploymentType: req.EmploymentType,
		Location:       req.Location,
		Salary:         req.Salary,
		Description:    req.Description,
		Requirements:   req.Requirements,
		Benefits:       req.Benefits,
		IsActive:       active,
	}, nil
}

// readResume returns the optional "resume" file part.
func readResume(c *fiber.Ctx) (*service.ResumeUpload, error) {
	header, err := c.FormFile("resume")
	if errors.Is(err, fasthttp.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewValidationError("invalid resume upload", map[string]any{"field": "resume"})
	}
	file, err := header.Open()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &service.ResumeUpload{Filename: header.Filename, Data: data}, nil
}
