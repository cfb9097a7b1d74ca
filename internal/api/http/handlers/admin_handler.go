package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homecare-api/internal/api/dto"
	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/service"
)

// AdminHandler serves the back-office dashboard, reports, team and settings.
type AdminHandler struct {
	admin *service.AdminService
	team  *service.TeamService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService, team *service.TeamService) *AdminHandler {
	return &AdminHandler{admin: admin, team: team}
}

// Dashboard GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.admin.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDashboard(stats))
}

// StaffMetrics GET /api/admin/staff-metrics.
func (h *AdminHandler) StaffMetrics(c *fiber.Ctx) error {
	from, to, err := metricsRange(c)
	if err != nil {
		return err
	}
	rows, err := h.admin.StaffMetrics(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewStaffMetrics(rows))
}

// ExportStaffMetrics GET /api/admin/staff-metrics/export.
func (h *AdminHandler) ExportStaffMetrics(c *fiber.Ctx) error {
	from, to, err := metricsRange(c)
	if err != nil {
		return err
	}
	wb, err := h.admin.ExportStaffMetrics(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return sendWorkbook(c, wb)
}

// Clients GET /api/clients.
func (h *AdminHandler) Clients(c *fiber.Ctx) error {
	clients, err := h.admin.ListClients(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewClients(clients))
}

// Settings GET /api/admin/settings.
func (h *AdminHandler) Settings(c *fiber.Ctx) error {
	settings, err := h.admin.Settings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSettings(settings))
}

// UpdateSettings PUT /api/admin/settings.
func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	var req dto.Settings
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	settings, err := h.admin.UpdateSettings(c.UserContext(), req.Values)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSettings(settings))
}

// ListTeam GET /api/admin/team.
func (h *AdminHandler) ListTeam(c *fiber.Ctx) error {
	var role *domain.Role
	if v := optionalQuery(c, "role"); v != nil {
		r := domain.Role(*v)
		role = &r
	}
	var status *domain.UserStatus
	if v := optionalQuery(c, "status"); v != nil {
		s := domain.UserStatus(*v)
		status = &s
	}
	users, err := h.team.List(c.UserContext(), role, status, parseIntQuery(c, "limit", 0), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	out := make([]dto.User, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUser(&users[i]))
	}
	return c.JSON(out)
}

// CreateTeamMember POST /api/admin/team.
func (h *AdminHandler) CreateTeamMember(c *fiber.Ctx) error {
	input, err := teamMemberInput(c)
	if err != nil {
		return err
	}
	user, err := h.team.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUser(user))
}

// UpdateTeamMember PUT /api/admin/team/:id.
func (h *AdminHandler) UpdateTeamMember(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	input, err := teamMemberInput(c)
	if err != nil {
		return err
	}
	user, err := h.team.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUser(user))
}

// DeactivateTeamMember DELETE /api/admin/team/:id.
func (h *AdminHandler) DeactivateTeamMember(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.team.Deactivate(c.UserContext(), identity.SubjectID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func metricsRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = optionalDateQuery(c, "start_date"); err != nil {
		return nil, nil, err
	}
	if to, err = optionalDateQuery(c, "end_date"); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func teamMemberInput(c *fiber.Ctx) (service.TeamMemberInput, error) {
	var req dto.TeamMemberRequest
	if err := bindJSON(c, &req); err != nil {
		return service.TeamMemberInput{}, err
	}
	startDate, err := optionalDate(req.StartDate)
	if err != nil {
		return service.TeamMemberInput{}, err
	}
	return service.TeamMemberInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.Role(req.Role),
		Phone:     req.Phone,
		Password:  req.Password,
		Profile: domain.StaffProfile{
			Position:       req.Position,
			Department:     req.Department,
			Qualifications: req.Qualifications,
			Certifications: req.Certifications,
			StartDate:      startDate,
		},
	}, nil
}
