package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homecare-api/internal/api/dto"
	"github.com/spec-kit/homecare-api/internal/auth"
	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/service"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

// ScheduleHandler exposes shift booking to admins and shift listings to staff.
type ScheduleHandler struct {
	schedule *service.ScheduleService
	reports  *service.ShiftReportService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(schedule *service.ScheduleService, reports *service.ShiftReportService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule, reports: reports}
}

// List GET /api/schedules.
func (h *ScheduleHandler) List(c *fiber.Ctx) error {
	start, err := optionalDateQuery(c, "start_date")
	if err != nil {
		return err
	}
	end, err := optionalDateQuery(c, "end_date")
	if err != nil {
		return err
	}
	filter := service.ShiftListFilter{
		StartDate: start,
		EndDate:   end,
		StaffID:   optionalQuery(c, "staff_id"),
		ClientID:  optionalQuery(c, "client_id"),
		Limit:     parseIntQuery(c, "limit", 0),
		Offset:    parseIntQuery(c, "offset", 0),
	}
	if status := optionalQuery(c, "status"); status != nil {
		s := domain.ShiftStatus(*status)
		if !s.Valid() {
			return apperrors.NewValidationError("invalid status", map[string]any{"field": "status"})
		}
		filter.Status = &s
	}

	shifts, err := h.schedule.ListShifts(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewShifts(shifts))
}

// Create POST /api/schedules.
func (h *ScheduleHandler) Create(c *fiber.Ctx) error {
	input, err := shiftInput(c)
	if err != nil {
		return err
	}
	shift, err := h.schedule.CreateShift(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewShift(shift))
}

// Update PUT /api/schedules/:id.
func (h *ScheduleHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	input, err := shiftInput(c)
	if err != nil {
		return err
	}
	shift, err := h.schedule.UpdateShift(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewShift(shift))
}

// Cancel POST /api/schedules/:id/cancel.
func (h *ScheduleHandler) Cancel(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	shift, err := h.schedule.CancelShift(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewShift(shift))
}

// Delete DELETE /api/schedules/:id.
func (h *ScheduleHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.schedule.DeleteShift(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Availability GET /api/schedules/availability/:staffId?date=.
func (h *ScheduleHandler) Availability(c *fiber.Ctx) error {
	staffID, err := pathID(c, "staffId")
	if err != nil {
		return err
	}
	date, err := optionalDateQuery(c, "date")
	if err != nil {
		return err
	}
	if date == nil {
		return apperrors.NewValidationError("date is required", map[string]any{"field": "date"})
	}
	shifts, err := h.schedule.Availability(c.UserContext(), staffID, *date)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"staff_id": staffID,
		"date":     date.Format(domain.DateLayout),
		"shifts":   dto.NewShifts(shifts),
	})
}

// Check POST /api/schedules/check.
func (h *ScheduleHandler) Check(c *fiber.Ctx) error {
	var req dto.ConflictCheckRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	date, _ := domain.ParseDate(req.Date)
	start, _ := domain.ParseTimeOfDay(req.StartTime)
	end, _ := domain.ParseTimeOfDay(req.EndTime)

	result, err := h.schedule.CheckConflict(c.UserContext(), req.StaffID, date, start, end, req.ExcludeShiftID)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// MyShifts GET /api/shifts.
func (h *ScheduleHandler) MyShifts(c *fiber.Ctx) error {
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
	shifts, err := h.schedule.ListForStaff(c.UserContext(), identity.SubjectID, from, to)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewShifts(shifts))
}

// GetReport GET /api/shift-reports/:shiftId.
func (h *ScheduleHandler) GetReport(c *fiber.Ctx) error {
	identity, shiftID, err := h.reportTarget(c)
	if err != nil {
		return err
	}
	result, err := h.reports.Get(c.UserContext(), identity, shiftID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"shift": dto.NewShift(result.Shift), "report": dto.NewShiftReport(result.Report)})
}

// SubmitReport POST /api/shift-reports/:shiftId/report.
func (h *ScheduleHandler) SubmitReport(c *fiber.Ctx) error {
	identity, shiftID, err := h.reportTarget(c)
	if err != nil {
		return err
	}
	var req dto.ShiftReportRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	result, err := h.reports.Submit(c.UserContext(), identity, shiftID, service.ShiftReportInput{
		TasksCompleted:  req.TasksCompleted,
		ClientCondition: domain.ClientCondition(req.ClientCondition),
		Notes:           req.Notes,
		Concerns:        req.Concerns,
		FollowUpNeeded:  req.FollowUpNeeded,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"shift": dto.NewShift(result.Shift), "report": dto.NewShiftReport(result.Report)})
}

func (h *ScheduleHandler) reportTarget(c *fiber.Ctx) (auth.Identity, string, error) {
	identity, err := caller(c)
	if err != nil {
		return auth.Identity{}, "", err
	}
	shiftID, err := pathID(c, "shiftId")
	if err != nil {
		return auth.Identity{}, "", err
	}
	return identity, shiftID, nil
}

// shiftInput binds and converts a shift payload. Field formats are already
// checked by the validator, so parse errors cannot occur here.
func shiftInput(c *fiber.Ctx) (service.ShiftInput, error) {
	var req dto.ShiftRequest
	if err := bindJSON(c, &req); err != nil {
		return service.ShiftInput{}, err
	}
	date, _ := domain.ParseDate(req.Date)
	start, _ := domain.ParseTimeOfDay(req.StartTime)
	end, _ := domain.ParseTimeOfDay(req.EndTime)

	input := service.ShiftInput{
		StaffID:           req.StaffID,
		ClientID:          req.ClientID,
		Date:              date,
		Start:             start,
		End:               end,
		Recurring:         req.Recurring,
		RecurrencePattern: req.RecurrencePattern,
		Notes:             req.Notes,
	}
	if req.Status != nil {
		status := domain.ShiftStatus(*req.Status)
		input.Status = &status
	}
	return input, nil
}
