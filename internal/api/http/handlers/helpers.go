package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/homecare-api/internal/auth"
	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/service"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
	"github.com/spec-kit/homecare-api/pkg/validation"
)

var validate = validation.New()

// bindJSON parses the request body into req and validates it.
func bindJSON(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return validate.Validate(req)
}

// caller returns the authenticated identity. Routes using it sit behind the gate.
func caller(c *fiber.Ctx) (auth.Identity, error) {
	identity, ok := auth.CurrentIdentity(c)
	if !ok {
		return auth.Identity{}, apperrors.NewMissingToken("authentication required")
	}
	return identity, nil
}

// pathID reads a UUID path parameter.
func pathID(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.NewValidationError("invalid id", map[string]any{"field": name})
	}
	return id, nil
}

func parseIntQuery(c *fiber.Ctx, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return fallback
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	return &v
}

func optionalDateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	v := optionalQuery(c, key)
	if v == nil {
		return nil, nil
	}
	d, err := domain.ParseDate(*v)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date", map[string]any{"field": key})
	}
	return &d, nil
}

func optionalDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(*value)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	return &d, nil
}

// sendWorkbook writes an XLSX attachment.
func sendWorkbook(c *fiber.Ctx, wb *service.Workbook) error {
	c.Set(fiber.HeaderContentType, service.XLSXContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+wb.Filename+`"`)
	return c.Send(wb.Data)
}
