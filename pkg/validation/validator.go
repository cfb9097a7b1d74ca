package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/homecare-api/internal/domain"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

// Validator wraps go-playground/validator with the API's custom rules and
// renders failures as VALIDATION_FAILED errors keyed by wire field name.
type Validator struct {
	validator *validator.Validate
}

// New builds the validator. It panics if a rule fails to register, since the
// server must not start with a partial rule set.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(wireName)

	if err := registerRules(v); err != nil {
		panic("register validation rules: " + err.Error())
	}
	return &Validator{validator: v}
}

// Validate checks i against its validate tags.
func (v *Validator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	fields := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = describe(fe)
	}
	return apperrors.NewValidationError("validation failed", map[string]any{"fields": fields})
}

func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
}

func wireName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form", "query"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a UUID"
	case "date":
		return "must be a date in YYYY-MM-DD format"
	case "timeofday":
		return "must be a time in HH:MM format"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "url":
		return "must be a URL"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
