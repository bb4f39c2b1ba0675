package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taskmaster/planner/internal/domain/entities"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json field names so messages match the persisted documents.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "priority", func(fl validator.FieldLevel) bool {
		return entities.Priority(fl.Field().String()).IsValid()
	})
	mustRegister(v, "weekday", func(fl validator.FieldLevel) bool {
		return entities.Weekday(fl.Field().String()).IsValid()
	})
	mustRegister(v, "clock", func(fl validator.FieldLevel) bool {
		_, err := entities.NormalizeClock(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "date", func(fl validator.FieldLevel) bool {
		_, err := entities.ParseDate(fl.Field().String())
		return err == nil
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// validateRequest runs struct validation and converts failures into an
// *entities.ValidationError.
func validateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	verr := &entities.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "priority":
		return "must be one of low, medium, high"
	case "weekday":
		return "must be one of Mon, Tue, Wed, Thu, Fri, Sat, Sun"
	case "clock":
		return "must be a time of day (HH:MM)"
	case "date":
		return "must be a date (YYYY-MM-DD)"
	default:
		return "is invalid"
	}
}

func defaultPriority(p entities.Priority) entities.Priority {
	if p == "" {
		return entities.PriorityMedium
	}
	return p
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	return &s
}
