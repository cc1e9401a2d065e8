package controllers

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// registerValidators adds the custom tags used by the request models to
// gin's validator engine. A request model with an unregistered tag panics
// on its first bind, so failures are returned to the constructor.
func registerValidators() error {
	registerOnce.Do(func() {
		registerErr = registerTags(binding.Validator.Engine())
	})
	return registerErr
}

func registerTags(engine any) error {
	v, ok := engine.(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", engine)
	}
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		return fmt.Errorf("register notblank: %w", err)
	}
	return nil
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// describe renders validation errors as "field: rule" pairs.
func describe(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "notblank":
			parts = append(parts, field+" must not be blank")
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be >= %s", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
