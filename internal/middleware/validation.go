package middleware

import (
	"strconv"

	"survey-gen/internal/domain"
	"survey-gen/internal/export"
	"survey-gen/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const defaultListLimit = 20

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: v}
}

// ValidateSurveyID checks the :id path parameter and stores it as "validated_id".
func (vm *ValidationMiddleware) ValidateSurveyID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if errs := vm.validator.ValidateSurveyID(id); len(errs) > 0 {
			return errs
		}
		c.Locals("validated_id", id)
		return c.Next()
	}
}

// ValidateListParams parses ?limit= (default 20) into "validated_limit".
func (vm *ValidationMiddleware) ValidateListParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := defaultListLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return domain.ValidationErrors{{Field: "limit", Message: "must be a number"}}
			}
			limit = n
		}
		if errs := vm.validator.ValidateListLimit(limit); len(errs) > 0 {
			return errs
		}
		c.Locals("validated_limit", limit)
		return c.Next()
	}
}

// ValidateExportFormat parses ?format= (default json) into "validated_format".
func (vm *ValidationMiddleware) ValidateExportFormat() fiber.Handler {
	return func(c *fiber.Ctx) error {
		format, err := export.ParseFormat(c.Query("format", string(export.FormatJSON)))
		if err != nil {
			return err
		}
		c.Locals("validated_format", format)
		return c.Next()
	}
}
