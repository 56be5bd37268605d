package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"survey-gen/internal/domain"
	"survey-gen/internal/i18n"

	"github.com/go-playground/validator/v10"
)

// ULID is 26 characters of Crockford's Base32.
var ulidPattern = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

// Validator checks generation requests and surveys. It holds no mutable state
// after construction and is safe for concurrent use.
type Validator struct {
	structs *validator.Validate
	catalog *i18n.Catalog
}

// NewValidator creates a validator whose issue messages come from catalog.
// A nil catalog yields English messages.
func NewValidator(catalog *i18n.Catalog) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("survey_standard", func(fl validator.FieldLevel) bool {
		s := domain.Standard(fl.Field().String())
		for _, known := range domain.Standards {
			if s == known {
				return true
			}
		}
		return false
	})
	return &Validator{structs: v, catalog: catalog}
}

// ValidateGenerationConfig checks ranges and enumerations of a generation config.
func (v *Validator) ValidateGenerationConfig(cfg *domain.GenerationConfig) domain.ValidationErrors {
	if cfg == nil {
		return domain.ValidationErrors{{Field: "config", Message: "is required"}}
	}
	return v.validateStruct(cfg)
}

// ValidateStruct applies `validate` tags of any request struct.
func (v *Validator) ValidateStruct(s any) domain.ValidationErrors {
	return v.validateStruct(s)
}

func (v *Validator) validateStruct(s any) domain.ValidationErrors {
	err := v.structs.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ValidationErrors{{Field: "request", Message: err.Error()}}
	}
	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, domain.ValidationError{Field: fieldPath(fe), Message: describeTag(fe)})
	}
	return out
}

// ValidateSurveyID checks that id is a ULID.
func (v *Validator) ValidateSurveyID(id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{{Field: "id", Message: "is required"}}
	}
	if !ulidPattern.MatchString(id) {
		return domain.ValidationErrors{{Field: "id", Message: fmt.Sprintf("invalid format: %q", id)}}
	}
	return nil
}

// ValidateListLimit checks the page size of survey listings.
func (v *Validator) ValidateListLimit(limit int) domain.ValidationErrors {
	if limit < 1 || limit > 100 {
		return domain.ValidationErrors{{Field: "limit", Message: fmt.Sprintf("must be between 1 and 100, got %d", limit)}}
	}
	return nil
}

// fieldPath drops the top-level struct name: "GenerationConfig.sections" -> "sections".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	case "survey_standard":
		return fmt.Sprintf("unknown standard %v", fe.Value())
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}
