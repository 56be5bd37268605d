package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Survey specific errors
	ErrLLMServiceError   ErrorCode = "LLM_SERVICE_ERROR"
	ErrInvalidSurveyJSON ErrorCode = "INVALID_SURVEY_JSON"
	ErrSurveyNotFound    ErrorCode = "SURVEY_NOT_FOUND"
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(ErrLLMServiceError, "Failed to process with LLM service", err)
}

func NewInvalidSurveyJSONError(err error) *DomainError {
	return NewError(ErrInvalidSurveyJSON, "Survey document is not a valid JSON object", err)
}

func NewSurveyNotFoundError(id string) *DomainError {
	return NewError(ErrSurveyNotFound, fmt.Sprintf("Survey not found with ID: %s", id), nil)
}

func NewUnsupportedFormatError(format string) *DomainError {
	return NewError(ErrUnsupportedFormat, fmt.Sprintf("Unsupported export format: %s", format), nil)
}

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects field errors; an empty value means the input is valid.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
