package middleware

import (
	"errors"
	"net/http"

	"survey-gen/internal/domain"
	"survey-gen/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Status  int            `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// ValidationErrorResponse lists the offending fields of a rejected request.
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
}

// ErrorHandler turns handler errors into JSON responses. Install it as
// fiber.Config.ErrorHandler.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var validationErrs domain.ValidationErrors
		if errors.As(err, &validationErrs) {
			logFailure(c, http.StatusBadRequest, string(domain.ErrInvalidInput), err)
			return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
				Code:    string(domain.ErrInvalidInput),
				Message: "Request validation failed",
				Status:  http.StatusBadRequest,
				Errors:  validationErrs,
			})
		}

		resp := toErrorResponse(err)
		logFailure(c, resp.Status, resp.Code, err)
		return c.Status(resp.Status).JSON(resp)
	}
}

func toErrorResponse(err error) ErrorResponse {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		resp := ErrorResponse{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Status:  statusForCode(domainErr.Code),
		}
		// Failed generations carry the raw model answer.
		if domainErr.Code == domain.ErrLLMServiceError && domainErr.Err != nil {
			resp.Details = map[string]any{"cause": domainErr.Err.Error()}
		}
		return resp
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ErrorResponse{Code: "HTTP_ERROR", Message: fiberErr.Message, Status: fiberErr.Code}
	}

	return ErrorResponse{
		Code:    string(domain.ErrInternal),
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	}
}

func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.ErrNotFound, domain.ErrSurveyNotFound:
		return http.StatusNotFound
	case domain.ErrInvalidInput, domain.ErrInvalidSurveyJSON, domain.ErrUnsupportedFormat:
		return http.StatusBadRequest
	case domain.ErrLLMServiceError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// logFailure logs client errors at warn and server errors at error level.
func logFailure(c *fiber.Ctx, status int, code string, err error) {
	fields := []zap.Field{
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.String("code", code),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Get().Error("Request failed", fields...)
		return
	}
	logger.Get().Warn("Request rejected", fields...)
}
