package handler

import (
	"survey-gen/internal/domain"
	"survey-gen/internal/dto"
	"survey-gen/internal/export"
	"survey-gen/internal/logger"
	"survey-gen/internal/middleware"
	"survey-gen/internal/service"
	"survey-gen/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SurveyHandler handles survey-related HTTP requests
type SurveyHandler struct {
	service   service.SurveyService
	validator *validation.Validator
}

func NewSurveyHandler(service service.SurveyService, validator *validation.Validator) *SurveyHandler {
	return &SurveyHandler{service: service, validator: validator}
}

// GenerateOutline godoc
// @Summary Generate a question outline
// @Tags surveys
// @Accept json
// @Produce json
// @Param config body domain.GenerationConfig true "Generation config"
// @Success 200 {object} dto.OutlineResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /surveys/outline [post]
func (h *SurveyHandler) GenerateOutline(c *fiber.Ctx) error {
	var cfg domain.GenerationConfig
	if err := c.BodyParser(&cfg); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	outline, err := h.service.GenerateOutline(c.UserContext(), &cfg)
	if err != nil {
		return err
	}
	return c.JSON(dto.OutlineResponse{Outline: outline})
}

// GenerateSurvey godoc
// @Summary Generate a full survey from an outline
// @Tags surveys
// @Accept json
// @Produce json
// @Param request body dto.GenerateSurveyRequest true "Config and outline"
// @Success 201 {object} dto.SurveyResponse
// @Router /surveys [post]
func (h *SurveyHandler) GenerateSurvey(c *fiber.Ctx) error {
	var req dto.GenerateSurveyRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateStruct(&req); len(errs) > 0 {
		return errs
	}
	result, err := h.service.GenerateSurvey(c.UserContext(), &req.Config, req.Outline)
	if err != nil {
		return err
	}
	logger.Get().Info("Survey generated",
		zap.String("id", result.ID),
		zap.Int("issues", len(result.Issues)),
		zap.Bool("cached", result.Cached))
	return c.Status(fiber.StatusCreated).JSON(dto.NewSurveyResponse(result))
}

// ValidateSurvey godoc
// @Summary Check the consistency of a survey document
// @Tags surveys
// @Accept json
// @Produce json
// @Success 200 {object} dto.SurveyResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /surveys/validate [post]
func (h *SurveyHandler) ValidateSurvey(c *fiber.Ctx) error {
	result, err := h.service.ValidateSurvey(c.Body())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSurveyResponse(result))
}

// ListSurveys handles GET /api/surveys
func (h *SurveyHandler) ListSurveys(c *fiber.Ctx) error {
	limit, _ := c.Locals("validated_limit").(int)
	surveys, err := h.service.ListSurveys(c.UserContext(), limit)
	if err != nil {
		return err
	}
	resp := dto.SurveyListResponse{Surveys: make([]dto.StoredSurveySummary, 0, len(surveys))}
	for _, s := range surveys {
		resp.Surveys = append(resp.Surveys, dto.NewStoredSurveySummary(s))
	}
	resp.Count = len(resp.Surveys)
	return c.JSON(resp)
}

// GetSurvey handles GET /api/surveys/:id
func (h *SurveyHandler) GetSurvey(c *fiber.Ctx) error {
	id, _ := c.Locals("validated_id").(string)
	stored, err := h.service.GetSurvey(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.StoredSurveyResponse{
		StoredSurveySummary: dto.NewStoredSurveySummary(stored),
		Survey:              stored.Survey,
	})
}

// ExportSurvey handles GET /api/surveys/:id/export?format=json|xlsx|csv
func (h *SurveyHandler) ExportSurvey(c *fiber.Ctx) error {
	id, _ := c.Locals("validated_id").(string)
	format, _ := c.Locals("validated_format").(export.Format)
	data, err := h.service.ExportSurvey(c.UserContext(), id, format)
	if err != nil {
		return err
	}
	c.Attachment(format.FileName())
	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Send(data)
}

// RegisterRoutes mounts the survey routes under router.
func (h *SurveyHandler) RegisterRoutes(router fiber.Router, vm *middleware.ValidationMiddleware) {
	surveys := router.Group("/surveys")
	surveys.Post("/outline", h.GenerateOutline)
	surveys.Post("/validate", h.ValidateSurvey)
	surveys.Post("/", h.GenerateSurvey)
	surveys.Get("/", vm.ValidateListParams(), h.ListSurveys)
	surveys.Get("/:id", vm.ValidateSurveyID(), h.GetSurvey)
	surveys.Get("/:id/export", vm.ValidateSurveyID(), vm.ValidateExportFormat(), h.ExportSurvey)
}
