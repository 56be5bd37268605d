package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"survey-gen/internal/domain"
	"survey-gen/internal/dto"
	"survey-gen/internal/export"
	"survey-gen/internal/handler"
	"survey-gen/internal/middleware"
	"survey-gen/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockSurveyService
type MockSurveyService struct {
	GenerateOutlineFunc func(ctx context.Context, cfg *domain.GenerationConfig) (string, error)
	GenerateSurveyFunc  func(ctx context.Context, cfg *domain.GenerationConfig, outline string) (*domain.GenerationResult, error)
	ValidateSurveyFunc  func(raw []byte) (*domain.GenerationResult, error)
	GetSurveyFunc       func(ctx context.Context, id string) (*domain.StoredSurvey, error)
	ListSurveysFunc     func(ctx context.Context, limit int) ([]*domain.StoredSurvey, error)
	ExportSurveyFunc    func(ctx context.Context, id string, format export.Format) ([]byte, error)
}

func (m *MockSurveyService) GenerateOutline(ctx context.Context, cfg *domain.GenerationConfig) (string, error) {
	if m.GenerateOutlineFunc != nil {
		return m.GenerateOutlineFunc(ctx, cfg)
	}
	panic("MockSurveyService.GenerateOutlineFunc not implemented")
}
func (m *MockSurveyService) GenerateSurvey(ctx context.Context, cfg *domain.GenerationConfig, outline string) (*domain.GenerationResult, error) {
	if m.GenerateSurveyFunc != nil {
		return m.GenerateSurveyFunc(ctx, cfg, outline)
	}
	panic("MockSurveyService.GenerateSurveyFunc not implemented")
}
func (m *MockSurveyService) ValidateSurvey(raw []byte) (*domain.GenerationResult, error) {
	if m.ValidateSurveyFunc != nil {
		return m.ValidateSurveyFunc(raw)
	}
	panic("MockSurveyService.ValidateSurveyFunc not implemented")
}
func (m *MockSurveyService) GetSurvey(ctx context.Context, id string) (*domain.StoredSurvey, error) {
	if m.GetSurveyFunc != nil {
		return m.GetSurveyFunc(ctx, id)
	}
	panic("MockSurveyService.GetSurveyFunc not implemented")
}
func (m *MockSurveyService) ListSurveys(ctx context.Context, limit int) ([]*domain.StoredSurvey, error) {
	if m.ListSurveysFunc != nil {
		return m.ListSurveysFunc(ctx, limit)
	}
	panic("MockSurveyService.ListSurveysFunc not implemented")
}
func (m *MockSurveyService) ExportSurvey(ctx context.Context, id string, format export.Format) ([]byte, error) {
	if m.ExportSurveyFunc != nil {
		return m.ExportSurveyFunc(ctx, id, format)
	}
	panic("MockSurveyService.ExportSurveyFunc not implemented")
}

const validID = "01HZX3J8Q4K5M6N7P8R9S0T1V2"

func setupApp(svc *MockSurveyService) *fiber.App {
	v := validation.NewValidator(nil)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	h := handler.NewSurveyHandler(svc, v)
	h.RegisterRoutes(app.Group("/api"), middleware.NewValidationMiddleware(v))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func validConfig() domain.GenerationConfig {
	cfg := domain.DefaultGenerationConfig()
	cfg.EntityName = "Acme"
	cfg.SurveyTitle = "Pulse"
	return cfg
}

func sampleSurvey(t *testing.T) *domain.Survey {
	t.Helper()
	s, err := domain.ParseSurvey([]byte(`{"intro":"Hi","questions":[{"type":"Single-choice","text":"Q?","options":["Yes","No"],"condition":null}],"outro":"Bye"}`))
	require.NoError(t, err)
	return s
}

func TestSurveyHandler_GenerateOutline(t *testing.T) {
	svc := &MockSurveyService{
		GenerateOutlineFunc: func(_ context.Context, cfg *domain.GenerationConfig) (string, error) {
			assert.Equal(t, "Pulse", cfg.SurveyTitle)
			return "Section 1: Usage", nil
		},
	}
	status, body := doJSON(t, setupApp(svc), "POST", "/api/surveys/outline", validConfig())

	assert.Equal(t, fiber.StatusOK, status)
	var resp dto.OutlineResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "Section 1: Usage", resp.Outline)
}

func TestSurveyHandler_GenerateOutline_Errors(t *testing.T) {
	t.Run("bad body", func(t *testing.T) {
		status, _ := doJSON(t, setupApp(&MockSurveyService{}), "POST", "/api/surveys/outline", "{not json")
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("validation errors", func(t *testing.T) {
		svc := &MockSurveyService{
			GenerateOutlineFunc: func(context.Context, *domain.GenerationConfig) (string, error) {
				return "", domain.ValidationErrors{{Field: "sections", Message: "must be at least 1"}}
			},
		}
		status, body := doJSON(t, setupApp(svc), "POST", "/api/surveys/outline", validConfig())
		assert.Equal(t, fiber.StatusBadRequest, status)

		var resp middleware.ValidationErrorResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "sections", resp.Errors[0].Field)
	})

	t.Run("llm unavailable", func(t *testing.T) {
		svc := &MockSurveyService{
			GenerateOutlineFunc: func(context.Context, *domain.GenerationConfig) (string, error) {
				return "", domain.NewLLMServiceError(errors.New("connection refused"))
			},
		}
		status, body := doJSON(t, setupApp(svc), "POST", "/api/surveys/outline", validConfig())
		assert.Equal(t, fiber.StatusServiceUnavailable, status)

		var resp middleware.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, "LLM_SERVICE_ERROR", resp.Code)
		assert.Equal(t, "connection refused", resp.Details["cause"])
	})
}

func TestSurveyHandler_GenerateSurvey(t *testing.T) {
	svc := &MockSurveyService{
		GenerateSurveyFunc: func(_ context.Context, cfg *domain.GenerationConfig, outline string) (*domain.GenerationResult, error) {
			assert.Equal(t, "Section 1", outline)
			return &domain.GenerationResult{
				ID:       validID,
				Survey:   sampleSurvey(t),
				Issues:   []domain.Issue{{Question: 1, Kind: domain.IssueField, Message: "Missing or invalid options for choice question"}},
				Attempts: 2,
			}, nil
		},
	}
	status, body := doJSON(t, setupApp(svc), "POST", "/api/surveys", dto.GenerateSurveyRequest{Config: validConfig(), Outline: "Section 1"})

	assert.Equal(t, fiber.StatusCreated, status)
	var resp dto.SurveyResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, validID, resp.ID)
	assert.False(t, resp.Valid)
	assert.Equal(t, 2, resp.Attempts)
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, domain.IssueField, resp.Issues[0].Kind)
	assert.Equal(t, "Q?", resp.Survey.Questions[0].Text)
}

func TestSurveyHandler_GenerateSurvey_MissingOutline(t *testing.T) {
	status, body := doJSON(t, setupApp(&MockSurveyService{}), "POST", "/api/surveys", dto.GenerateSurveyRequest{Config: validConfig()})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), "outline")
}

func TestSurveyHandler_ValidateSurvey(t *testing.T) {
	svc := &MockSurveyService{
		ValidateSurveyFunc: func(raw []byte) (*domain.GenerationResult, error) {
			s, err := domain.ParseSurvey(raw)
			if err != nil {
				return nil, err
			}
			return &domain.GenerationResult{Survey: s}, nil
		},
	}
	app := setupApp(svc)

	status, body := doJSON(t, app, "POST", "/api/surveys/validate", `{"intro":"Hi","questions":[],"outro":"Bye"}`)
	assert.Equal(t, fiber.StatusOK, status)
	var resp dto.SurveyResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.True(t, resp.Valid)
	assert.NotNil(t, resp.Issues)

	status, body = doJSON(t, app, "POST", "/api/surveys/validate", `[1,2,3]`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), "INVALID_SURVEY_JSON")
}

func TestSurveyHandler_ListSurveys(t *testing.T) {
	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	svc := &MockSurveyService{
		ListSurveysFunc: func(_ context.Context, limit int) ([]*domain.StoredSurvey, error) {
			assert.Equal(t, 5, limit)
			return []*domain.StoredSurvey{{ID: validID, Title: "Pulse", Language: domain.LanguageFrench, Provider: "ollama/llama3:instruct", IssueCount: 1, CreatedAt: created}}, nil
		},
	}
	app := setupApp(svc)

	status, body := doJSON(t, app, "GET", "/api/surveys?limit=5", nil)
	assert.Equal(t, fiber.StatusOK, status)
	var resp dto.SurveyListResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "French", resp.Surveys[0].Language)
	assert.True(t, created.Equal(resp.Surveys[0].CreatedAt))

	status, _ = doJSON(t, app, "GET", "/api/surveys?limit=abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = doJSON(t, app, "GET", "/api/surveys?limit=500", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestSurveyHandler_ListSurveys_DefaultLimit(t *testing.T) {
	svc := &MockSurveyService{
		ListSurveysFunc: func(_ context.Context, limit int) ([]*domain.StoredSurvey, error) {
			assert.Equal(t, 20, limit)
			return nil, nil
		},
	}
	status, body := doJSON(t, setupApp(svc), "GET", "/api/surveys", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"surveys":[],"count":0}`, string(body))
}

func TestSurveyHandler_GetSurvey(t *testing.T) {
	svc := &MockSurveyService{
		GetSurveyFunc: func(_ context.Context, id string) (*domain.StoredSurvey, error) {
			if id == validID {
				return &domain.StoredSurvey{ID: id, Title: "Pulse", Survey: sampleSurvey(t)}, nil
			}
			return nil, domain.NewSurveyNotFoundError(id)
		},
	}
	app := setupApp(svc)

	status, body := doJSON(t, app, "GET", "/api/surveys/"+validID, nil)
	assert.Equal(t, fiber.StatusOK, status)
	var resp dto.StoredSurveyResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "Pulse", resp.Title)
	assert.Equal(t, "Hi", resp.Survey.Intro)

	status, _ = doJSON(t, app, "GET", "/api/surveys/01HZX3J8Q4K5M6N7P8R9S0T1V3", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = doJSON(t, app, "GET", "/api/surveys/not-a-ulid", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestSurveyHandler_ExportSurvey(t *testing.T) {
	svc := &MockSurveyService{
		ExportSurveyFunc: func(_ context.Context, id string, format export.Format) ([]byte, error) {
			return export.Bytes(sampleSurvey(t), format)
		},
	}
	app := setupApp(svc)

	req := httptest.NewRequest("GET", "/api/surveys/"+validID+"/export?format=csv", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "survey.csv")
	assert.Equal(t, "type,text,options,condition\nSingle-choice,Q?,Yes; No,\n", string(data))

	status, body := doJSON(t, app, "GET", "/api/surveys/"+validID+"/export?format=pdf", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), "UNSUPPORTED_FORMAT")
}
