package dto

import (
	"time"

	"survey-gen/internal/domain"
)

// GenerateSurveyRequest is the body of POST /api/surveys.
// @Description Outline to expand into a full survey
type GenerateSurveyRequest struct {
	Config  domain.GenerationConfig `json:"config"`
	Outline string                  `json:"outline" validate:"required,max=20000"`
}

// OutlineResponse carries the generated, editable outline.
type OutlineResponse struct {
	Outline string `json:"outline"`
}

// SurveyResponse is a generated or validated survey with its consistency report.
type SurveyResponse struct {
	ID       string         `json:"id,omitempty"`
	Survey   *domain.Survey `json:"survey"`
	Issues   []domain.Issue `json:"issues"`
	Valid    bool           `json:"valid"`
	Attempts int            `json:"attempts,omitempty"`
	Cached   bool           `json:"cached,omitempty"`
}

func NewSurveyResponse(r *domain.GenerationResult) SurveyResponse {
	issues := r.Issues
	if issues == nil {
		issues = []domain.Issue{}
	}
	return SurveyResponse{
		ID:       r.ID,
		Survey:   r.Survey,
		Issues:   issues,
		Valid:    len(issues) == 0,
		Attempts: r.Attempts,
		Cached:   r.Cached,
	}
}

// StoredSurveySummary is one entry of GET /api/surveys.
type StoredSurveySummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Language   string    `json:"language"`
	Provider   string    `json:"provider"`
	IssueCount int       `json:"issue_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type StoredSurveyResponse struct {
	StoredSurveySummary
	Survey *domain.Survey `json:"survey"`
}

type SurveyListResponse struct {
	Surveys []StoredSurveySummary `json:"surveys"`
	Count   int                   `json:"count"`
}

func NewStoredSurveySummary(s *domain.StoredSurvey) StoredSurveySummary {
	return StoredSurveySummary{
		ID:         s.ID,
		Title:      s.Title,
		Language:   string(s.Language),
		Provider:   s.Provider,
		IssueCount: s.IssueCount,
		CreatedAt:  s.CreatedAt,
	}
}
