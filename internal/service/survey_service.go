package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"survey-gen/internal/cache"
	"survey-gen/internal/domain"
	"survey-gen/internal/export"
	"survey-gen/internal/metrics"
	"survey-gen/internal/prompt"
	"survey-gen/internal/util"
	"survey-gen/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultMaxAttempts is the number of survey generation calls made before giving up.
const DefaultMaxAttempts = 3

// SurveyService drives outline and survey generation and the stored-survey lifecycle.
type SurveyService interface {
	GenerateOutline(ctx context.Context, cfg *domain.GenerationConfig) (string, error)
	GenerateSurvey(ctx context.Context, cfg *domain.GenerationConfig, outline string) (*domain.GenerationResult, error)
	ValidateSurvey(raw []byte) (*domain.GenerationResult, error)
	GetSurvey(ctx context.Context, id string) (*domain.StoredSurvey, error)
	ListSurveys(ctx context.Context, limit int) ([]*domain.StoredSurvey, error)
	ExportSurvey(ctx context.Context, id string, format export.Format) ([]byte, error)
}

type surveyService struct {
	generators  domain.GeneratorFactory
	validator   *validation.Validator
	cache       SurveyCacheService
	repo        domain.SurveyRepository
	maxAttempts int
	logger      *zap.Logger
	group       singleflight.Group
}

// NewSurveyService wires the generation pipeline. cache and repo may be nil.
func NewSurveyService(
	generators domain.GeneratorFactory,
	validator *validation.Validator,
	cache SurveyCacheService,
	repo domain.SurveyRepository,
	maxAttempts int,
	logger *zap.Logger,
) SurveyService {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if cache == nil {
		cache = noopSurveyCacheService{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &surveyService{
		generators:  generators,
		validator:   validator,
		cache:       cache,
		repo:        repo,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

func (s *surveyService) generator(ctx context.Context, cfg *domain.GenerationConfig) (domain.TextGenerator, error) {
	if errs := s.validator.ValidateGenerationConfig(cfg); len(errs) > 0 {
		return nil, errs
	}
	gen, err := s.generators.ForProvider(ctx, cfg.Provider)
	if err != nil {
		return nil, domain.NewLLMServiceError(err)
	}
	return gen, nil
}

// GenerateOutline asks the model for a plain-text question outline.
func (s *surveyService) GenerateOutline(ctx context.Context, cfg *domain.GenerationConfig) (string, error) {
	gen, err := s.generator(ctx, cfg)
	if err != nil {
		return "", err
	}

	s.logger.Info("Generating survey outline",
		zap.String("backend", gen.Name()),
		zap.String("title", cfg.SurveyTitle))

	response, err := gen.Generate(ctx, prompt.Outline(cfg))
	if err != nil {
		metrics.GenerationAttempts.WithLabelValues("outline", "error").Inc()
		return "", domain.NewLLMServiceError(err)
	}
	outline := domain.StripThinking(response)
	if outline == "" {
		metrics.GenerationAttempts.WithLabelValues("outline", "empty").Inc()
		return "", domain.NewLLMServiceError(domain.ErrEmptyResponse)
	}
	metrics.GenerationAttempts.WithLabelValues("outline", "success").Inc()
	return outline, nil
}

// GenerateSurvey turns an outline into a survey document and checks its
// consistency. Identical concurrent requests share one generation.
func (s *surveyService) GenerateSurvey(ctx context.Context, cfg *domain.GenerationConfig, outline string) (*domain.GenerationResult, error) {
	if strings.TrimSpace(outline) == "" {
		return nil, domain.NewInvalidInputError("outline cannot be empty")
	}
	gen, err := s.generator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	p := prompt.Survey(cfg, outline)
	fingerprint := cache.Fingerprint(gen.Name(), p)

	entry, err := s.cache.Get(ctx, fingerprint)
	switch {
	case err == nil:
		result, perr := s.fromCache(entry)
		if perr == nil {
			s.logger.Info("Survey served from cache", zap.String("fingerprint", fingerprint))
			return result, nil
		}
		s.logger.Warn("Discarding unreadable cached survey", zap.Error(perr))
	case !errors.Is(err, ErrCachedSurveyNotFound):
		s.logger.Warn("Survey cache lookup failed, generating anyway", zap.Error(err))
	}

	// The shared call outlives any single caller; each caller stops waiting
	// when its own context ends.
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(fingerprint, func() (any, error) {
		return s.generate(detached, gen, cfg, p, fingerprint)
	})
	select {
	case <-ctx.Done():
		return nil, domain.NewLLMServiceError(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("Survey generation shared with a concurrent request", zap.String("fingerprint", fingerprint))
		}
		result := *res.Val.(*domain.GenerationResult)
		return &result, nil
	}
}

func (s *surveyService) generate(ctx context.Context, gen domain.TextGenerator, cfg *domain.GenerationConfig, p, fingerprint string) (*domain.GenerationResult, error) {
	var (
		lastErr error
		lastRaw string
	)
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		s.logger.Info("Generating survey",
			zap.String("backend", gen.Name()),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.maxAttempts))

		response, err := gen.Generate(ctx, p)
		if err != nil {
			metrics.GenerationAttempts.WithLabelValues("survey", "error").Inc()
			lastErr, lastRaw = err, ""
			s.logger.Warn("Survey generation call failed", zap.Int("attempt", attempt), zap.Error(err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		lastRaw = response

		doc, err := domain.ExtractSurveyJSON(response)
		if err != nil {
			metrics.GenerationAttempts.WithLabelValues("survey", "no_json").Inc()
			lastErr = err
			s.logger.Warn("No usable JSON in model response", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		survey, err := domain.ParseSurvey([]byte(doc))
		if err != nil {
			metrics.GenerationAttempts.WithLabelValues("survey", "invalid_json").Inc()
			lastErr = err
			s.logger.Warn("Model returned JSON that is not a survey", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		metrics.GenerationAttempts.WithLabelValues("survey", "success").Inc()

		result := &domain.GenerationResult{
			Survey:   survey,
			Issues:   s.check(survey),
			Attempts: attempt,
			RawJSON:  doc,
		}
		result.ID = s.persist(ctx, gen, cfg, result)

		if err := s.cache.Put(ctx, fingerprint, &CachedSurvey{ID: result.ID, Survey: json.RawMessage(doc), Attempts: attempt}); err != nil {
			s.logger.Warn("Failed to cache generated survey", zap.Error(err))
		}
		return result, nil
	}

	cause := fmt.Errorf("failed after %d attempts: %w", s.maxAttempts, lastErr)
	if lastRaw != "" {
		cause = fmt.Errorf("%w. Raw response: %s", cause, lastRaw)
	}
	s.logger.Error("Survey generation gave up", zap.Error(cause))
	return nil, domain.NewLLMServiceError(cause)
}

// persist stores the result when a repository is configured and returns its id.
// A storage failure is logged; the generated survey is still returned.
func (s *surveyService) persist(ctx context.Context, gen domain.TextGenerator, cfg *domain.GenerationConfig, result *domain.GenerationResult) string {
	if s.repo == nil {
		return ""
	}
	stored := &domain.StoredSurvey{
		ID:         util.NewULID(),
		Title:      cfg.SurveyTitle,
		Language:   cfg.SurveyLanguage,
		Provider:   gen.Name(),
		Survey:     result.Survey,
		IssueCount: len(result.Issues),
	}
	if err := s.repo.Save(ctx, stored); err != nil {
		s.logger.Error("Failed to persist generated survey", zap.String("id", stored.ID), zap.Error(err))
		return ""
	}
	return stored.ID
}

func (s *surveyService) fromCache(entry *CachedSurvey) (*domain.GenerationResult, error) {
	survey, err := domain.ParseSurvey(entry.Survey)
	if err != nil {
		return nil, err
	}
	return &domain.GenerationResult{
		ID:       entry.ID,
		Survey:   survey,
		Issues:   s.check(survey),
		Attempts: entry.Attempts,
		Cached:   true,
		RawJSON:  string(entry.Survey),
	}, nil
}

func (s *surveyService) check(survey *domain.Survey) []domain.Issue {
	issues := s.validator.CheckConsistency(survey)
	for kind, n := range domain.CountByKind(issues) {
		metrics.ConsistencyIssues.WithLabelValues(string(kind)).Add(float64(n))
	}
	if len(issues) > 0 {
		s.logger.Info("Consistency issues found", zap.Int("count", len(issues)))
	}
	return issues
}

// ValidateSurvey parses a survey document and checks it. A document that does
// not parse is an error and is never checked.
func (s *surveyService) ValidateSurvey(raw []byte) (*domain.GenerationResult, error) {
	survey, err := domain.ParseSurvey(raw)
	if err != nil {
		return nil, err
	}
	return &domain.GenerationResult{
		Survey:  survey,
		Issues:  s.check(survey),
		RawJSON: string(raw),
	}, nil
}

func (s *surveyService) GetSurvey(ctx context.Context, id string) (*domain.StoredSurvey, error) {
	if errs := s.validator.ValidateSurveyID(id); len(errs) > 0 {
		return nil, errs
	}
	if s.repo == nil {
		return nil, domain.NewNotFoundError("survey storage is not configured")
	}
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get survey", err)
	}
	if stored == nil {
		return nil, domain.NewSurveyNotFoundError(id)
	}
	return stored, nil
}

func (s *surveyService) ListSurveys(ctx context.Context, limit int) ([]*domain.StoredSurvey, error) {
	if errs := s.validator.ValidateListLimit(limit); len(errs) > 0 {
		return nil, errs
	}
	if s.repo == nil {
		return []*domain.StoredSurvey{}, nil
	}
	surveys, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list surveys", err)
	}
	return surveys, nil
}

func (s *surveyService) ExportSurvey(ctx context.Context, id string, format export.Format) ([]byte, error) {
	stored, err := s.GetSurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	return export.Bytes(stored.Survey, format)
}
