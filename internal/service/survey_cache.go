package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"survey-gen/internal/cache"
	"survey-gen/internal/domain"
	"survey-gen/internal/logger"
	"survey-gen/internal/metrics"

	"go.uber.org/zap"
)

// ErrCachedSurveyNotFound is returned on a cache miss.
var ErrCachedSurveyNotFound = errors.New("generated survey not found in cache")

// CachedSurvey is what a finished generation leaves in the cache.
type CachedSurvey struct {
	ID       string          `json:"id,omitempty"`
	Survey   json.RawMessage `json:"survey"`
	Attempts int             `json:"attempts"`
}

// SurveyCacheService stores generated surveys keyed by a prompt fingerprint.
type SurveyCacheService interface {
	Put(ctx context.Context, fingerprint string, entry *CachedSurvey) error
	Get(ctx context.Context, fingerprint string) (*CachedSurvey, error)
}

type surveyCacheServiceImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewSurveyCacheService falls back to a no-op cache when c is nil.
func NewSurveyCacheService(c domain.Cache, ttl time.Duration) SurveyCacheService {
	if c == nil {
		logger.Get().Warn("SurveyCacheService initialized with nil cache. Generated surveys will not be cached.")
		return &noopSurveyCacheService{}
	}
	return &surveyCacheServiceImpl{cache: c, ttl: ttl}
}

func surveyCacheKey(fingerprint string) string {
	return cache.GenerateCacheKey("survey", "result", fingerprint)
}

func (s *surveyCacheServiceImpl) Put(ctx context.Context, fingerprint string, entry *CachedSurvey) error {
	if entry == nil {
		return domain.NewInvalidInputError("cannot cache nil survey")
	}

	key := surveyCacheKey(fingerprint)
	data, err := json.Marshal(entry)
	if err != nil {
		return domain.NewInternalError("failed to marshal survey for caching", err)
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.Get().Error("Failed to cache generated survey", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to set survey to cache for key %s", key), err)
	}
	logger.Get().Debug("Cached generated survey", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

func (s *surveyCacheServiceImpl) Get(ctx context.Context, fingerprint string) (*CachedSurvey, error) {
	key := surveyCacheKey(fingerprint)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			metrics.CacheLookups.WithLabelValues("miss").Inc()
			return nil, ErrCachedSurveyNotFound
		}
		metrics.CacheLookups.WithLabelValues("error").Inc()
		logger.Get().Error("Failed to get survey from cache", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get survey from cache for key %s", key), err)
	}
	if data == "" {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, ErrCachedSurveyNotFound
	}

	var entry CachedSurvey
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal survey from cache for key %s", key), err)
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return &entry, nil
}

type noopSurveyCacheService struct{}

func (noopSurveyCacheService) Put(context.Context, string, *CachedSurvey) error { return nil }

func (noopSurveyCacheService) Get(context.Context, string) (*CachedSurvey, error) {
	return nil, ErrCachedSurveyNotFound
}
