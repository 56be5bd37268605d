// Package app wires the generation pipeline from configuration. Both the CLI
// and the HTTP server build their dependencies here.
package app

import (
	"context"
	"errors"
	"fmt"

	"survey-gen/internal/adapter"
	"survey-gen/internal/adapter/llm"
	"survey-gen/internal/cache"
	"survey-gen/internal/config"
	"survey-gen/internal/database"
	"survey-gen/internal/domain"
	"survey-gen/internal/i18n"
	"survey-gen/internal/logger"
	"survey-gen/internal/repository"
	"survey-gen/internal/service"
	"survey-gen/internal/validation"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the long-lived dependencies. Cache and DB are nil when their
// backends are not configured.
type App struct {
	Config    *config.Config
	Catalog   *i18n.Catalog
	Validator *validation.Validator
	Service   service.SurveyService

	Cache domain.Cache
	DB    *sqlx.DB

	redisClient *redis.Client
}

// Options tweak what Build connects to.
type Options struct {
	// InterfaceLanguage overrides i18n.interface_language when set.
	InterfaceLanguage string
	// Offline skips Redis and the database, e.g. for local validation.
	Offline bool
}

// Build connects the optional backends and assembles the survey service.
// A Redis outage degrades to no caching; a configured but unreachable
// database is an error.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	l := logger.Get()

	lang := cfg.I18n.InterfaceLanguage
	if opts.InterfaceLanguage != "" {
		lang = opts.InterfaceLanguage
	}
	catalog := i18n.Load(i18n.Match(lang))
	v := validation.NewValidator(catalog)

	a := &App{Config: cfg, Catalog: catalog, Validator: v}

	if !opts.Offline && cfg.Redis.Address != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			l.Warn("Redis unavailable, generated surveys will not be cached", zap.Error(err))
		} else {
			l.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
			a.redisClient = client
			a.Cache = adapter.NewRedisCacheAdapter(client)
		}
	}

	var repo domain.SurveyRepository
	if !opts.Offline && cfg.DB.Enabled {
		db, err := database.NewSQLXOracleDB(ctx, cfg.GetDSN())
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.DB = db
		repo = repository.NewSurveyDatabaseAdapter(db)
	}

	a.Service = service.NewSurveyService(
		llm.NewRegistry(cfg.LLM, nil),
		v,
		service.NewSurveyCacheService(a.Cache, cfg.Redis.SurveyTTL),
		repo,
		cfg.LLM.MaxAttempts,
		l,
	)
	return a, nil
}

// Ping checks every configured backend.
func (a *App) Ping(ctx context.Context) error {
	var errs []error
	if a.Cache != nil {
		if err := a.Cache.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("cache: %w", err))
		}
	}
	if a.DB != nil {
		if err := a.DB.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close releases the backend connections.
func (a *App) Close() error {
	var errs []error
	if a.redisClient != nil {
		errs = append(errs, a.redisClient.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
