// @title Survey Generator API
// @version 1.0
// @description Outline and survey generation, consistency checks and exports.
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"survey-gen/internal/app"
	"survey-gen/internal/config"
	"survey-gen/internal/handler"
	"survey-gen/internal/logger"
	"survey-gen/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	a, err := app.Build(startCtx, cfg, app.Options{})
	cancelStart()
	if err != nil {
		appLogger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	surveyHandler := handler.NewSurveyHandler(a.Service, a.Validator)
	validationMiddleware := middleware.NewValidationMiddleware(a.Validator)

	fiberApp := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	fiberApp.Use(middleware.RequestLogger())
	fiberApp.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	fiberApp.Use(recover.New())

	fiberApp.Get("/healthz", func(c *fiber.Ctx) error {
		if err := a.Ping(c.UserContext()); err != nil {
			appLogger.Warn("Health check failed", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	apiGroup := fiberApp.Group("/api")
	surveyHandler.RegisterRoutes(apiGroup, validationMiddleware)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := fiberApp.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fiberApp.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
