package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/saturnino-fabrica-de-software/memeface/internal/api"
	"github.com/saturnino-fabrica-de-software/memeface/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/memeface/internal/audit"
	"github.com/saturnino-fabrica-de-software/memeface/internal/config"
	"github.com/saturnino-fabrica-de-software/memeface/internal/emotion"
	"github.com/saturnino-fabrica-de-software/memeface/internal/face"
	"github.com/saturnino-fabrica-de-software/memeface/internal/meme"
	"github.com/saturnino-fabrica-de-software/memeface/internal/render"
	"github.com/saturnino-fabrica-de-software/memeface/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real environment variables take precedence
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment, cfg.LogFile)
	slog.SetDefault(logger)

	logger.Info("starting memeface API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("detector", cfg.Detector),
	)

	// Memes and fonts
	catalog, err := meme.OpenCatalog(cfg.CatalogDir)
	if err != nil {
		return fmt.Errorf("failed to load meme catalog: %w", err)
	}

	fonts, err := render.OpenFontDir(cfg.FontDir)
	if err != nil {
		return fmt.Errorf("failed to load fonts: %w", err)
	}

	logger.Info("memes loaded",
		slog.String("catalog_dir", cfg.CatalogDir),
		slog.Int("emotions", catalog.Emotions()),
		slog.String("catalog_locale", catalog.DefaultLocale().String()),
		slog.Int("caption_fonts", fonts.Languages()),
	)

	compositor, err := render.NewCompositor(render.Options{
		DefaultMIMEType: cfg.OutputMimeType,
		JPEGQuality:     cfg.JPEGQuality,
		Fonts:           fonts,
	})
	if err != nil {
		return fmt.Errorf("failed to create compositor: %w", err)
	}

	// Detection backend
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	detector, err := face.NewEmotionDetector(initCtx, cfg)
	initCancel()
	if err != nil {
		return fmt.Errorf("failed to create emotion detector: %w", err)
	}

	emotionService := service.NewEmotionService(
		detector,
		emotion.NewSelector(cfg.EmotionPriority),
		meme.NewResolver(catalog),
		compositor,
		service.WithAuditLogger(audit.NewSlogLogger(logger)),
		service.WithLogger(logger),
	)

	// RATE_LIMIT_MAX=0 turns the limiter off
	rateLimitMax := cfg.RateLimitMax
	if rateLimitMax == 0 {
		rateLimitMax = -1
	}

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		EmotionService: emotionService,
		DefaultLocale:  cfg.DefaultLanguage(),
		MaxImageSize:   int64(cfg.MaxImageSize),
		RateLimit: middleware.RateLimiterConfig{
			Max:    rateLimitMax,
			Window: cfg.RateLimitWindow,
		},
	})
	router.Setup()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...")
	done := make(chan error, 1)
	go func() { done <- router.Shutdown() }()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	case <-time.After(10 * time.Second):
		logger.Warn("shutdown timed out")
	}

	logger.Info("server stopped")

	return nil
}
