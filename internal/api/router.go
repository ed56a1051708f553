package api

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/text/language"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/memeface/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/memeface/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/memeface/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/memeface/internal/service"
	"github.com/saturnino-fabrica-de-software/memeface/internal/ws"
)

// Dependencies are the components the routes are built from
type Dependencies struct {
	EmotionService *service.EmotionService
	DefaultLocale  language.Tag
	MaxImageSize   int64
	RateLimit      middleware.RateLimiterConfig
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
	wsHub       *ws.Hub
	cancelHub   context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	cfg := fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "memeface API",
	}
	if deps != nil && deps.MaxImageSize > 0 {
		// base64 bodies are a third larger than the image they carry
		cfg.BodyLimit = base64.StdEncoding.EncodedLen(int(deps.MaxImageSize)) + 1024
	}

	return &Router{
		app:    fiber.New(cfg),
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Content-Length,Accept,Accept-Language",
		ExposeHeaders: "Content-Language," + handler.HeaderEmotions,
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	detector := ""
	if r.deps != nil && r.deps.EmotionService != nil {
		detector = r.deps.EmotionService.DetectorName()
	}

	healthHandler := handler.NewHealthHandler(detector)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// Emotion routes only exist when a service was provided
	if r.deps == nil || r.deps.EmotionService == nil {
		return
	}

	r.rateLimiter = middleware.NewRateLimiter(r.deps.RateLimit)

	emotionHandler := handler.NewEmotionHandler(
		r.deps.EmotionService,
		r.deps.DefaultLocale,
		r.deps.MaxImageSize,
		r.logger,
	)
	r.app.Post("/emotions", r.rateLimiter.Handler(), emotionHandler.Render)

	// Same pipeline over a websocket, one image per binary frame
	r.wsHub = ws.NewHub()
	hubCtx, hubCancel := context.WithCancel(context.Background())
	r.cancelHub = hubCancel
	go r.wsHub.Run(hubCtx)

	r.app.Get("/ws/emotions",
		r.rateLimiter.Handler(),
		ws.UpgradeMiddleware(r.deps.DefaultLocale),
		ws.Handler(r.wsHub, emotionHandler.Stream, r.deps.MaxImageSize),
	)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Close open websocket sessions
	if r.cancelHub != nil {
		r.cancelHub()
	}

	// Stop rate limiter cleanup goroutine
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
