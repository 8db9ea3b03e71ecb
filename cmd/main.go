package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"movie-recommender/internal/candidates"
	"movie-recommender/internal/config"
	"movie-recommender/internal/database"
	"movie-recommender/internal/handler"
	"movie-recommender/internal/middleware"
	"movie-recommender/internal/omdb"
	"movie-recommender/internal/provider"
	"movie-recommender/internal/repository"
	"movie-recommender/internal/service"
	"movie-recommender/internal/tmdb"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// Movie backend
	backend, db, err := newProvider(cfg)
	if err != nil {
		slog.Error("failed to initialize movie provider", "provider", cfg.Provider, "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}
	movies := provider.WithCircuitBreaker(backend, provider.DefaultBreakerSettings)

	// Connect to Redis (non-fatal if unavailable)
	var rdb *redis.Client
	if client, err := database.NewRedis(cfg.Redis); err != nil {
		slog.Warn("Redis unavailable, running without rate limiting", "error", err)
	} else {
		rdb = client
	}

	// Initialize layers
	finder := candidates.NewFinder(movies, cfg.Candidates)
	svc := service.NewRecommendationService(movies, finder)
	h := handler.NewRecommendationHandler(svc, movies.Name())

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Movie Recommender",
		ServerHeader: "Movie-Recommender",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use("/api", middleware.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.WindowSeconds).Handler())

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	h.Register(app)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.Port
		slog.Info("starting movie recommender", "addr", addr, "provider", movies.Name())
		if err := app.Listen(addr); err != nil {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down movie recommender...")

	if err := app.Shutdown(); err != nil {
		slog.Error("error shutting down HTTP server", "error", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("error closing Redis connection", "error", err)
		}
	}

	slog.Info("movie recommender shutdown complete")
}

// newProvider builds the configured backend. The returned *sql.DB is non-nil
// only for the catalog backend and must be closed by the caller.
func newProvider(cfg *config.Config) (provider.MovieProvider, *sql.DB, error) {
	switch cfg.Provider {
	case config.ProviderTMDB:
		return tmdb.NewClient(cfg.TMDB, cfg.Upstream), nil, nil
	case config.ProviderOMDB:
		return omdb.NewClient(cfg.OMDB, cfg.Upstream), nil, nil
	case config.ProviderCatalog:
		db, err := database.NewPostgres(cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewMovieRepository(db, cfg.TMDB.ImageBaseURL), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
