package main

import (
	"database/sql"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	fibersession "github.com/gofiber/fiber/v3/middleware/session"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"

	"moviefinder/internal/config"
	"moviefinder/internal/database"
	"moviefinder/internal/handler"
	"moviefinder/internal/middleware"
	"moviefinder/internal/repository"
	"moviefinder/internal/service"
	"moviefinder/internal/session"
	"moviefinder/internal/textgen"
	"moviefinder/internal/tmdb"
	"moviefinder/internal/view"
	"moviefinder/internal/watchlist"
)

func main() {
	// Structured logging until the configured level is known
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logOut := setupLogging(cfg.Log)

	// Connect to Redis (optional)
	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = database.NewRedis(cfg.Redis)
		if err != nil {
			if cfg.Session.Store == config.SessionStoreRedis {
				slog.Error("Redis is required for SESSION_STORE=redis", "error", err)
				os.Exit(1)
			}
			slog.Warn("Redis unavailable, using in-process rate limiting", "error", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	// Session storage
	var storage fiber.Storage
	var db *sql.DB
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		storage = session.NewRedisStorage(rdb, "session:")
	case config.SessionStorePostgres:
		db, err = database.NewPostgres(cfg.DB)
		if err != nil {
			slog.Error("failed to connect to PostgreSQL", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		repo := repository.NewSessionRepository(db, 10*time.Minute)
		defer repo.Close()
		storage = repo
	}
	slog.Info("session store selected", "store", cfg.Session.Store)

	// Initialize clients
	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Timeout)
	ai := textgen.NewClient(cfg.TextGen.APIKey, cfg.TextGen.BaseURL, cfg.TextGen.Model, cfg.TextGen.Timeout)
	if !ai.Configured() {
		slog.Warn("ANTHROPIC_API_KEY not set, generated reviews, facts and trivia are disabled")
	}

	// Initialize layers
	svc := service.NewMovieService(tmdbClient, ai)
	renderer := view.NewRenderer(cfg.TMDB.ImageBaseURL)
	h := handler.NewMovieHandler(svc, watchlist.NewStore(svc), renderer)
	limiter := middleware.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.WindowSeconds)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MovieFinder",
		ServerHeader: "MovieFinder",
		ErrorHandler: handler.ErrorHandler(renderer),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Stream: logOut, Format: logger.JSONFormat}))
	app.Use(cors.New())
	app.Use(fibersession.New(fibersession.Config{
		Storage:        storage,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   cfg.Session.CookieSecure,
		IdleTimeout:    cfg.Session.IdleTimeout,
	}))

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	// Routes
	handler.Register(app, h, limiter.Handler())

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down moviefinder...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting moviefinder", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// setupLogging installs the JSON slog handler at the configured level and
// returns the writer request logs should share.
func setupLogging(cfg config.LogConfig) io.Writer {
	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})))
	return out
}
