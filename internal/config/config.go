package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session store backends.
const (
	SessionStoreMemory   = "memory"
	SessionStoreRedis    = "redis"
	SessionStorePostgres = "postgres"
)

// Config holds all configuration for the moviefinder server.
type Config struct {
	TMDB      TMDBConfig
	TextGen   TextGenConfig
	Session   SessionConfig
	DB        DBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Port      string
}

// TMDBConfig holds TMDB API configuration.
type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Timeout      time.Duration
}

// TextGenConfig holds text-generation API configuration. An empty APIKey
// disables enrichment.
type TextGenConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// SessionConfig controls the browser session used by the watchlist.
type SessionConfig struct {
	Store        string
	IdleTimeout  time.Duration
	CookieSecure bool
}

// DBConfig holds PostgreSQL configuration.
type DBConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLRootCert string
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// RateLimitConfig bounds requests per client on the JSON API.
type RateLimitConfig struct {
	Max           int
	WindowSeconds int
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string
	File  string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	rateLimitMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "100"))
	rateLimitWindow, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	tmdbTimeout, _ := strconv.Atoi(getEnv("TMDB_TIMEOUT_SECONDS", "10"))
	textGenTimeout, _ := strconv.Atoi(getEnv("TEXTGEN_TIMEOUT_SECONDS", "20"))
	idleHours, _ := strconv.Atoi(getEnv("SESSION_IDLE_HOURS", "168"))
	cookieSecure, _ := strconv.ParseBool(getEnv("SESSION_COOKIE_SECURE", "false"))

	cfg := &Config{
		TMDB: TMDBConfig{
			APIKey:       os.Getenv("TMDB_API_KEY"),
			BaseURL:      getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"),
			Timeout:      time.Duration(tmdbTimeout) * time.Second,
		},
		TextGen: TextGenConfig{
			APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			BaseURL: getEnv("TEXTGEN_BASE_URL", "https://api.anthropic.com"),
			Model:   getEnv("TEXTGEN_MODEL", "claude-3-5-haiku-latest"),
			Timeout: time.Duration(textGenTimeout) * time.Second,
		},
		Session: SessionConfig{
			Store:        strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
			IdleTimeout:  time.Duration(idleHours) * time.Hour,
			CookieSecure: cookieSecure,
		},
		DB: DBConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "moviefinder"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		RateLimit: RateLimitConfig{
			Max:           rateLimitMax,
			WindowSeconds: rateLimitWindow,
		},
		Log: LogConfig{
			Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
			File:  getEnv("LOG_FILE", ""),
		},
		Port: getEnv("SERVER_PORT", "5000"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TMDB.APIKey == "" {
		return errors.New("TMDB_API_KEY is required")
	}
	switch c.Session.Store {
	case SessionStoreMemory, SessionStorePostgres:
	case SessionStoreRedis:
		if !c.Redis.Enabled() {
			return errors.New("SESSION_STORE=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.Session.Store)
	}
	if c.TMDB.Timeout <= 0 {
		c.TMDB.Timeout = 10 * time.Second
	}
	if c.TextGen.Timeout <= 0 {
		c.TextGen.Timeout = 20 * time.Second
	}
	if c.RateLimit.Max <= 0 {
		c.RateLimit.Max = 100
	}
	if c.RateLimit.WindowSeconds <= 0 {
		c.RateLimit.WindowSeconds = 60
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
