package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for MOVIE_PROVIDER.
const (
	ProviderTMDB    = "tmdb"
	ProviderOMDB    = "omdb"
	ProviderCatalog = "catalog"
)

// Config holds all configuration for the recommender service.
type Config struct {
	Port       string
	LogLevel   slog.Level
	Provider   string
	TMDB       TMDBConfig
	OMDB       OMDBConfig
	Upstream   UpstreamConfig
	DB         DBConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	Candidates CandidateConfig
}

// TMDBConfig holds TMDB API configuration.
type TMDBConfig struct {
	APIKey       string
	AccessToken  string
	BaseURL      string
	ImageBaseURL string
}

// OMDBConfig holds OMDb API configuration.
type OMDBConfig struct {
	APIKey  string
	BaseURL string
}

// UpstreamConfig bounds traffic to whichever movie API is in use.
type UpstreamConfig struct {
	RequestsPerSecond float64
	Timeout           time.Duration
}

// DBConfig holds PostgreSQL configuration for the catalog backend.
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

// RedisConfig holds Redis configuration for rate limiting.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig is the per-client-IP request budget.
type RateLimitConfig struct {
	Max           int
	WindowSeconds int
}

// CandidateConfig tunes candidate discovery.
type CandidateConfig struct {
	MaxPool           int
	GenreQueries      int
	DirectorQueries   int
	SearchPage        int
	DetailConcurrency int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	rateLimitMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "100"))
	rateLimitWindow, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	upstreamRPS, _ := strconv.ParseFloat(getEnv("UPSTREAM_RPS", "20"), 64)
	upstreamTimeout, _ := strconv.Atoi(getEnv("UPSTREAM_TIMEOUT_SECONDS", "15"))
	maxPool, _ := strconv.Atoi(getEnv("CANDIDATE_MAX_POOL", "50"))
	genreQueries, _ := strconv.Atoi(getEnv("CANDIDATE_GENRE_QUERIES", "3"))
	directorQueries, _ := strconv.Atoi(getEnv("CANDIDATE_DIRECTOR_QUERIES", "2"))
	searchPage, _ := strconv.Atoi(getEnv("CANDIDATE_SEARCH_PAGE", "1"))
	detailConcurrency, _ := strconv.Atoi(getEnv("CANDIDATE_DETAIL_CONCURRENCY", "10"))

	cfg := &Config{
		Port:     getEnv("SERVER_PORT", "8080"),
		LogLevel: parseLevel(getEnv("LOG_LEVEL", "info")),
		Provider: strings.ToLower(getEnv("MOVIE_PROVIDER", ProviderTMDB)),
		TMDB: TMDBConfig{
			APIKey:       getEnv("TMDB_API_KEY", ""),
			AccessToken:  getEnv("TMDB_ACCESS_TOKEN", ""),
			BaseURL:      getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500"),
		},
		OMDB: OMDBConfig{
			APIKey:  getEnv("OMDB_API_KEY", ""),
			BaseURL: getEnv("OMDB_BASE_URL", "https://www.omdbapi.com/"),
		},
		Upstream: UpstreamConfig{
			RequestsPerSecond: upstreamRPS,
			Timeout:           time.Duration(upstreamTimeout) * time.Second,
		},
		DB: DBConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "movie_service"),
			SSLMode:     getEnv("DB_SSLMODE", "verify-ca"),
			SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		RateLimit: RateLimitConfig{
			Max:           rateLimitMax,
			WindowSeconds: rateLimitWindow,
		},
		Candidates: CandidateConfig{
			MaxPool:           maxPool,
			GenreQueries:      genreQueries,
			DirectorQueries:   directorQueries,
			SearchPage:        searchPage,
			DetailConcurrency: detailConcurrency,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.warnMissingKeys()

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderTMDB, ProviderOMDB, ProviderCatalog:
	default:
		return fmt.Errorf("unknown MOVIE_PROVIDER %q (want %s, %s or %s)",
			c.Provider, ProviderTMDB, ProviderOMDB, ProviderCatalog)
	}

	checks := []struct {
		name  string
		value int
	}{
		{"CANDIDATE_MAX_POOL", c.Candidates.MaxPool},
		{"CANDIDATE_GENRE_QUERIES", c.Candidates.GenreQueries},
		{"CANDIDATE_SEARCH_PAGE", c.Candidates.SearchPage},
		{"CANDIDATE_DETAIL_CONCURRENCY", c.Candidates.DetailConcurrency},
		{"UPSTREAM_TIMEOUT_SECONDS", int(c.Upstream.Timeout / time.Second)},
	}
	for _, chk := range checks {
		if chk.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", chk.name, chk.value)
		}
	}
	if c.Candidates.DirectorQueries < 0 {
		return fmt.Errorf("CANDIDATE_DIRECTOR_QUERIES must not be negative, got %d", c.Candidates.DirectorQueries)
	}
	if c.Upstream.RequestsPerSecond <= 0 {
		return fmt.Errorf("UPSTREAM_RPS must be positive, got %v", c.Upstream.RequestsPerSecond)
	}
	return nil
}

func (c *Config) warnMissingKeys() {
	switch c.Provider {
	case ProviderTMDB:
		if c.TMDB.APIKey == "" && c.TMDB.AccessToken == "" {
			slog.Warn("TMDB credentials not set, add TMDB_API_KEY or TMDB_ACCESS_TOKEN to your .env file")
		}
	case ProviderOMDB:
		if c.OMDB.APIKey == "" {
			slog.Warn("OMDb API key not set, add OMDB_API_KEY to your .env file")
		}
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
