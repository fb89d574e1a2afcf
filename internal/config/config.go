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

// Config holds all configuration for the movie API.
type Config struct {
	Redis    RedisConfig
	TMDB     TMDBConfig
	CORS     CORSConfig
	Port     string
	LogLevel slog.Level

	// PaletteTimeout bounds a single poster download.
	PaletteTimeout time.Duration
	SwaggerPath    string
}

// RedisConfig holds Redis configuration. An empty Addr selects the
// in-memory cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// TMDBConfig holds TMDB API configuration.
type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Timeout      time.Duration
}

// CORSConfig describes which browser origins may call the API.
type CORSConfig struct {
	AllowOrigins []string
	FrontendURL  string
	GithubUser   string
}

// Origins returns the allow-list handed to the CORS middleware.
// Explicit origins win, then the deployed frontend and its preview
// domain, then the local dev server.
func (c CORSConfig) Origins() []string {
	if len(c.AllowOrigins) > 0 {
		return c.AllowOrigins
	}
	if c.FrontendURL != "" {
		user := c.GithubUser
		if user == "" {
			user = "your-username"
		}
		return []string{
			c.FrontendURL,
			fmt.Sprintf("https://cinescope-client-git-main-%s.vercel.app", user),
		}
	}
	return []string{"http://localhost:3000"}
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	tmdbTimeout, err := time.ParseDuration(getEnv("TMDB_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TMDB_TIMEOUT: %w", err)
	}
	paletteTimeout, err := time.ParseDuration(getEnv("PALETTE_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PALETTE_TIMEOUT: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		TMDB: TMDBConfig{
			APIKey:       os.Getenv("TMDB_API_KEY"),
			BaseURL:      strings.TrimRight(getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"), "/"),
			ImageBaseURL: strings.TrimRight(getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"), "/"),
			Timeout:      tmdbTimeout,
		},
		CORS: CORSConfig{
			AllowOrigins: splitList(os.Getenv("CORS_ALLOW_ORIGINS")),
			FrontendURL:  os.Getenv("FRONTEND_URL"),
			GithubUser:   os.Getenv("GITHUB_USER"),
		},
		Port:           getEnv("SERVER_PORT", "8081"),
		LogLevel:       level,
		PaletteTimeout: paletteTimeout,
		SwaggerPath:    getEnv("SWAGGER_PATH", "docs/swagger.yaml"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
