package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"TMDB_API_KEY", "TMDB_BASE_URL", "TMDB_IMAGE_BASE_URL", "TMDB_TIMEOUT",
		"PALETTE_TIMEOUT", "REDIS_ADDR", "REDIS_DB", "CORS_ALLOW_ORIGINS",
		"FRONTEND_URL", "GITHUB_USER", "SERVER_PORT", "LOG_LEVEL", "SWAGGER_PATH",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "", cfg.TMDB.APIKey)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, "https://image.tmdb.org/t/p", cfg.TMDB.ImageBaseURL)
	assert.Equal(t, 15*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, 10*time.Second, cfg.PaletteTimeout)
	assert.Equal(t, "", cfg.Redis.Addr)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.Origins())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "token")
	t.Setenv("TMDB_BASE_URL", "http://upstream.local/3/")
	t.Setenv("TMDB_TIMEOUT", "2s")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.TMDB.APIKey)
	assert.Equal(t, "http://upstream.local/3", cfg.TMDB.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.Origins())
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("TMDB_TIMEOUT", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "TMDB_TIMEOUT")
}

func TestCORSOrigins(t *testing.T) {
	t.Run("frontend with preview domain", func(t *testing.T) {
		c := CORSConfig{FrontendURL: "https://cinescope.app", GithubUser: "octo"}
		assert.Equal(t, []string{
			"https://cinescope.app",
			"https://cinescope-client-git-main-octo.vercel.app",
		}, c.Origins())
	})

	t.Run("wildcard", func(t *testing.T) {
		c := CORSConfig{AllowOrigins: []string{"*"}, FrontendURL: "https://cinescope.app"}
		assert.Equal(t, []string{"*"}, c.Origins())
	})
}
