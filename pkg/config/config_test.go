package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	// Check defaults
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.False(t, cfg.API.Debug)
	assert.Equal(t, 60*time.Second, cfg.Dashboard.RefreshInterval)
	assert.True(t, cfg.Dashboard.SequenceGuard)
	assert.False(t, cfg.Dashboard.UseMock)
	assert.Equal(t, "3000", cfg.Dashboard.Port)
}

func TestLoadWithCustomValues(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("API_BASE_URL", "https://predict.example.com/api")
	t.Setenv("API_DEBUG", "true")
	t.Setenv("API_RATE_LIMIT", "2.5")
	t.Setenv("RANKING_REFRESH_INTERVAL", "30000")
	t.Setenv("RANKING_SEQUENCE_GUARD", "false")
	t.Setenv("USE_MOCK_DATA", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "https://predict.example.com/api", cfg.API.BaseURL)
	assert.True(t, cfg.API.Debug)
	assert.Equal(t, 2.5, cfg.API.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.RefreshInterval)
	assert.False(t, cfg.Dashboard.SequenceGuard)
	assert.True(t, cfg.Dashboard.UseMock)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadDurationString(t *testing.T) {
	t.Setenv("RANKING_REFRESH_INTERVAL", "2m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.Dashboard.RefreshInterval)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "unknown env", env: map[string]string{"ENV": "qa"}, wantErr: true},
		{name: "relative base url", env: map[string]string{"API_BASE_URL": "/api"}, wantErr: true},
		{name: "non-http scheme", env: map[string]string{"API_BASE_URL": "ftp://host"}, wantErr: true},
		{name: "zero interval", env: map[string]string{"RANKING_REFRESH_INTERVAL": "0"}, wantErr: true},
		{name: "negative rate limit", env: map[string]string{"API_RATE_LIMIT": "-1"}, wantErr: true},
		{name: "staging", env: map[string]string{"ENV": "staging"}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
