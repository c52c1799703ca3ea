package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// RequestTimeout is the fixed bound applied to every backend call.
// 요청별로 변경할 수 없음
const RequestTimeout = 30 * time.Second

// Config holds all configuration for the dashboard
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	Env string // development, staging, production

	// Prediction backend
	API APIConfig

	// Dashboard (BFF + terminal)
	Dashboard DashboardConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// APIConfig holds the prediction backend client configuration
type APIConfig struct {
	BaseURL   string
	Debug     bool    // 요청/응답 디버그 로깅
	RateLimit float64 // 초당 요청 수 (0이면 제한 없음)
}

// DashboardConfig holds settings read by the code surrounding the client
type DashboardConfig struct {
	Port            string
	RefreshInterval time.Duration // 거래대금 순위 갱신 주기
	SequenceGuard   bool          // 늦게 도착한 응답 폐기 여부
	UseMock         bool          // 목업 데이터 사용
	MockServerPort  string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		API: APIConfig{
			BaseURL:   getEnv("API_BASE_URL", "http://localhost:8000"),
			Debug:     getEnvAsBool("API_DEBUG", false),
			RateLimit: getEnvAsFloat("API_RATE_LIMIT", 0),
		},

		Dashboard: DashboardConfig{
			Port:            getEnv("DASHBOARD_PORT", "3000"),
			RefreshInterval: getEnvAsDuration("RANKING_REFRESH_INTERVAL", "60s"),
			SequenceGuard:   getEnvAsBool("RANKING_SEQUENCE_GUARD", true),
			UseMock:         getEnvAsBool("USE_MOCK_DATA", false),
			MockServerPort:  getEnv("MOCK_SERVER_PORT", "8000"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL is invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}

	if c.Dashboard.RefreshInterval <= 0 {
		return fmt.Errorf("RANKING_REFRESH_INTERVAL must be positive")
	}

	if c.API.RateLimit < 0 {
		return fmt.Errorf("API_RATE_LIMIT must not be negative")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsDuration accepts Go durations ("60s") or bare milliseconds ("60000")
func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	if ms, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(ms) * time.Millisecond
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
