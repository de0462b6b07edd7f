// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
// グローバル変数には格納せず、各コンポーネントへ明示的に注入する。
type Config struct {
	// Database
	DatabaseURL    string
	DBMaxOpenConns int
	DBQueryTimeout time.Duration

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackPath string
	ProviderTimeout    time.Duration

	// Services
	APIBaseURL string // このサービス自身の公開URL
	UIBaseURL  string // 認証完了後のリダイレクト先（固定）

	// Server
	ServerPort string

	// Logging
	LogConsoleEnabled bool
	LogFileEnabled    bool
	LogFilePath       string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	if cfg.GoogleClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}

	cfg.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	if cfg.GoogleClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}

	cfg.APIBaseURL = os.Getenv("API_BASE_URL")
	if cfg.APIBaseURL == "" {
		missing = append(missing, "API_BASE_URL")
	}

	cfg.UIBaseURL = os.Getenv("UI_BASE_URL")
	if cfg.UIBaseURL == "" {
		missing = append(missing, "UI_BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	cfg.DBQueryTimeout = getEnvDuration("DB_QUERY_TIMEOUT", 5*time.Second)
	cfg.GoogleCallbackPath = getEnvString("GOOGLE_CALLBACK_PATH", "/google/callback")
	cfg.ProviderTimeout = getEnvDuration("PROVIDER_TIMEOUT", 10*time.Second)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.LogConsoleEnabled = getEnvBool("LOG_CONSOLE_ENABLED", true)
	cfg.LogFileEnabled = getEnvBool("LOG_FILE_ENABLED", false)
	cfg.LogFilePath = getEnvString("LOG_FILE_PATH", "logs/app.log")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", cfg.UIBaseURL)

	return cfg, nil
}

// GoogleRedirectURL はIdPへ渡すコールバックURLを組み立てて返す。
// API_BASE_URLとGOOGLE_CALLBACK_PATHの結合。
func (c *Config) GoogleRedirectURL() string {
	return strings.TrimSuffix(c.APIBaseURL, "/") + c.GoogleCallbackPath
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
