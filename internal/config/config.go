// Package config は環境変数（と任意の .env）からサーバー設定を読み込みます。
// Gemini の API キーは利用者がリクエストごとに渡すため、ここでは扱いません。
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shouni/gemini-thumbnail-kit/pkg/adapters"
	"github.com/shouni/gemini-thumbnail-kit/pkg/generator"
	"github.com/shouni/gemini-thumbnail-kit/pkg/imgutil"
)

// Config はサーバー全体の設定値です。
type Config struct {
	// Server
	Port           string
	RequestTimeout time.Duration
	MaxUploadMB    int64

	// Gemini
	Model          string
	AspectRatio    string
	GeminiBaseURL  string
	MaxConcurrency int

	// 入力画像の圧縮
	CompressInputs  bool
	CompressQuality int

	// Redis（空ならプロセス内ガード）
	RedisAddr     string
	RedisPassword string
	BatchLockTTL  time.Duration

	LogLevel string
}

// Load は .env があれば読み込んだうえで環境変数から設定を組み立てます。
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env が見つからないため環境変数のみを使用します")
	}
	return FromEnv()
}

// FromEnv は現在の環境変数だけから設定を組み立てて検証します。
func FromEnv() (*Config, error) {
	var errs []string
	parseInt := func(key string, def int) int {
		v, err := strconv.Atoi(getEnv(key, strconv.Itoa(def)))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			return def
		}
		return v
	}
	parseDuration := func(key string, def time.Duration) time.Duration {
		v, err := time.ParseDuration(getEnv(key, def.String()))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			return def
		}
		return v
	}
	parseBool := func(key string, def bool) bool {
		v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(def)))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			return def
		}
		return v
	}

	cfg := &Config{
		Port:            getEnv("THUMBNAIL_PORT", "8080"),
		RequestTimeout:  parseDuration("THUMBNAIL_REQUEST_TIMEOUT", 2*time.Minute),
		MaxUploadMB:     int64(parseInt("THUMBNAIL_MAX_UPLOAD_MB", 20)),
		Model:           getEnv("THUMBNAIL_MODEL", adapters.DefaultModel),
		AspectRatio:     getEnv("THUMBNAIL_ASPECT_RATIO", generator.DefaultAspectRatio),
		GeminiBaseURL:   getEnv("THUMBNAIL_GEMINI_BASE_URL", ""),
		MaxConcurrency:  parseInt("THUMBNAIL_MAX_CONCURRENCY", 0),
		CompressInputs:  parseBool("THUMBNAIL_COMPRESS_INPUTS", false),
		CompressQuality: parseInt("THUMBNAIL_COMPRESS_QUALITY", imgutil.DefaultCompressionQuality),
		RedisAddr:       getEnv("THUMBNAIL_REDIS_ADDR", ""),
		RedisPassword:   getEnv("THUMBNAIL_REDIS_PASSWORD", ""),
		BatchLockTTL:    parseDuration("THUMBNAIL_BATCH_LOCK_TTL", 5*time.Minute),
		LogLevel:        getEnv("THUMBNAIL_LOG_LEVEL", "info"),
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("設定値の解析に失敗しました: %s", strings.Join(errs, "; "))
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr は http.Server に渡すリッスンアドレスです。
func (c *Config) Addr() string {
	return ":" + c.Port
}

// MaxUploadBytes はリクエストボディの上限バイト数です。
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("THUMBNAIL_PORT is required")
	}
	if c.Model == "" {
		return fmt.Errorf("THUMBNAIL_MODEL is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("THUMBNAIL_REQUEST_TIMEOUT must be positive")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("THUMBNAIL_MAX_UPLOAD_MB must be positive")
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("THUMBNAIL_MAX_CONCURRENCY must not be negative")
	}
	if c.CompressQuality < 1 || c.CompressQuality > 100 {
		return fmt.Errorf("THUMBNAIL_COMPRESS_QUALITY must be between 1 and 100")
	}
	if c.RedisAddr != "" && c.BatchLockTTL <= 0 {
		return fmt.Errorf("THUMBNAIL_BATCH_LOCK_TTL must be positive when Redis is used")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
