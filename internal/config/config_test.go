package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"THUMBNAIL_PORT", "THUMBNAIL_MODEL", "THUMBNAIL_ASPECT_RATIO", "THUMBNAIL_REQUEST_TIMEOUT",
		"THUMBNAIL_MAX_UPLOAD_MB", "THUMBNAIL_COMPRESS_INPUTS", "THUMBNAIL_COMPRESS_QUALITY",
		"THUMBNAIL_REDIS_ADDR", "THUMBNAIL_BATCH_LOCK_TTL", "THUMBNAIL_MAX_CONCURRENCY",
	} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "gemini-2.5-flash-image-preview", cfg.Model)
	assert.Equal(t, "16:9", cfg.AspectRatio)
	assert.Equal(t, 2*time.Minute, cfg.RequestTimeout)
	assert.Equal(t, int64(20<<20), cfg.MaxUploadBytes())
	assert.False(t, cfg.CompressInputs)
	assert.Equal(t, 75, cfg.CompressQuality)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 5*time.Minute, cfg.BatchLockTTL)
	assert.Zero(t, cfg.MaxConcurrency)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("THUMBNAIL_PORT", "9090")
	t.Setenv("THUMBNAIL_REQUEST_TIMEOUT", "30s")
	t.Setenv("THUMBNAIL_COMPRESS_INPUTS", "true")
	t.Setenv("THUMBNAIL_COMPRESS_QUALITY", "60")
	t.Setenv("THUMBNAIL_REDIS_ADDR", "localhost:6379")
	t.Setenv("THUMBNAIL_MAX_CONCURRENCY", "3")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.CompressInputs)
	assert.Equal(t, 60, cfg.CompressQuality)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.MaxConcurrency)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"数値でない上限", "THUMBNAIL_MAX_UPLOAD_MB", "lots", "THUMBNAIL_MAX_UPLOAD_MB"},
		{"解析できない期間", "THUMBNAIL_REQUEST_TIMEOUT", "soon", "THUMBNAIL_REQUEST_TIMEOUT"},
		{"範囲外の品質", "THUMBNAIL_COMPRESS_QUALITY", "101", "THUMBNAIL_COMPRESS_QUALITY"},
		{"負の並列数", "THUMBNAIL_MAX_CONCURRENCY", "-1", "THUMBNAIL_MAX_CONCURRENCY"},
		{"真偽値でない圧縮指定", "THUMBNAIL_COMPRESS_INPUTS", "maybe", "THUMBNAIL_COMPRESS_INPUTS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
