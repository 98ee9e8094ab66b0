// Package inject は samber/do でサーバーの依存関係を組み立てます。
package inject

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/samber/lo"

	"github.com/shouni/gemini-thumbnail-kit/internal/config"
	"github.com/shouni/gemini-thumbnail-kit/internal/log"
	"github.com/shouni/gemini-thumbnail-kit/internal/server"
	"github.com/shouni/gemini-thumbnail-kit/pkg/adapters"
	"github.com/shouni/gemini-thumbnail-kit/pkg/generator"
)

// redisConn は injector.Shutdown で接続を閉じるためのラッパーです。
type redisConn struct {
	*redis.Client
}

// Shutdown は Redis との接続を閉じます。
func (c redisConn) Shutdown() error {
	return c.Close()
}

// Setup は設定からサーバーの依存関係をすべて登録した Injector を返します。
// Redis などの接続は最初に Invoke されたときに作られます。
func Setup(ctx context.Context, cfg *config.Config) *do.Injector {
	logger := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	})
	do.ProvideValue[*config.Config](injector, cfg)
	do.ProvideValue[*slog.Logger](injector, logger)

	do.Provide[adapters.ModelFactory](injector, func(i *do.Injector) (adapters.ModelFactory, error) {
		return adapters.NewGenAIModelFactory(do.MustInvoke[*config.Config](i).GeminiBaseURL), nil
	})
	do.Provide[adapters.ImageGeneratorCore](injector, func(i *do.Injector) (adapters.ImageGeneratorCore, error) {
		cfg := do.MustInvoke[*config.Config](i)
		opts := lo.Ternary(cfg.CompressInputs,
			[]adapters.CoreOption{adapters.WithCompression(cfg.CompressQuality)}, nil)
		return adapters.NewGeminiImageCore(opts...), nil
	})
	do.Provide[generator.ThumbnailGenerator](injector, func(i *do.Injector) (generator.ThumbnailGenerator, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return generator.NewGeminiThumbnailGenerator(
			do.MustInvoke[adapters.ImageGeneratorCore](i),
			do.MustInvoke[adapters.ModelFactory](i),
			cfg.Model,
			generator.WithAspectRatio(cfg.AspectRatio),
			generator.WithMaxConcurrency(cfg.MaxConcurrency),
		)
	})

	do.Provide[redisConn](injector, func(i *do.Injector) (redisConn, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return redisConn{}, fmt.Errorf("redis ping failed: %w", err)
		}
		logger.Info("Redis に接続しました", "addr", cfg.RedisAddr)
		return redisConn{client}, nil
	})
	do.Provide[server.BatchGuard](injector, func(i *do.Injector) (server.BatchGuard, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.RedisAddr == "" {
			return server.NewMemoryGuard(), nil
		}
		conn, err := do.Invoke[redisConn](i)
		if err != nil {
			return nil, err
		}
		return server.NewRedisGuard(conn.Client, cfg.BatchLockTTL), nil
	})

	do.Provide[*server.Handler](injector, func(i *do.Injector) (*server.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return server.NewHandler(
			do.MustInvoke[generator.ThumbnailGenerator](i),
			do.MustInvoke[server.BatchGuard](i),
			server.HandlerConfig{
				RequestTimeout: cfg.RequestTimeout,
				MaxUploadBytes: cfg.MaxUploadBytes(),
			},
		)
	})
	do.Provide[http.Handler](injector, func(i *do.Injector) (http.Handler, error) {
		return server.NewRouter(do.MustInvoke[*server.Handler](i), do.MustInvoke[*slog.Logger](i)), nil
	})

	return injector
}
