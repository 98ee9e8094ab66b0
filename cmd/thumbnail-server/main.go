package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do"

	"github.com/shouni/gemini-thumbnail-kit/internal/config"
	"github.com/shouni/gemini-thumbnail-kit/internal/inject"
	"github.com/shouni/gemini-thumbnail-kit/internal/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("設定の読み込みに失敗しました", "error", err)
		os.Exit(1)
	}

	logger := log.New(os.Stderr, log.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.NewContext(ctx, logger)

	injector := inject.Setup(ctx, cfg)
	defer func() {
		if err := injector.Shutdown(); err != nil {
			logger.Warn("依存関係の終了処理に失敗しました", "error", err)
		}
	}()

	handler, err := do.Invoke[http.Handler](injector)
	if err != nil {
		logger.Error("サーバーを初期化できませんでした", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 30*time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("サーバーの停止に失敗しました", "error", err)
		}
	}()

	logger.Info("サムネイル生成サーバーを起動します", "addr", srv.Addr, "model", cfg.Model)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("サーバーが異常終了しました", "error", err)
		os.Exit(1)
	}
	logger.Info("サーバーを停止しました")
}
