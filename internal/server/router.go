package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/shouni/gemini-thumbnail-kit/internal/log"
)

// NewRouter はルートとミドルウェアを登録した mux.Router を返します。
func NewRouter(h *Handler, logger *slog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(withLogger(logger), withCORS)
	h.RegisterRoutes(r)
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

// WriteHeader はステータスコードを記録してから書き込みます。
func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogger はリクエストごとのロガーをコンテキストに載せ、完了時にアクセスログを出します。
func withLogger(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger.With("method", r.Method, "path", r.URL.Path)
			ctx := log.NewContext(r.Context(), reqLogger)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r.WithContext(ctx))

			reqLogger.InfoContext(ctx, "request completed",
				"status", rec.status, "duration", time.Since(start).String())
		})
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+SessionHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
