// Package server は入力フォームの送信を受け付け、サムネイル一括生成を実行する HTTP API です。
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/samber/lo"

	"github.com/shouni/gemini-thumbnail-kit/internal/log"
	"github.com/shouni/gemini-thumbnail-kit/pkg/domain"
	"github.com/shouni/gemini-thumbnail-kit/pkg/generator"
	"github.com/shouni/gemini-thumbnail-kit/pkg/imgutil"
	"github.com/shouni/gemini-thumbnail-kit/pkg/session"
)

const (
	msgBatchInFlight = "A thumbnail batch is already running for this session."
	msgTooLarge      = "Uploaded images are too large."
	msgInternal      = "Internal server error."
)

type thumbnailsResponse struct {
	Thumbnails []string `json:"thumbnails"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type styleEntry struct {
	Index     int    `json:"index"`
	Label     string `json:"label"`
	Directive string `json:"directive"`
}

// HandlerConfig は Handler の実行時の制限値です。
type HandlerConfig struct {
	RequestTimeout time.Duration // 1 バッチあたりの生成時間の上限
	MaxUploadBytes int64         // リクエストボディの上限バイト数
}

// Handler はサムネイル生成 API のハンドラー群です。
type Handler struct {
	generator generator.ThumbnailGenerator
	guard     BatchGuard
	cfg       HandlerConfig
}

// NewHandler は依存関係を注入して Handler を初期化します。
// 依存関係が nil の場合や制限値が 0 以下の場合はエラーを返します。
func NewHandler(gen generator.ThumbnailGenerator, guard BatchGuard, cfg HandlerConfig) (*Handler, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator (ThumbnailGenerator) is required")
	}
	if guard == nil {
		return nil, fmt.Errorf("guard (BatchGuard) is required")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("request timeout must be positive")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("max upload bytes must be positive")
	}
	return &Handler{generator: gen, guard: guard, cfg: cfg}, nil
}

// RegisterRoutes は API のルートを登録します。
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/thumbnails", h.HandleGenerate).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/styles", h.HandleStyles).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/healthz", h.HandleHealth).Methods(http.MethodGet)
}

// HandleGenerate - POST /api/thumbnails
// フォームの状態遷移に沿って入力を検証し、全スタイルのサムネイルを生成します。
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContextOrDiscard(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)

	in, err := readInput(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		logger.InfoContext(r.Context(), "入力を読み取れませんでした", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state := session.State{}
	state = session.WithCredential(state, in.credential)
	state = session.WithTopic(state, in.topic)
	state = session.WithSubject(state, in.subject)
	state = session.WithStyleReference(state, in.style)

	state, err = session.Begin(state)
	if err != nil {
		writeError(w, http.StatusBadRequest, state.Err)
		return
	}

	key := RequesterKey(r, in.credential)
	token, acquired, err := h.guard.Acquire(r.Context(), key)
	if err != nil {
		logger.ErrorContext(r.Context(), "バッチロックを取得できませんでした", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if !acquired {
		writeError(w, http.StatusConflict, msgBatchInFlight)
		return
	}
	defer func() {
		if err := h.guard.Release(context.WithoutCancel(r.Context()), key, token); err != nil {
			logger.WarnContext(r.Context(), "バッチロックを解放できませんでした", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	result, err := h.generator.Generate(ctx, session.Request(state))
	if err != nil {
		state = session.Fail(state, err)
		var genErr *domain.GenerationError
		if errors.As(err, &genErr) {
			logger.WarnContext(ctx, "サムネイル一括生成に失敗しました",
				"index", genErr.Index, "variation", genErr.Label, "error", genErr.Err)
		}
		writeError(w, statusFor(err), state.Err)
		return
	}

	state = session.Succeed(state, lo.Map(result.Images, func(img domain.ImageResponse, _ int) string {
		return imgutil.DataURI(img.MimeType, img.Data)
	}))
	writeJSON(w, http.StatusOK, thumbnailsResponse{Thumbnails: state.Thumbnails})
}

// HandleStyles - GET /api/styles
func (h *Handler) HandleStyles(w http.ResponseWriter, r *http.Request) {
	styles := lo.Map(h.generator.Variations(), func(v generator.StyleVariation, i int) styleEntry {
		return styleEntry{Index: i, Label: v.Label, Directive: v.Directive}
	})
	writeJSON(w, http.StatusOK, styles)
}

// HandleHealth - GET /healthz
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingCredential),
		errors.Is(err, domain.ErrMissingSubjectImage),
		errors.Is(err, domain.ErrMissingTopic),
		errors.Is(err, domain.ErrUnknownImageFormat):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
