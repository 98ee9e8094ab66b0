package adapters

import (
	"context"
	"fmt"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

// DefaultModel は画像と文章を混在して返せる Gemini モデルです。
const DefaultModel = "gemini-2.5-flash-image-preview"

var tracer = otel.Tracer("github.com/shouni/gemini-thumbnail-kit/adapters")

// Model は画像生成に必要な Gemini クライアントの最小限の振る舞いです。
type Model interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// ModelFactory はユーザーが渡した認証情報ごとにクライアントを作ります。
// 認証情報は呼び出し側で保持しません。
type ModelFactory func(ctx context.Context, credential string) (Model, error)

// GenAIModel は google.golang.org/genai を直接利用する Model 実装です。
type GenAIModel struct {
	models *genai.Models
}

// NewGenAIModel は Gemini API バックエンドのクライアントを生成します。
// ModelFactory としてそのまま利用できます。
func NewGenAIModel(ctx context.Context, credential string) (Model, error) {
	return NewGenAIModelFactory("")(ctx, credential)
}

// NewGenAIModelFactory は接続先を差し替えられる ModelFactory を返します。
// baseURL が空の場合は SDK の既定エンドポイントを使います。
func NewGenAIModelFactory(baseURL string) ModelFactory {
	return func(ctx context.Context, credential string) (Model, error) {
		cfg := &genai.ClientConfig{
			APIKey:  credential,
			Backend: genai.BackendGeminiAPI,
		}
		if baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
		}

		client, err := genai.NewClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
		}
		return &GenAIModel{models: client.Models}, nil
	}
}

// GenerateWithParts はパーツを 1 つのユーザーコンテンツにまとめて送信します。
// レスポンスには画像とテキストの両方を許可します。
func (m *GenAIModel) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	ctx, span := tracer.Start(ctx, "gemini.generate_content", trace.WithAttributes(
		attribute.String("gemini.model", model),
		attribute.Int("gemini.parts", len(parts)),
	))
	defer span.End()

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityImage), string(genai.ModalityText)},
	}
	if opts.AspectRatio != "" {
		config.ImageConfig = &genai.ImageConfig{AspectRatio: opts.AspectRatio}
		span.SetAttributes(attribute.String("gemini.aspect_ratio", opts.AspectRatio))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := m.models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate content failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("gemini.candidates", len(resp.Candidates)))
	return &gemini.Response{RawResponse: resp}, nil
}
