package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-thumbnail-kit/pkg/adapters"
	"github.com/shouni/gemini-thumbnail-kit/pkg/domain"
	"github.com/shouni/gemini-thumbnail-kit/pkg/imgutil"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DefaultAspectRatio は YouTube サムネイルの標準アスペクト比です。
const DefaultAspectRatio = "16:9"

var _ ThumbnailGenerator = (*GeminiThumbnailGenerator)(nil)

var tracer = otel.Tracer("github.com/shouni/gemini-thumbnail-kit/generator")

// Option は GeminiThumbnailGenerator の挙動を調整します。
type Option func(*GeminiThumbnailGenerator)

// WithAspectRatio は生成画像のアスペクト比を指定します。
func WithAspectRatio(ratio string) Option {
	return func(g *GeminiThumbnailGenerator) {
		g.aspectRatio = ratio
	}
}

// WithMaxConcurrency は同時に発行するリクエスト数の上限です。0 以下なら全スタイルを同時に発行します。
func WithMaxConcurrency(n int) Option {
	return func(g *GeminiThumbnailGenerator) {
		g.maxConcurrency = n
	}
}

// GeminiThumbnailGenerator はスタイルカタログの数だけ Gemini へ並列にリクエストし、
// 結果をカタログ順にまとめるオーケストレーターです。
// 認証情報や画像はリクエストの間だけ扱い、呼び出し後に保持しません。
type GeminiThumbnailGenerator struct {
	imgCore        adapters.ImageGeneratorCore
	newModel       adapters.ModelFactory
	model          string
	aspectRatio    string
	maxConcurrency int
	variations     []StyleVariation
}

// NewGeminiThumbnailGenerator は依存関係を注入して初期化します。
func NewGeminiThumbnailGenerator(
	core adapters.ImageGeneratorCore,
	newModel adapters.ModelFactory,
	model string,
	opts ...Option,
) (*GeminiThumbnailGenerator, error) {
	if core == nil {
		return nil, fmt.Errorf("core (ImageGeneratorCore) is required")
	}
	if newModel == nil {
		return nil, fmt.Errorf("newModel (ModelFactory) is required")
	}

	g := &GeminiThumbnailGenerator{
		imgCore:     core,
		newModel:    newModel,
		model:       lo.Ternary(model != "", model, adapters.DefaultModel),
		aspectRatio: DefaultAspectRatio,
		variations:  DefaultVariations(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Variations はスタイルカタログのコピーを返します。
func (g *GeminiThumbnailGenerator) Variations() []StyleVariation {
	return lo.Map(g.variations, func(v StyleVariation, _ int) StyleVariation { return v })
}

// GenerateThumbnails は入力を検証してから全スタイルを並列に生成し、data URI の一覧を返します。
func (g *GeminiThumbnailGenerator) GenerateThumbnails(ctx context.Context, credential, subjectImageBase64, topic, styleReferenceBase64 string) ([]string, error) {
	req, err := BuildRequest(credential, subjectImageBase64, topic, styleReferenceBase64)
	if err != nil {
		return nil, err
	}

	result, err := g.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	return lo.Map(result.Images, func(img domain.ImageResponse, _ int) string {
		return imgutil.DataURI(img.MimeType, img.Data)
	}), nil
}

// Generate は全スタイルを並列に生成します。
// 1 つでも失敗した場合は部分的な結果を返さず、最初のエラーを GenerationError として返します。
func (g *GeminiThumbnailGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	aiClient, err := g.newModel(ctx, req.Credential)
	if err != nil {
		slog.ErrorContext(ctx, "Geminiクライアントを作成できませんでした", "error", err)
		return nil, &domain.GenerationError{Index: -1, Err: err}
	}

	imgGen, err := adapters.NewGeminiImageGenerator(g.imgCore, aiClient, g.model)
	if err != nil {
		return nil, err
	}

	var refs []domain.ImagePayload
	if req.HasStyleReference() {
		refs = []domain.ImagePayload{*req.StyleReference}
	}

	slog.InfoContext(ctx, "サムネイル一括生成を開始します",
		"model", g.model, "variations", len(g.variations), "style_reference", len(refs) > 0)

	// 結果は到着順ではなくバリエーションの位置に書き込む。
	images := make([]domain.ImageResponse, len(g.variations))
	eg, egCtx := errgroup.WithContext(ctx)
	if g.maxConcurrency > 0 {
		eg.SetLimit(g.maxConcurrency)
	}

	for i, v := range g.variations {
		eg.Go(func() error {
			img, err := g.generateVariation(egCtx, imgGen, req.Topic, req.SubjectImage, refs, i, v)
			if err != nil {
				if !(errors.Is(err, context.Canceled) && egCtx.Err() != nil) {
					slog.WarnContext(ctx, "バリエーションの生成に失敗しました", "index", i, "variation", v.Label, "error", err)
				}
				return &domain.GenerationError{Index: i, Label: v.Label, Err: err}
			}
			images[i] = *img
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "サムネイル一括生成が完了しました", "images", len(images))
	return &domain.GenerationResult{Images: images}, nil
}

func (g *GeminiThumbnailGenerator) generateVariation(
	ctx context.Context,
	imgGen adapters.ImageGenerator,
	topic string,
	subject domain.ImagePayload,
	refs []domain.ImagePayload,
	index int,
	v StyleVariation,
) (*domain.ImageResponse, error) {
	ctx, span := tracer.Start(ctx, "thumbnail.variation", trace.WithAttributes(
		attribute.Int("thumbnail.variation.index", index),
		attribute.String("thumbnail.variation.label", v.Label),
	))
	defer span.End()

	img, err := imgGen.GenerateImage(ctx, domain.ImageGenerationRequest{
		SubjectImage:    subject,
		Prompt:          BuildPrompt(topic, g.aspectRatio, v),
		ReferenceImages: refs,
		AspectRatio:     g.aspectRatio,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "variation failed")
		return nil, err
	}
	return img, nil
}
