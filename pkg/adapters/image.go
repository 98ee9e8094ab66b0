package adapters

import (
	"context"
	"fmt"

	"github.com/shouni/gemini-thumbnail-kit/pkg/domain"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// ImageGenerator は 1 枚の画像を生成するためのインターフェースです。
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error)
}

// GeminiImageGenerator は 1 スタイル分の生成リクエストを Gemini API に変換して実行するアダプター層です。
// 認証情報ごとに作られるため、バッチ単位で生成して使い捨てます。
type GeminiImageGenerator struct {
	imgCore  ImageGeneratorCore // 共通ロジック保持（コンポジション）
	aiClient Model              // 通信クライアント
	model    string             // 使用するモデル名
}

// NewGeminiImageGenerator は GeminiImageCore と依存関係を注入して初期化します。
func NewGeminiImageGenerator(core ImageGeneratorCore, aiClient Model, modelName string) (*GeminiImageGenerator, error) {
	if core == nil {
		return nil, fmt.Errorf("core (ImageGeneratorCore) is required")
	}
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (Model) is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &GeminiImageGenerator{
		imgCore:  core,
		aiClient: aiClient,
		model:    modelName,
	}, nil
}

// GenerateImage は被写体画像・指示文・参照画像の順でパーツを組み立てて生成を実行します。
func (a *GeminiImageGenerator) GenerateImage(ctx context.Context, req domain.ImageGenerationRequest) (*domain.ImageResponse, error) {
	subject := a.imgCore.ToPart(req.SubjectImage)
	if subject == nil {
		return nil, domain.ErrUnknownImageFormat
	}

	parts := []*genai.Part{subject, {Text: req.Prompt}}
	for _, ref := range req.ReferenceImages {
		if p := a.imgCore.ToPart(ref); p != nil {
			parts = append(parts, p)
		}
	}

	opts := gemini.GenerateOptions{
		AspectRatio: req.AspectRatio,
	}

	resp, err := a.aiClient.GenerateWithParts(ctx, a.model, parts, opts)
	if err != nil {
		return nil, fmt.Errorf("Gemini画像生成エラー: %w", err)
	}

	out, err := a.imgCore.ParseToResponse(resp)
	if err != nil {
		return nil, err
	}
	return out, nil
}
