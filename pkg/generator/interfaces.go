package generator

import (
	"context"

	"github.com/shouni/gemini-thumbnail-kit/pkg/domain"
)

// ThumbnailGenerator はビジネスロジック層が利用する統合窓口です。
type ThumbnailGenerator interface {
	// GenerateThumbnails は base64 の入力からスタイル順の data URI 一覧を生成します。
	// styleReferenceBase64 が空文字の場合は参照画像なしとして扱います。
	GenerateThumbnails(ctx context.Context, credential, subjectImageBase64, topic, styleReferenceBase64 string) ([]string, error)
	// Generate はデコード済みのリクエストからスタイル順の画像を生成します。
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
	// Variations は生成に使うスタイルカタログを順序どおりに返します。
	Variations() []StyleVariation
}
