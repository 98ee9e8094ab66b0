package adapters

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shouni/gemini-thumbnail-kit/pkg/domain"
	"github.com/shouni/gemini-thumbnail-kit/pkg/imgutil"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// ImageGeneratorCore は画像パーツの変換とレスポンス解析を抽象化するインターフェースです。
type ImageGeneratorCore interface {
	ToPart(payload domain.ImagePayload) *genai.Part
	ParseToResponse(resp *gemini.Response) (*domain.ImageResponse, error)
}

// CoreOption は GeminiImageCore の挙動を調整します。
type CoreOption func(*GeminiImageCore)

// WithCompression は送信前に入力画像を JPEG に再圧縮します。
func WithCompression(quality int) CoreOption {
	return func(c *GeminiImageCore) {
		c.compress = true
		c.quality = quality
	}
}

// GeminiImageCore は画像生成の共通ロジックを保持するコンポーネントです。
// 生成後に設定は変わらないため、複数のゴルーチンから同時に利用できます。
type GeminiImageCore struct {
	compress bool
	quality  int
}

// NewGeminiImageCore は GeminiImageCore のインスタンスを生成します。
func NewGeminiImageCore(opts ...CoreOption) *GeminiImageCore {
	c := &GeminiImageCore{quality: imgutil.DefaultCompressionQuality}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ToPart は画像ペイロードを genai.Part (InlineData) に変換します。
// MIME タイプが未指定の場合はバイナリから判定します。
func (c *GeminiImageCore) ToPart(payload domain.ImagePayload) *genai.Part {
	if payload.IsEmpty() {
		return nil
	}

	data, mimeType := payload.Data, payload.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
		if !strings.HasPrefix(mimeType, "image/") {
			slog.Warn("MIMEタイプが画像ではないためPartに変換できませんでした", "detected_mime_type", mimeType)
			return nil
		}
	}
	if c.compress {
		data, mimeType = imgutil.ShrinkImage(data, mimeType, c.quality)
	}

	return &genai.Part{
		InlineData: &genai.Blob{
			MIMEType: mimeType,
			Data:     data,
		},
	}
}

// ParseToResponse は Gemini のレスポンスから最初のインライン画像を取り出します。
// テキストパーツは読み飛ばします。
func (c *GeminiImageCore) ParseToResponse(resp *gemini.Response) (*domain.ImageResponse, error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return nil, fmt.Errorf("%w: empty response", domain.ErrNoImageReturned)
	}

	// 最初の候補 (Candidate) のみを利用する。
	candidate := resp.RawResponse.Candidates[0]
	if candidate == nil {
		return nil, fmt.Errorf("%w: empty candidate", domain.ErrNoImageReturned)
	}

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &domain.ImageResponse{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return nil, fmt.Errorf("%w (FinishReason: %s)", domain.ErrNoImageReturned, candidate.FinishReason)
	}

	return nil, domain.ErrNoImageReturned
}
