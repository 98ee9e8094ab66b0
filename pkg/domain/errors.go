package domain

import "errors"

var (
	ErrMissingCredential   = errors.New("API Key is missing.")
	ErrMissingSubjectImage = errors.New("headshot image is missing")
	ErrMissingTopic        = errors.New("video topic is missing")
	ErrUnknownImageFormat  = errors.New("could not determine mime type of image")
	ErrNoImageReturned     = errors.New("no image was generated for one of the variations")

	// ErrGenerationFailed はユーザーに見せる汎用メッセージです。
	// ベンダー固有のエラー詳細は GenerationError.Err に閉じ込め、ログにのみ出力します。
	ErrGenerationFailed = errors.New("API call failed. Please check if your API key is valid and has permissions.")
)

// GenerationError はバッチ内で最初に失敗したバリエーションの情報を保持します。
// Error() は常に汎用メッセージを返しますが、errors.Is / errors.As で元のエラーを辿れます。
type GenerationError struct {
	Index int // 失敗したバリエーションの位置。クライアント生成時の失敗は -1
	Label string
	Err   error
}

// Error はユーザーに見せる汎用メッセージを返します。
func (e *GenerationError) Error() string {
	return ErrGenerationFailed.Error()
}

// Unwrap は ErrGenerationFailed と元のエラーの両方を返します。
func (e *GenerationError) Unwrap() []error {
	return []error{ErrGenerationFailed, e.Err}
}
