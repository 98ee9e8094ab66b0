package domain

// ImagePayload はリクエストに添付する画像のバイナリと MIME タイプです。
type ImagePayload struct {
	Data     []byte
	MimeType string
}

// IsEmpty はバイナリを持たないペイロードかどうかを返します。
func (p ImagePayload) IsEmpty() bool {
	return len(p.Data) == 0
}

// ImageGenerationRequest は 1 スタイル分の画像生成要求です。
// パーツは SubjectImage, Prompt, ReferenceImages の順で組み立てられます。
type ImageGenerationRequest struct {
	SubjectImage    ImagePayload
	Prompt          string
	ReferenceImages []ImagePayload
	AspectRatio     string
}

// ImageResponse は生成された画像データとその MIME タイプです。
type ImageResponse struct {
	Data     []byte
	MimeType string
}
