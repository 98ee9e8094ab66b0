package domain

import "strings"

// GenerationRequest はサムネイル一括生成の入力です。
// Credential はユーザーが実行時に渡すもので、生成後に保持されることはありません。
type GenerationRequest struct {
	Credential     string
	SubjectImage   ImagePayload
	Topic          string
	StyleReference *ImagePayload // nil の場合は参照画像なし
}

// Validate はリクエスト発行前に必須項目が揃っているかを確認します。
// 認証情報のチェックを最優先で行います。
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Credential) == "" {
		return ErrMissingCredential
	}
	if r.SubjectImage.IsEmpty() {
		return ErrMissingSubjectImage
	}
	if strings.TrimSpace(r.Topic) == "" {
		return ErrMissingTopic
	}
	return nil
}

// HasStyleReference はスタイル参照画像が添付されているかを返します。
func (r GenerationRequest) HasStyleReference() bool {
	return r.StyleReference != nil && !r.StyleReference.IsEmpty()
}

// GenerationResult はスタイルカタログ順に並んだ生成画像です。
type GenerationResult struct {
	Images []ImageResponse
}

// Len は生成された画像の枚数です。
func (r *GenerationResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Images)
}
