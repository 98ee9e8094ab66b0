package generator

import (
	"fmt"
	"strings"

	"github.com/shouni/gemini-thumbnail-kit/pkg/domain"
	"github.com/shouni/gemini-thumbnail-kit/pkg/imgutil"
)

// BuildRequest は base64 の入力を検証し、デコード済みの GenerationRequest に変換します。
// 認証情報の欠落はデコードより先に検出します。styleReferenceBase64 が空なら参照画像なしです。
func BuildRequest(credential, subjectImageBase64, topic, styleReferenceBase64 string) (domain.GenerationRequest, error) {
	if strings.TrimSpace(credential) == "" {
		return domain.GenerationRequest{}, domain.ErrMissingCredential
	}

	subject, err := DecodeImage(subjectImageBase64)
	if err != nil {
		return domain.GenerationRequest{}, fmt.Errorf("headshot: %w", err)
	}
	if subject == nil {
		return domain.GenerationRequest{}, domain.ErrMissingSubjectImage
	}

	if strings.TrimSpace(topic) == "" {
		return domain.GenerationRequest{}, domain.ErrMissingTopic
	}

	style, err := DecodeImage(styleReferenceBase64)
	if err != nil {
		return domain.GenerationRequest{}, fmt.Errorf("style inspiration: %w", err)
	}

	return domain.GenerationRequest{
		Credential:     credential,
		SubjectImage:   *subject,
		Topic:          topic,
		StyleReference: style,
	}, nil
}

// DecodeImage は base64 または data URI の画像をデコードし、MIME タイプは base64 の先頭から判定します。
// 空入力なら nil を返します。
func DecodeImage(b64 string) (*domain.ImagePayload, error) {
	s := imgutil.StripDataURIPrefix(b64)
	if s == "" {
		return nil, nil
	}

	data, err := imgutil.DecodeBase64(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnknownImageFormat, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &domain.ImagePayload{Data: data, MimeType: imgutil.SniffMimeType(s)}, nil
}
