package imgutil

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"
)

const dataURIScheme = "data:"

// DataURI は画像を data:<mime>;base64,<data> 形式の文字列にします。
func DataURI(mimeType string, data []byte) string {
	return dataURIScheme + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI は base64 形式の data URI を MIME タイプとバイナリに戻します。
func ParseDataURI(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, dataURIScheme) {
		return "", nil, fmt.Errorf("not a data uri")
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, dataURIScheme), ",")
	if !ok {
		return "", nil, fmt.Errorf("data uri has no payload separator")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data uri is not base64 encoded")
	}
	data, err := DecodeBase64(payload)
	if err != nil {
		return "", nil, err
	}
	return mimeType, data, nil
}

// StripDataURIPrefix は "data:image/jpeg;base64," のような接頭辞を取り除きます。
// 接頭辞がなければ入力をそのまま返します。
func StripDataURIPrefix(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, dataURIScheme) {
		return s
	}
	if _, payload, ok := strings.Cut(s, ","); ok {
		return payload
	}
	return s
}

// DecodeBase64 は改行や空白を含む base64 文字列をデコードします。
// パディングが欠けている場合も受け付けます。
func DecodeBase64(s string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	data, err := base64.StdEncoding.DecodeString(cleaned)
	if err == nil {
		return data, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(cleaned, "=")); rawErr == nil {
		return raw, nil
	}
	return nil, fmt.Errorf("base64 decode failed: %w", err)
}
