package imgutil

import (
	"encoding/base64"
	"strings"
)

const (
	MimeGIF  = "image/gif"
	MimePNG  = "image/png"
	MimeJPEG = mimeJPEG
)

// base64 エンコード後の先頭文字列とフォーマットの対応表。上から順に評価します。
var base64Signatures = []struct {
	prefix   string
	mimeType string
}{
	{"R0lGOD", MimeGIF},
	{"iVBORw0KGgo", MimePNG},
	{"/9j/", MimeJPEG},
}

// SniffMimeType は base64 文字列の先頭シグネチャから MIME タイプを判定します。
// 一致しない場合は image/png を返し、失敗することはありません。
func SniffMimeType(b64 string) string {
	s := strings.TrimSpace(b64)
	for _, sig := range base64Signatures {
		if strings.HasPrefix(s, sig.prefix) {
			return sig.mimeType
		}
	}
	return MimePNG
}

// SniffMimeTypeBytes はデコード済みのバイト列を SniffMimeType と同じ表で判定します。
func SniffMimeTypeBytes(data []byte) string {
	head := data[:min(len(data), 12)]
	return SniffMimeType(base64.StdEncoding.EncodeToString(head))
}
