package imgutil

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffMimeType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"PNGシグネチャ", base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")), MimePNG},
		{"JPEGシグネチャ", base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}), MimeJPEG},
		{"GIF89a", base64.StdEncoding.EncodeToString([]byte("GIF89a\x01\x00")), MimeGIF},
		{"GIF87a", base64.StdEncoding.EncodeToString([]byte("GIF87a\x01\x00")), MimeGIF},
		{"先頭の空白は無視", "  \n/9j/4AAQSkZJRg", MimeJPEG},
		{"未知のシグネチャはPNG扱い", base64.StdEncoding.EncodeToString([]byte("RIFF....WEBPVP8 ")), MimePNG},
		{"空文字もPNG扱い", "", MimePNG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SniffMimeType(tt.input))
		})
	}
}

func TestSniffMimeTypeBytes(t *testing.T) {
	assert.Equal(t, MimeGIF, SniffMimeTypeBytes([]byte("GIF89a...")))
	assert.Equal(t, MimePNG, SniffMimeTypeBytes([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")))
	assert.Equal(t, MimeJPEG, SniffMimeTypeBytes([]byte{0xFF, 0xD8, 0xFF, 0xE0}))
	assert.Equal(t, MimePNG, SniffMimeTypeBytes([]byte("RIFF....WEBP")), "unknown falls back to png")
	assert.Equal(t, MimePNG, SniffMimeTypeBytes(nil))
}
