package imgutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
)

const (
	DefaultCompressionQuality = 75
	mimeJPEG                  = "image/jpeg"
)

// CompressToJPEG は画像データ（PNG, GIF, JPEG等）をJPEG形式に圧縮します。
// image.Decodeがサポートするフォーマットに対応しています。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("invalid jpeg quality: %d", quality)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ShrinkImage は JPEG に再エンコードしてサイズが小さくなる場合のみ置き換えます。
// GIF はアニメーションが失われるため対象外です。失敗時は元のデータをそのまま返します。
func ShrinkImage(data []byte, mimeType string, quality int) ([]byte, string) {
	if mimeType == MimeGIF {
		return data, mimeType
	}
	compressed, err := CompressToJPEG(data, quality)
	if err != nil || len(compressed) >= len(data) {
		return data, mimeType
	}
	return compressed, mimeJPEG
}
