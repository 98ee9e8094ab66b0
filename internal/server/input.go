package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/shouni/gemini-thumbnail-kit/pkg/domain"
	"github.com/shouni/gemini-thumbnail-kit/pkg/generator"
	"github.com/shouni/gemini-thumbnail-kit/pkg/imgutil"
)

const (
	fieldAPIKey           = "apiKey"
	fieldTopic            = "topic"
	fieldHeadshot         = "headshot"
	fieldStyleInspiration = "styleInspiration"

	multipartMemory = 8 << 20
)

var (
	errNotAnImage  = errors.New("uploaded file is not an image")
	errInvalidBody = errors.New("request body could not be parsed")
)

// thumbnailBody は JSON で送る場合のリクエストです。画像は base64 か data URI です。
type thumbnailBody struct {
	APIKey           string `json:"apiKey"`
	Topic            string `json:"topic"`
	Headshot         string `json:"headshot"`
	StyleInspiration string `json:"styleInspiration,omitempty"`
}

type formInput struct {
	credential string
	topic      string
	subject    *domain.ImagePayload
	style      *domain.ImagePayload
}

func readInput(r *http.Request) (formInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return readMultipart(r)
	}
	return readJSON(r)
}

func readJSON(r *http.Request) (formInput, error) {
	var body thumbnailBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return formInput{}, err
		}
		return formInput{}, fmt.Errorf("%w: %w", errInvalidBody, err)
	}

	subject, err := generator.DecodeImage(body.Headshot)
	if err != nil {
		return formInput{}, fmt.Errorf("%s: %w", fieldHeadshot, err)
	}
	style, err := generator.DecodeImage(body.StyleInspiration)
	if err != nil {
		return formInput{}, fmt.Errorf("%s: %w", fieldStyleInspiration, err)
	}

	return formInput{
		credential: body.APIKey,
		topic:      body.Topic,
		subject:    subject,
		style:      style,
	}, nil
}

func readMultipart(r *http.Request) (formInput, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return formInput{}, err
		}
		return formInput{}, fmt.Errorf("%w: %w", errInvalidBody, err)
	}
	// 大きなファイルは一時ファイルに書き出されるため、読み終えたら必ず消す。
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	subject, err := readUpload(r, fieldHeadshot)
	if err != nil {
		return formInput{}, err
	}
	style, err := readUpload(r, fieldStyleInspiration)
	if err != nil {
		return formInput{}, err
	}

	return formInput{
		credential: r.FormValue(fieldAPIKey),
		topic:      r.FormValue(fieldTopic),
		subject:    subject,
		style:      style,
	}, nil
}

// readUpload はファイルが添付されていなければ nil を返します。
func readUpload(r *http.Request, field string) (*domain.ImagePayload, error) {
	f, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return nil, fmt.Errorf("%s: %w", field, errNotAnImage)
	}

	return &domain.ImagePayload{Data: data, MimeType: imgutil.SniffMimeTypeBytes(data)}, nil
}
