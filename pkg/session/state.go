// Package session は入力フォームの状態を不変の値と純粋な遷移関数で表現します。
package session

import (
	"errors"
	"slices"
	"strings"

	"github.com/shouni/gemini-thumbnail-kit/pkg/domain"
)

const (
	MsgRequiredFields = "API Key, Headshot, and Video Topic are required."
	msgFailedPrefix   = "Failed to generate thumbnails. "
	msgUnknownError   = "An unknown error occurred. Check your API key and try again."
)

// ErrIncomplete は必須項目が揃っていない状態で生成を開始しようとしたことを表します。
var ErrIncomplete = errors.New(MsgRequiredFields)

// State はフォーム入力・読み込み中フラグ・直近のエラーと結果を保持します。
// 遷移関数は常に新しい値を返し、引数の State を書き換えません。
type State struct {
	Credential     string
	Subject        *domain.ImagePayload
	StyleReference *domain.ImagePayload
	Topic          string
	Thumbnails     []string
	Loading        bool
	Err            string
}

// WithCredential は API キーを設定した State を返します。
func WithCredential(s State, credential string) State {
	s.Credential = credential
	return s
}

// WithTopic は動画のトピックを設定した State を返します。
func WithTopic(s State, topic string) State {
	s.Topic = topic
	return s
}

// WithSubject は顔写真を設定した State を返します。nil で未選択に戻ります。
func WithSubject(s State, p *domain.ImagePayload) State {
	s.Subject = p
	return s
}

// WithStyleReference はスタイル参照画像を設定した State を返します。nil で未選択に戻ります。
func WithStyleReference(s State, p *domain.ImagePayload) State {
	s.StyleReference = p
	return s
}

// Ready は必須項目がすべて入力済みかどうかを返します。
func Ready(s State) bool {
	return s.Credential != "" && s.Subject != nil && !s.Subject.IsEmpty() && strings.TrimSpace(s.Topic) != ""
}

// CanGenerate は生成ボタンを押せる状態かどうかです。読み込み中は重複実行を防ぐため押せません。
func CanGenerate(s State) bool {
	return Ready(s) && !s.Loading
}

// Begin は生成開始の遷移です。前回の結果はここで消去されます。
func Begin(s State) (State, error) {
	if !Ready(s) {
		s.Err = MsgRequiredFields
		return s, ErrIncomplete
	}
	s.Loading = true
	s.Err = ""
	s.Thumbnails = nil
	return s, nil
}

// Succeed は生成成功の遷移です。
func Succeed(s State, thumbnails []string) State {
	s.Loading = false
	s.Thumbnails = slices.Clone(thumbnails)
	return s
}

// Fail は生成失敗の遷移です。結果は Begin の時点で消去済みのため、ここでは触りません。
func Fail(s State, err error) State {
	s.Loading = false
	s.Err = ErrorMessage(err)
	return s
}

// ErrorMessage はユーザーに表示するエラー文言を組み立てます。
func ErrorMessage(err error) string {
	if err == nil {
		return msgFailedPrefix + msgUnknownError
	}
	return msgFailedPrefix + err.Error()
}

// Request は現在の入力から生成リクエストを作ります。
func Request(s State) domain.GenerationRequest {
	req := domain.GenerationRequest{
		Credential:     s.Credential,
		Topic:          s.Topic,
		StyleReference: s.StyleReference,
	}
	if s.Subject != nil {
		req.SubjectImage = *s.Subject
	}
	return req
}
