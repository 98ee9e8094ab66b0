package adapters

import (
	"context"

	"github.com/shouni/gemini-thumbnail-kit/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// mockImageCore は ImageGeneratorCore インターフェースのテスト用モックなのだ。
type mockImageCore struct {
	toPartFunc func(payload domain.ImagePayload) *genai.Part
	parseFunc  func(resp *gemini.Response) (*domain.ImageResponse, error)
}

// toPartFunc が未設定なら素直に InlineData へ変換するのだ
func (m *mockImageCore) ToPart(payload domain.ImagePayload) *genai.Part {
	if m.toPartFunc != nil {
		return m.toPartFunc(payload)
	}
	if payload.IsEmpty() {
		return nil
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: payload.MimeType, Data: payload.Data}}
}

func (m *mockImageCore) ParseToResponse(resp *gemini.Response) (*domain.ImageResponse, error) {
	if m.parseFunc != nil {
		return m.parseFunc(resp)
	}
	return nil, nil
}

// mockAIClient は Model のテスト用モックなのだ。
type mockAIClient struct {
	generateFunc func(model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

func (m *mockAIClient) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	if m.generateFunc != nil {
		return m.generateFunc(model, parts, opts)
	}
	return nil, nil
}

// imageResponse は InlineData を 1 つ持つレスポンスを作るヘルパーなのだ
func imageResponse(mimeType string, data []byte) *gemini.Response {
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content: &genai.Content{
						Parts: []*genai.Part{
							{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
						},
					},
				},
			},
		},
	}
}
