package generator

import (
	"context"
	"strings"
	"sync"

	"github.com/shouni/gemini-thumbnail-kit/pkg/adapters"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// --- Mocks ---

// mockModel は adapters.Model のテスト用モックなのだ。
type mockModel struct {
	mu           sync.Mutex
	calls        int
	generateFunc func(ctx context.Context, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

func (m *mockModel) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.generateFunc != nil {
		return m.generateFunc(ctx, parts, opts)
	}
	return imageResponse("image/png", []byte("fake")), nil
}

func (m *mockModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockFactory は生成回数と渡された認証情報を記録する ModelFactory なのだ。
type mockFactory struct {
	model       *mockModel
	err         error
	calls       int
	credentials []string
}

func (f *mockFactory) New(ctx context.Context, credential string) (adapters.Model, error) {
	f.calls++
	f.credentials = append(f.credentials, credential)
	if f.err != nil {
		return nil, f.err
	}
	return f.model, nil
}

func imageResponse(mimeType string, data []byte) *gemini.Response {
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: "thumbnail attached"},
						{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
					},
				},
			}},
		},
	}
}

func textOnlyResponse() *gemini.Response {
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content:      &genai.Content{Parts: []*genai.Part{{Text: "I cannot draw that"}}},
				FinishReason: genai.FinishReasonStop,
			}},
		},
	}
}

// variationIndex はプロンプトに含まれるスタイル指定からカタログ上の位置を探すのだ。
func variationIndex(parts []*genai.Part) int {
	for _, p := range parts {
		if p.Text == "" {
			continue
		}
		for i, v := range DefaultVariations() {
			if strings.Contains(p.Text, v.Directive) {
				return i
			}
		}
	}
	return -1
}
