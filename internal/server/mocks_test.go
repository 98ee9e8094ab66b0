package server

import (
	"context"
	"sync"

	"github.com/shouni/gemini-thumbnail-kit/pkg/domain"
	"github.com/shouni/gemini-thumbnail-kit/pkg/generator"
)

// mockGenerator は ThumbnailGenerator のモックです。
type mockGenerator struct {
	mu           sync.Mutex
	generateFunc func(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
	requests     []domain.GenerationRequest
}

func (m *mockGenerator) GenerateThumbnails(ctx context.Context, credential, subjectImageBase64, topic, styleReferenceBase64 string) ([]string, error) {
	panic("not used by the handler")
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	return &domain.GenerationResult{Images: []domain.ImageResponse{
		{Data: []byte("one"), MimeType: "image/png"},
		{Data: []byte("two"), MimeType: "image/jpeg"},
	}}, nil
}

func (m *mockGenerator) Variations() []generator.StyleVariation {
	return generator.DefaultVariations()
}

func (m *mockGenerator) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// stubGuard は常に同じ結果を返す BatchGuard です。
type stubGuard struct {
	acquired bool
	err      error
	released []string
}

func (g *stubGuard) Acquire(context.Context, string) (string, bool, error) {
	if !g.acquired || g.err != nil {
		return "", false, g.err
	}
	return "stub-token", true, nil
}

func (g *stubGuard) Release(_ context.Context, key, token string) error {
	g.released = append(g.released, key+"#"+token)
	return nil
}
