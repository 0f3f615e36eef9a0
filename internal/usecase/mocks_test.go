package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/nitisetu/niti-setu/internal/adapter/ai"
	"github.com/nitisetu/niti-setu/internal/domain"
)

type mockModelClient struct{ mock.Mock }

func (m *mockModelClient) GenerateJSON(ctx context.Context, req domain.JSONPrompt) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockModelClient) GenerateText(ctx context.Context, req domain.TextPrompt) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockModelClient) GenerateSpeech(ctx context.Context, req domain.SpeechPrompt) ([]byte, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type mockSynthesizer struct{ mock.Mock }

func (m *mockSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// testInvoker allows no retries and no pacing so tests stay instant.
func testInvoker() *ai.Invoker {
	return ai.NewInvoker(ai.NewGate(0), 0, time.Millisecond)
}

func floatPtr(v float64) *float64 { return &v }
