package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nitisetu/niti-setu/internal/domain"
)

func TestExtractSkipsShortInput(t *testing.T) {
	client := &mockModelClient{}
	e := NewExtractor(client, testInvoker(), "fast-model")

	got, err := e.Extract(context.Background(), "  ok  ")
	require.NoError(t, err)
	assert.True(t, got.Empty())
	client.AssertNotCalled(t, "GenerateJSON", mock.Anything, mock.Anything)
}

func TestExtractSkipsGreetings(t *testing.T) {
	client := &mockModelClient{}
	e := NewExtractor(client, testInvoker(), "fast-model")

	for _, in := range []string{"hello", "Hello", "GOOD MORNING", "Thanks"} {
		got, err := e.Extract(context.Background(), in)
		require.NoError(t, err, in)
		assert.True(t, got.Empty(), in)
	}
	client.AssertNotCalled(t, "GenerateJSON", mock.Anything, mock.Anything)
}

func TestExtractParsesProfileFields(t *testing.T) {
	client := &mockModelClient{}
	client.On("GenerateJSON", mock.Anything, mock.MatchedBy(func(req domain.JSONPrompt) bool {
		return req.Model == "fast-model" && req.Schema != nil
	})).Return(`{"name":"Ravi","state":"Karnataka","landHolding":2.5,"cropType":"Ragi"}`, nil)
	e := NewExtractor(client, testInvoker(), "fast-model")

	got, err := e.Extract(context.Background(), "My name is Ravi, I farm 2.5 acres of ragi in Karnataka")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", got.Name)
	assert.Equal(t, "Karnataka", got.State)
	require.NotNil(t, got.LandHolding)
	assert.Equal(t, 2.5, *got.LandHolding)
	assert.Equal(t, "Ragi", got.CropType)
	client.AssertExpectations(t)
}

func TestExtractStripsFences(t *testing.T) {
	client := &mockModelClient{}
	client.On("GenerateJSON", mock.Anything, mock.Anything).
		Return("```json\n{\"state\":\"Punjab\"}\n```", nil)
	e := NewExtractor(client, testInvoker(), "fast-model")

	got, err := e.Extract(context.Background(), "I live in Punjab now")
	require.NoError(t, err)
	assert.Equal(t, "Punjab", got.State)
}

func TestExtractUnparseableIsEmptyNotError(t *testing.T) {
	client := &mockModelClient{}
	client.On("GenerateJSON", mock.Anything, mock.Anything).Return("sorry, I cannot do that", nil)
	e := NewExtractor(client, testInvoker(), "fast-model")

	got, err := e.Extract(context.Background(), "I grow wheat on my land in Haryana")
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestExtractPropagatesTransportError(t *testing.T) {
	client := &mockModelClient{}
	boom := errors.New("invalid api key")
	client.On("GenerateJSON", mock.Anything, mock.Anything).Return("", boom)
	e := NewExtractor(client, testInvoker(), "fast-model")

	_, err := e.Extract(context.Background(), "I grow wheat on my land in Haryana")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
