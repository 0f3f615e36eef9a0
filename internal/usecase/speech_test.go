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

func TestSpeakRemotePath(t *testing.T) {
	pcm := []byte{0x00, 0x10, 0x00, 0x20}
	client := &mockModelClient{}
	client.On("GenerateSpeech", mock.Anything, mock.MatchedBy(func(req domain.SpeechPrompt) bool {
		return req.Model == "tts-model" && req.Voice == "Kore" && req.Text == "You are eligible for PM-KISAN"
	})).Return(pcm, nil)
	local := &mockSynthesizer{}
	s := NewSpeaker(client, local, "tts-model", "Kore")

	got, err := s.Speak(context.Background(), "You are eligible for PM-KISAN")
	require.NoError(t, err)
	assert.Equal(t, SpeechSourceRemote, got.Source)
	require.Len(t, got.WAV, 44+len(pcm))
	assert.Equal(t, "RIFF", string(got.WAV[:4]))
	assert.Equal(t, pcm, got.WAV[44:])
	local.AssertNotCalled(t, "Synthesize", mock.Anything, mock.Anything)
}

func TestSpeakFallsBackOnRemoteError(t *testing.T) {
	client := &mockModelClient{}
	client.On("GenerateSpeech", mock.Anything, mock.Anything).
		Return(nil, errors.New("quota exceeded")).Once()
	wav := []byte("RIFFfakewav")
	local := &mockSynthesizer{}
	local.On("Synthesize", mock.Anything, "hello farmer").Return(wav, nil).Once()
	s := NewSpeaker(client, local, "tts-model", "Kore")

	got, err := s.Speak(context.Background(), "hello farmer")
	require.NoError(t, err)
	assert.Equal(t, SpeechSourceLocal, got.Source)
	assert.Equal(t, wav, got.WAV)
	// remote is tried exactly once, never retried
	client.AssertNumberOfCalls(t, "GenerateSpeech", 1)
	local.AssertExpectations(t)
}

func TestSpeakFallsBackOnMalformedPCM(t *testing.T) {
	client := &mockModelClient{}
	client.On("GenerateSpeech", mock.Anything, mock.Anything).
		Return([]byte{0x01, 0x02, 0x03}, nil)
	wav := []byte("RIFFfakewav")
	local := &mockSynthesizer{}
	local.On("Synthesize", mock.Anything, mock.Anything).Return(wav, nil)
	s := NewSpeaker(client, local, "tts-model", "Kore")

	got, err := s.Speak(context.Background(), "hello farmer")
	require.NoError(t, err)
	assert.Equal(t, SpeechSourceLocal, got.Source)
}

func TestSpeakBothPathsFail(t *testing.T) {
	client := &mockModelClient{}
	client.On("GenerateSpeech", mock.Anything, mock.Anything).Return(nil, errors.New("remote down"))
	local := &mockSynthesizer{}
	local.On("Synthesize", mock.Anything, mock.Anything).Return(nil, errors.New("no synth installed"))
	s := NewSpeaker(client, local, "tts-model", "Kore")

	_, err := s.Speak(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no synth installed")
}

func TestSpeakRejectsEmptyText(t *testing.T) {
	client := &mockModelClient{}
	s := NewSpeaker(client, &mockSynthesizer{}, "tts-model", "Kore")

	_, err := s.Speak(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	client.AssertNotCalled(t, "GenerateSpeech", mock.Anything, mock.Anything)
}
