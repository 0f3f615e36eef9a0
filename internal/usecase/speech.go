package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/nitisetu/niti-setu/internal/domain"
	"github.com/nitisetu/niti-setu/internal/observability"
	"github.com/nitisetu/niti-setu/pkg/audiox"
)

// SpeechSource identifies which synthesis path produced the audio.
type SpeechSource string

const (
	SpeechSourceRemote SpeechSource = "remote"
	SpeechSourceLocal  SpeechSource = "local"
)

// SpeechResult is a rendered utterance: a WAV payload plus its provenance.
type SpeechResult struct {
	WAV    []byte
	Source SpeechSource
}

// Speaker renders text to audio. The remote speech model gets exactly one
// attempt; on any failure the local synthesizer takes over. Speech is a
// comfort feature, so it never goes through the retry loop.
type Speaker struct {
	client domain.ModelClient
	local  domain.SpeechSynthesizer
	model  string
	voice  string
}

// NewSpeaker builds a Speaker.
func NewSpeaker(client domain.ModelClient, local domain.SpeechSynthesizer, model, voice string) *Speaker {
	return &Speaker{client: client, local: local, model: model, voice: voice}
}

// Speak renders text and reports which path served it.
func (s *Speaker) Speak(ctx context.Context, text string) (SpeechResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return SpeechResult{}, fmt.Errorf("op=usecase.Speak: %w: empty text", domain.ErrInvalidArgument)
	}

	pcm, err := s.client.GenerateSpeech(ctx, domain.SpeechPrompt{Model: s.model, Voice: s.voice, Text: text})
	if err == nil {
		if _, derr := audiox.DecodePCM16(pcm); derr != nil {
			err = derr
		} else {
			observability.SpeechOutputTotal.WithLabelValues(string(SpeechSourceRemote)).Inc()
			return SpeechResult{
				WAV:    audiox.EncodeWAV(pcm, audiox.SampleRate, audiox.Channels),
				Source: SpeechSourceRemote,
			}, nil
		}
	}

	observability.LoggerFromContext(ctx).Warn("remote speech failed, using local synthesizer",
		"error", err.Error())
	wav, lerr := s.local.Synthesize(ctx, text)
	if lerr != nil {
		return SpeechResult{}, fmt.Errorf("op=usecase.Speak: local fallback after remote failure (%v): %w", err, lerr)
	}
	observability.SpeechOutputTotal.WithLabelValues(string(SpeechSourceLocal)).Inc()
	return SpeechResult{WAV: wav, Source: SpeechSourceLocal}, nil
}
