// Package gemini implements the model client port on the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/nitisetu/niti-setu/internal/domain"
	"github.com/nitisetu/niti-setu/internal/observability"
)

const providerLabel = "gemini"

// Client calls the Gemini API. It performs exactly one request per call;
// pacing and retries are handled by the invoker that wraps it.
type Client struct {
	client        *genai.Client
	timeout       time.Duration
	speechTimeout time.Duration
}

// New builds a Gemini-backed model client.
func New(ctx context.Context, apiKey string, timeout, speechTimeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("op=gemini.New: %w: missing API key", domain.ErrInvalidArgument)
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("op=gemini.New: %w", err)
	}
	return &Client{client: c, timeout: timeout, speechTimeout: speechTimeout}, nil
}

// GenerateJSON asks for structured output constrained by the request schema
// and returns the raw response text.
func (c *Client) GenerateJSON(ctx context.Context, req domain.JSONPrompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toProviderSchema(req.Schema),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.ThinkingBudget > 0 {
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(req.ThinkingBudget)}
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	c.observe("generate_json", start)
	if err != nil {
		return "", fmt.Errorf("op=gemini.GenerateJSON model=%s: %w", req.Model, err)
	}
	return resp.Text(), nil
}

// GenerateText asks for a plain-text reply.
func (c *Client) GenerateText(ctx context.Context, req domain.TextPrompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	c.observe("generate_text", start)
	if err != nil {
		return "", fmt.Errorf("op=gemini.GenerateText model=%s: %w", req.Model, err)
	}
	return resp.Text(), nil
}

// GenerateSpeech asks for an audio-modality response and returns the raw
// 16-bit little-endian PCM payload (24 kHz mono).
func (c *Client) GenerateSpeech(ctx context.Context, req domain.SpeechPrompt) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.speechTimeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: req.Voice},
			},
		},
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Text), cfg)
	c.observe("generate_speech", start)
	if err != nil {
		return nil, fmt.Errorf("op=gemini.GenerateSpeech model=%s: %w", req.Model, err)
	}
	pcm := extractAudio(resp)
	if len(pcm) == 0 {
		return nil, fmt.Errorf("op=gemini.GenerateSpeech model=%s: %w: response carried no audio part", req.Model, domain.ErrSchemaInvalid)
	}
	return pcm, nil
}

func (c *Client) observe(operation string, start time.Time) {
	observability.AIRequestsTotal.WithLabelValues(providerLabel, operation).Inc()
	observability.AIRequestDuration.WithLabelValues(providerLabel, operation).Observe(time.Since(start).Seconds())
}

func extractAudio(resp *genai.GenerateContentResponse) []byte {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}

func toProviderSchema(s *domain.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Required: s.Required,
		Enum:     s.Enum,
		Items:    toProviderSchema(s.Items),
	}
	switch s.Type {
	case domain.TypeString:
		out.Type = genai.TypeString
	case domain.TypeNumber:
		out.Type = genai.TypeNumber
	case domain.TypeBoolean:
		out.Type = genai.TypeBoolean
	case domain.TypeArray:
		out.Type = genai.TypeArray
	case domain.TypeObject:
		out.Type = genai.TypeObject
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toProviderSchema(prop)
		}
	}
	return out
}
