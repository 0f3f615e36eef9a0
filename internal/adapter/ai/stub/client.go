// Package stub provides a deterministic model client for development runs
// without provider credentials.
package stub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nitisetu/niti-setu/internal/domain"
)

// Client fabricates plausible responses without any network calls.
type Client struct {
	Schemes []domain.Scheme
}

// New builds a stub client that answers for the given schemes.
func New(schemes []domain.Scheme) *Client {
	return &Client{Schemes: schemes}
}

// GenerateJSON returns a canned payload matching the requested shape: a full
// verdict batch for array schemas, an empty object otherwise.
func (c *Client) GenerateJSON(_ context.Context, req domain.JSONPrompt) (string, error) {
	if req.Schema != nil && req.Schema.Type == domain.TypeArray {
		batch := make([]domain.EligibilityResult, 0, len(c.Schemes))
		for i, s := range c.Schemes {
			batch = append(batch, domain.EligibilityResult{
				SchemeID:      s.ID,
				SchemeName:    s.Name,
				IsEligible:    i%2 == 0,
				Benefit:       s.Benefit,
				ProofCitation: "stub",
				NextSteps:     s.Steps,
			})
		}
		b, err := json.Marshal(batch)
		if err != nil {
			return "", fmt.Errorf("op=stub.GenerateJSON: %w", err)
		}
		return string(b), nil
	}
	return "{}", nil
}

// GenerateText returns a fixed development reply.
func (c *Client) GenerateText(_ context.Context, _ domain.TextPrompt) (string, error) {
	return "This is a development response. Set GEMINI_API_KEY for real answers.", nil
}

// GenerateSpeech returns a short stretch of PCM silence.
func (c *Client) GenerateSpeech(_ context.Context, _ domain.SpeechPrompt) ([]byte, error) {
	return make([]byte, 4800), nil
}
