// Package usecase contains the application services behind the HTTP surface.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nitisetu/niti-setu/internal/adapter/ai"
	"github.com/nitisetu/niti-setu/internal/domain"
	"github.com/nitisetu/niti-setu/internal/observability"
	"github.com/nitisetu/niti-setu/pkg/textx"
)

// minExtractionLength is the shortest utterance worth a model call.
const minExtractionLength = 5

// extractionGreetings are pure pleasantries that carry no profile facts.
var extractionGreetings = map[string]struct{}{
	"hi":           {},
	"hello":        {},
	"hey":          {},
	"good morning": {},
	"thanks":       {},
	"ok":           {},
}

var extractionSchema = &domain.Schema{
	Type: domain.TypeObject,
	Properties: map[string]*domain.Schema{
		"name":        {Type: domain.TypeString},
		"state":       {Type: domain.TypeString},
		"district":    {Type: domain.TypeString},
		"landHolding": {Type: domain.TypeNumber},
		"cropType":    {Type: domain.TypeString},
		"category":    {Type: domain.TypeString},
	},
}

// Extractor turns free-form farmer utterances into structured profile updates.
type Extractor struct {
	client domain.ModelClient
	inv    *ai.Invoker
	model  string
}

// NewExtractor builds an Extractor.
func NewExtractor(client domain.ModelClient, inv *ai.Invoker, model string) *Extractor {
	return &Extractor{client: client, inv: inv, model: model}
}

// Extract returns the profile fields mentioned in the utterance. Utterances
// that are too short or are bare greetings skip the model and return an empty
// update. Unparseable model output also returns an empty update; only
// transport-level failures surface as errors.
func (e *Extractor) Extract(ctx context.Context, utterance string) (domain.FarmerProfile, error) {
	text := textx.SanitizeText(utterance)
	if utf8.RuneCountInString(text) < minExtractionLength {
		return domain.FarmerProfile{}, nil
	}
	if _, ok := extractionGreetings[strings.ToLower(text)]; ok {
		return domain.FarmerProfile{}, nil
	}

	prompt := fmt.Sprintf("Extract farmer details from: %q.\nReturn JSON with: name, state, district, landHolding (acres as number), cropType, category.", text)
	raw, err := ai.Invoke(ctx, e.inv, "extract", func(ctx context.Context) (string, error) {
		return e.client.GenerateJSON(ctx, domain.JSONPrompt{
			Model:  e.model,
			Prompt: prompt,
			Schema: extractionSchema,
		})
	})
	if err != nil {
		return domain.FarmerProfile{}, fmt.Errorf("op=usecase.Extract: %w", err)
	}

	var update domain.FarmerProfile
	if err := json.Unmarshal([]byte(ai.CleanModelJSON(raw)), &update); err != nil {
		observability.LoggerFromContext(ctx).Warn("extraction response unparseable, treating as empty",
			"error", err.Error())
		return domain.FarmerProfile{}, nil
	}
	return update, nil
}
