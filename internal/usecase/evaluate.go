package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nitisetu/niti-setu/internal/adapter/ai"
	"github.com/nitisetu/niti-setu/internal/catalog"
	"github.com/nitisetu/niti-setu/internal/domain"
	"github.com/nitisetu/niti-setu/internal/observability"
)

var evaluationSchema = &domain.Schema{
	Type: domain.TypeArray,
	Items: &domain.Schema{
		Type: domain.TypeObject,
		Properties: map[string]*domain.Schema{
			"schemeId":          {Type: domain.TypeString},
			"schemeName":        {Type: domain.TypeString},
			"isEligible":        {Type: domain.TypeBoolean},
			"benefit":           {Type: domain.TypeString},
			"proofCitation":     {Type: domain.TypeString},
			"proofSnippet":      {Type: domain.TypeString},
			"nextSteps":         {Type: domain.TypeArray, Items: &domain.Schema{Type: domain.TypeString}},
			"requiredDocuments": {Type: domain.TypeArray, Items: &domain.Schema{Type: domain.TypeString}},
		},
		Required: []string{"schemeId", "schemeName", "isEligible", "benefit"},
	},
}

// Evaluator runs the whole-catalog eligibility analysis in one model call.
type Evaluator struct {
	client         domain.ModelClient
	inv            *ai.Invoker
	catalog        *catalog.Catalog
	model          string
	thinkingBudget int32
}

// NewEvaluator builds an Evaluator.
func NewEvaluator(client domain.ModelClient, inv *ai.Invoker, cat *catalog.Catalog, model string, thinkingBudget int32) *Evaluator {
	return &Evaluator{client: client, inv: inv, catalog: cat, model: model, thinkingBudget: thinkingBudget}
}

// Evaluate returns one verdict per catalog scheme for the given profile.
// An unparseable or empty batch is an upstream fault, not a partial result.
func (ev *Evaluator) Evaluate(ctx context.Context, profile domain.FarmerProfile) ([]domain.EligibilityResult, error) {
	if !profile.ReadyForEvaluation() {
		return nil, fmt.Errorf("op=usecase.Evaluate: %w: profile needs at least a name and state", domain.ErrInvalidArgument)
	}

	raw, err := ai.Invoke(ctx, ev.inv, "evaluate", func(ctx context.Context) (string, error) {
		return ev.client.GenerateJSON(ctx, domain.JSONPrompt{
			Model:          ev.model,
			Prompt:         ev.buildPrompt(profile),
			Schema:         evaluationSchema,
			ThinkingBudget: ev.thinkingBudget,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("op=usecase.Evaluate: %w", err)
	}

	var results []domain.EligibilityResult
	if err := json.Unmarshal([]byte(ai.CleanModelJSON(raw)), &results); err != nil {
		observability.LoggerFromContext(ctx).Error("evaluation batch unparseable", "error", err.Error())
		return nil, fmt.Errorf("op=usecase.Evaluate: %w: no analysis results received", domain.ErrSchemaInvalid)
	}
	results = ev.reconcile(ctx, results)
	if len(results) == 0 {
		return nil, fmt.Errorf("op=usecase.Evaluate: %w: no analysis results received", domain.ErrSchemaInvalid)
	}

	eligible := 0
	for _, r := range results {
		if r.IsEligible {
			eligible++
		}
	}
	observability.ObserveVerdicts(eligible, len(results)-eligible)
	return results, nil
}

// buildPrompt assembles the profile summary and per-scheme guideline blocks.
func (ev *Evaluator) buildPrompt(profile domain.FarmerProfile) string {
	blocks := make([]string, 0, ev.catalog.Len())
	for _, s := range ev.catalog.Schemes() {
		blocks = append(blocks, fmt.Sprintf("SCHEME: %s (ID: %s)\nGUIDELINES: %s", s.Name, s.ID, ev.catalog.Guideline(s.ID)))
	}

	land := "unknown"
	if profile.LandHolding != nil {
		land = fmt.Sprintf("%g", *profile.LandHolding)
	}
	return fmt.Sprintf(`Analyze eligibility for ALL schemes below based on the profile provided.
FARMER PROFILE:
- Name: %s
- State: %s
- Land Holding: %s acres
- Category: %s
- Crop: %s

%s

You must return an array of objects for each Scheme ID. Ensure accurate cross-referencing.`,
		profile.Name, profile.State, land, profile.Category, profile.CropType,
		strings.Join(blocks, "\n\n"))
}

// reconcile checks the batch against the catalog: verdicts for unknown scheme
// ids are dropped, repeated ids keep only the first verdict, and schemes the
// model skipped are logged. The model's ordering is otherwise preserved, so
// the batch carries at most one verdict per catalog scheme.
func (ev *Evaluator) reconcile(ctx context.Context, results []domain.EligibilityResult) []domain.EligibilityResult {
	lg := observability.LoggerFromContext(ctx)
	seen := make(map[string]bool, len(results))
	kept := results[:0]
	for _, r := range results {
		if _, ok := ev.catalog.Get(r.SchemeID); !ok {
			lg.Warn("dropping verdict for unknown scheme id", slog.String("scheme_id", r.SchemeID))
			observability.EvaluationAnomaliesTotal.WithLabelValues("unknown_id").Inc()
			continue
		}
		if seen[r.SchemeID] {
			lg.Warn("dropping duplicate verdict for scheme id", slog.String("scheme_id", r.SchemeID))
			observability.EvaluationAnomaliesTotal.WithLabelValues("duplicate_id").Inc()
			continue
		}
		seen[r.SchemeID] = true
		kept = append(kept, r)
	}
	for _, s := range ev.catalog.Schemes() {
		if !seen[s.ID] {
			lg.Warn("model returned no verdict for scheme", slog.String("scheme_id", s.ID))
			observability.EvaluationAnomaliesTotal.WithLabelValues("missing_id").Inc()
		}
	}
	return kept
}
