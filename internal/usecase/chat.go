package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nitisetu/niti-setu/internal/adapter/ai"
	"github.com/nitisetu/niti-setu/internal/domain"
)

const (
	// chatFallback is returned when the model produces an empty reply.
	chatFallback = "Understood. How else can I help?"
	// extractionAcknowledgement is appended when the turn also updated the
	// profile, so the farmer knows the details were captured.
	extractionAcknowledgement = " I've noted those details in your profile."
)

// Responder generates conversational replies grounded in the current profile.
type Responder struct {
	client domain.ModelClient
	inv    *ai.Invoker
	model  string
}

// NewResponder builds a Responder.
func NewResponder(client domain.ModelClient, inv *ai.Invoker, model string) *Responder {
	return &Responder{client: client, inv: inv, model: model}
}

// Respond returns a short advisory reply. Empty model output is replaced with
// a neutral fallback phrase rather than surfaced as an error.
func (r *Responder) Respond(ctx context.Context, message string, profile domain.FarmerProfile) (string, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("op=usecase.Respond: %w", err)
	}
	system := fmt.Sprintf("You are Niti-Setu AI for Indian farmers.\nContext: %s.\nGive helpful, professional advice in 1-2 sentences.", profileJSON)

	reply, err := ai.Invoke(ctx, r.inv, "chat", func(ctx context.Context) (string, error) {
		return r.client.GenerateText(ctx, domain.TextPrompt{
			Model:  r.model,
			System: system,
			Prompt: message,
		})
	})
	if err != nil {
		return "", fmt.Errorf("op=usecase.Respond: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = chatFallback
	}
	return reply, nil
}

// ChatOutcome is the result of one conversational turn.
type ChatOutcome struct {
	Reply          string
	Profile        domain.FarmerProfile
	ProfileUpdated bool
}

// ChatFlow runs a full conversational turn: extract profile facts from the
// message, then respond with the merged profile as context. The pause between
// the two model calls spreads load on top of the request gate.
type ChatFlow struct {
	extractor *Extractor
	responder *Responder
	stepDelay time.Duration
	sleep     func(context.Context, time.Duration) error
}

// NewChatFlow builds a ChatFlow.
func NewChatFlow(extractor *Extractor, responder *Responder, stepDelay time.Duration) *ChatFlow {
	return &ChatFlow{
		extractor: extractor,
		responder: responder,
		stepDelay: stepDelay,
		sleep:     sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Handle runs one turn against the caller's current profile and returns the
// reply plus the (possibly updated) profile.
func (f *ChatFlow) Handle(ctx context.Context, message string, profile domain.FarmerProfile) (ChatOutcome, error) {
	update, err := f.extractor.Extract(ctx, message)
	if err != nil {
		return ChatOutcome{}, err
	}
	updated := !update.Empty()
	merged := profile
	if updated {
		merged = profile.Merge(update)
	}

	if err := f.sleep(ctx, f.stepDelay); err != nil {
		return ChatOutcome{}, fmt.Errorf("op=usecase.ChatFlow: %w", err)
	}

	reply, err := f.responder.Respond(ctx, message, merged)
	if err != nil {
		return ChatOutcome{}, err
	}
	if updated {
		reply += extractionAcknowledgement
	}
	return ChatOutcome{Reply: reply, Profile: merged, ProfileUpdated: updated}, nil
}
