package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nitisetu/niti-setu/internal/adapter/ai"
	"github.com/nitisetu/niti-setu/internal/catalog"
	"github.com/nitisetu/niti-setu/internal/config"
	"github.com/nitisetu/niti-setu/internal/domain"
	"github.com/nitisetu/niti-setu/internal/session"
	"github.com/nitisetu/niti-setu/internal/usecase"
)

// SessionHeader carries the session id issued by the sessions endpoint.
const SessionHeader = "X-Session-Id"

// SpeechSourceHeader reports which synthesis path produced the audio.
const SpeechSourceHeader = "X-Speech-Source"

// Server aggregates handler dependencies.
type Server struct {
	Cfg       config.Config
	Sessions  *session.Store
	Catalog   *catalog.Catalog
	Extractor *usecase.Extractor
	Evaluator *usecase.Evaluator
	Chat      *usecase.ChatFlow
	Speaker   *usecase.Speaker
	// ModelReady reports whether the model provider is usable. Nil means
	// always ready.
	ModelReady func(ctx context.Context) error
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// acceptsJSON rejects requests that negotiate a non-JSON response.
func acceptsJSON(w http.ResponseWriter, r *http.Request) bool {
	if a := r.Header.Get("Accept"); a != "" && a != "*/*" && !strings.Contains(a, "application/json") {
		writeError(w, r, fmt.Errorf("%w: not acceptable", domain.ErrInvalidArgument), map[string]any{"accept": a})
		return false
	}
	return true
}

func decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
		return false
	}
	if err := getValidator().Struct(dst); err != nil {
		verrs := map[string]string{}
		if ve, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range ve {
				verrs[strings.ToLower(fe.Field())] = fe.Tag()
			}
		}
		writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
		return false
	}
	return true
}

func sessionID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(SessionHeader))
	if id == "" {
		return "", fmt.Errorf("%w: missing %s header", domain.ErrInvalidArgument, SessionHeader)
	}
	return id, nil
}

// asBusy maps transient provider failures that survived the retry budget onto
// the model-busy sentinel so clients get a retryable 503.
func asBusy(err error, msg string) error {
	if ai.Retryable(err) {
		return fmt.Errorf("%w: %s", domain.ErrUpstreamBusy, msg)
	}
	return err
}

// CreateSessionHandler issues a fresh session id. The body is an optional
// simulated login; a supplied name seeds the profile. No credential is
// verified.
func (s *Server) CreateSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		}
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		id := s.Sessions.Create()
		if req.Name != "" {
			if _, err := s.Sessions.MergeProfile(id, domain.FarmerProfile{Name: req.Name}); err != nil {
				writeError(w, r, err, nil)
				return
			}
		}
		writeJSON(w, http.StatusCreated, map[string]string{"sessionId": id})
	}
}

// DestroySessionHandler drops the session and all its state.
func (s *Server) DestroySessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := sessionID(r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if err := s.Sessions.Destroy(id); err != nil {
			writeError(w, r, err, nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ProfileHandler returns the session's current profile.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := sessionID(r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		profile, err := s.Sessions.Profile(id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
	}
}

// UpdateProfileHandler merges explicit edits into the profile. Merges are
// additive; fields absent from the body stay as they were.
func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		id, err := sessionID(r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		var updates domain.FarmerProfile
		if !decodeValid(w, r, &updates) {
			return
		}
		if updates.Category != "" && !domain.ValidCategory(updates.Category) {
			writeError(w, r, fmt.Errorf("%w: unknown category", domain.ErrInvalidArgument),
				map[string]any{"category": updates.Category, "accepted": domain.Categories})
			return
		}
		if updates.LandHolding != nil && *updates.LandHolding < 0 {
			writeError(w, r, fmt.Errorf("%w: land holding cannot be negative", domain.ErrInvalidArgument), nil)
			return
		}
		profile, err := s.Sessions.MergeProfile(id, updates)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
	}
}

// ExtractHandler runs profile extraction on a free-form utterance and merges
// whatever was found into the session profile.
func (s *Server) ExtractHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		id, err := sessionID(r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		var req struct {
			Text string `json:"text" validate:"required,max=2000"`
		}
		if !decodeValid(w, r, &req) {
			return
		}
		update, err := s.Extractor.Extract(r.Context(), req.Text)
		if err != nil {
			writeError(w, r, asBusy(err, "AI is busy. Please try again in a few seconds."), nil)
			return
		}
		profile, err := s.Sessions.Profile(id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if !update.Empty() {
			profile, err = s.Sessions.MergeProfile(id, update)
			if err != nil {
				writeError(w, r, err, nil)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"update":  update,
			"profile": profile,
		})
	}
}

// EvaluateHandler runs the batch eligibility evaluation for the session
// profile. A second request while one is running is a no-op that reports the
// in-flight state; it never triggers a second model call.
func (s *Server) EvaluateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		id, err := sessionID(r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		profile, err := s.Sessions.Profile(id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if !profile.ReadyForEvaluation() {
			writeError(w, r, fmt.Errorf("%w: profile needs at least a name and state", domain.ErrInvalidArgument), nil)
			return
		}
		if err := s.Sessions.TryBeginEvaluation(id); err != nil {
			if errors.Is(err, domain.ErrEvaluationInFlight) {
				writeJSON(w, http.StatusAccepted, map[string]string{"status": "running"})
				return
			}
			writeError(w, r, err, nil)
			return
		}

		start := time.Now()
		results, err := s.Evaluator.Evaluate(r.Context(), profile)
		if err != nil {
			s.Sessions.EndEvaluation(id, nil, 0)
			writeError(w, r, asBusy(err, "No analysis results received. The AI may be overloaded."), nil)
			return
		}
		took := time.Since(start)
		s.Sessions.EndEvaluation(id, results, took)
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "ready",
			"results": results,
		})
	}
}

// ResultsHandler returns the latest batch plus dashboard metrics.
func (s *Server) ResultsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := sessionID(r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		results, running, err := s.Sessions.Results(id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		metrics, err := s.Sessions.Metrics(id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		status := "empty"
		switch {
		case running:
			status = "running"
		case len(results) > 0:
			status = "ready"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  status,
			"results": results,
			"metrics": metrics,
		})
	}
}

// ChatHandler runs one conversational turn and persists any profile facts the
// turn surfaced.
func (s *Server) ChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		id, err := sessionID(r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		var req struct {
			Message string `json:"message" validate:"required,max=2000"`
		}
		if !decodeValid(w, r, &req) {
			return
		}
		profile, err := s.Sessions.Profile(id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		out, err := s.Chat.Handle(r.Context(), req.Message, profile)
		if err != nil {
			writeError(w, r, asBusy(err, "AI is busy. Please try again in a few seconds."), nil)
			return
		}
		if out.ProfileUpdated {
			if err := s.Sessions.SetProfile(id, out.Profile); err != nil {
				writeError(w, r, err, nil)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"reply":          out.Reply,
			"profile":        out.Profile,
			"profileUpdated": out.ProfileUpdated,
		})
	}
}

// SchemesHandler lists the static scheme catalog.
func (s *Server) SchemesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"schemes": s.Catalog.Schemes()})
	}
}

// SpeechHandler renders text to audio. The response is a WAV payload; the
// X-Speech-Source header tells the client whether the remote voice or the
// local fallback spoke.
func (s *Server) SpeechHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text" validate:"required,max=1000"`
		}
		if !decodeValid(w, r, &req) {
			return
		}
		res, err := s.Speaker.Speak(r.Context(), req.Text)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		w.Header().Set("Content-Type", "audio/wav")
		w.Header().Set(SpeechSourceHeader, string(res.Source))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.WAV)
	}
}

// ReadyzHandler reports readiness of the model provider.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.ModelReady != nil {
			if err := s.ModelReady(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "reason": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
