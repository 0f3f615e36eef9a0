// Command server starts the Niti-Setu scheme-eligibility HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ai "github.com/nitisetu/niti-setu/internal/adapter/ai"
	"github.com/nitisetu/niti-setu/internal/adapter/ai/gemini"
	"github.com/nitisetu/niti-setu/internal/adapter/ai/stub"
	httpserver "github.com/nitisetu/niti-setu/internal/adapter/httpserver"
	"github.com/nitisetu/niti-setu/internal/adapter/speech"
	"github.com/nitisetu/niti-setu/internal/app"
	"github.com/nitisetu/niti-setu/internal/catalog"
	"github.com/nitisetu/niti-setu/internal/config"
	"github.com/nitisetu/niti-setu/internal/domain"
	"github.com/nitisetu/niti-setu/internal/observability"
	"github.com/nitisetu/niti-setu/internal/session"
	"github.com/nitisetu/niti-setu/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Static scheme catalog, compiled in
	cat, err := catalog.Load()
	if err != nil {
		slog.Error("catalog load failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("scheme catalog loaded", slog.Int("schemes", cat.Len()))

	// Model client: real Gemini when a key is present, a deterministic stub
	// otherwise (dev only).
	var client domain.ModelClient
	modelReady := func(context.Context) error { return nil }
	if cfg.GeminiAPIKey != "" {
		gc, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.ModelRequestTimeout, cfg.SpeechRequestTimeout)
		if err != nil {
			slog.Error("gemini client init failed", slog.Any("error", err))
			os.Exit(1)
		}
		client = gc
		slog.Info("gemini client initialized")
	} else {
		if !cfg.IsDev() {
			slog.Error("GEMINI_API_KEY is required outside dev")
			os.Exit(1)
		}
		client = stub.New(cat.Schemes())
		modelReady = func(context.Context) error { return errors.New("running with stub model client") }
		slog.Warn("no GEMINI_API_KEY set, using stub model client")
	}

	// Shared pacing gate and retry loop for every model call
	gate := ai.NewGate(cfg.MinRequestGap)
	inv := ai.NewInvoker(gate, cfg.AIMaxRetries, cfg.AIBackoffStep)

	// Usecases
	extractor := usecase.NewExtractor(client, inv, cfg.ExtractModel)
	evaluator := usecase.NewEvaluator(client, inv, cat, cfg.EvaluateModel, cfg.EvalThinkingBudget)
	responder := usecase.NewResponder(client, inv, cfg.ChatModel)
	chatFlow := usecase.NewChatFlow(extractor, responder, cfg.ChatStepDelay)
	speaker := usecase.NewSpeaker(client, speech.NewLocal(cfg.LocalSpeechCommand), cfg.SpeechModel, cfg.SpeechVoice)

	// Session store with TTL reaping
	sessions := session.NewStore(cfg.SessionTTL)
	go sessions.Run(ctx, cfg.SessionTTL/4)

	srv := &httpserver.Server{
		Cfg:        cfg,
		Sessions:   sessions,
		Catalog:    cat,
		Extractor:  extractor,
		Evaluator:  evaluator,
		Chat:       chatFlow,
		Speaker:    speaker,
		ModelReady: modelReady,
	}
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
