// Package app wires configuration, adapters, and routes into an HTTP handler.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/nitisetu/niti-setu/internal/adapter/httpserver"
	"github.com/nitisetu/niti-setu/internal/config"
	"github.com/nitisetu/niti-setu/internal/observability"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming spaces.
// If the input is empty, returns ["*"].
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	// The write timeout has to outlast a worst-case evaluation: four paced
	// attempts plus backoff can take a couple of minutes.
	r.Use(httpserver.TimeoutMiddleware(cfg.HTTPWriteTimeout))
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id", httpserver.SessionHeader, httpserver.SpeechSourceHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Rate limit the AI-backed endpoints
	r.Group(func(wr chi.Router) {
		wr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, 1*time.Minute))
		wr.Post("/v1/extract", srv.ExtractHandler())
		wr.Post("/v1/evaluate", srv.EvaluateHandler())
		wr.Post("/v1/chat", srv.ChatHandler())
		wr.Post("/v1/speech", srv.SpeechHandler())
	})

	// Session lifecycle and reads
	r.Post("/v1/sessions", srv.CreateSessionHandler())
	r.Delete("/v1/sessions", srv.DestroySessionHandler())
	r.Get("/v1/profile", srv.ProfileHandler())
	r.Patch("/v1/profile", srv.UpdateProfileHandler())
	r.Get("/v1/results", srv.ResultsHandler())
	r.Get("/v1/schemes", srv.SchemesHandler())

	// Health and metrics
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", srv.ReadyzHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) { promhttp.Handler().ServeHTTP(w, r) })

	return httpserver.SecurityHeaders(r)
}
