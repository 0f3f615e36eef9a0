package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"route", "method"},
	)

	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of model requests by operation",
		},
		[]string{"provider", "operation"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "Model request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider", "operation"},
	)
	AIRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_retries_total",
			Help: "Total number of retried model calls by operation",
		},
		[]string{"operation"},
	)

	SpeechOutputTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "speech_output_total",
			Help: "Speech requests served by path (remote or local fallback)",
		},
		[]string{"path"},
	)

	EvaluationVerdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_verdicts_total",
			Help: "Eligibility verdicts returned, by outcome",
		},
		[]string{"outcome"},
	)
	EvaluationAnomaliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_anomalies_total",
			Help: "Verdict batches with ids missing from or absent in the catalog",
		},
		[]string{"kind"},
	)
)

// InitMetrics registers all collectors once per process.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(AIRequestsTotal)
	prometheus.MustRegister(AIRequestDuration)
	prometheus.MustRegister(AIRetriesTotal)
	prometheus.MustRegister(SpeechOutputTotal)
	prometheus.MustRegister(EvaluationVerdictsTotal)
	prometheus.MustRegister(EvaluationAnomaliesTotal)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}

// ObserveVerdicts records the outcome distribution of a completed batch.
func ObserveVerdicts(eligible, ineligible int) {
	EvaluationVerdictsTotal.WithLabelValues("eligible").Add(float64(eligible))
	EvaluationVerdictsTotal.WithLabelValues("ineligible").Add(float64(ineligible))
}
