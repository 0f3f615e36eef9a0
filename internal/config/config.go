// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	// Model assignments per operation. Extraction and chat use the fast
	// model; the batch evaluator uses the pro model for heavier reasoning.
	ExtractModel  string `env:"EXTRACT_MODEL" envDefault:"gemini-3-flash-preview"`
	ChatModel     string `env:"CHAT_MODEL" envDefault:"gemini-3-flash-preview"`
	EvaluateModel string `env:"EVALUATE_MODEL" envDefault:"gemini-3-pro-preview"`
	SpeechModel   string `env:"SPEECH_MODEL" envDefault:"gemini-2.5-flash-preview-tts"`
	SpeechVoice   string `env:"SPEECH_VOICE" envDefault:"Kore"`

	// Pacing and resilience for outbound model calls.
	MinRequestGap        time.Duration `env:"MIN_REQUEST_GAP" envDefault:"2s"`
	AIMaxRetries         int           `env:"AI_MAX_RETRIES" envDefault:"3"`
	AIBackoffStep        time.Duration `env:"AI_BACKOFF_STEP" envDefault:"4s"`
	ChatStepDelay        time.Duration `env:"CHAT_STEP_DELAY" envDefault:"2s"`
	EvalThinkingBudget   int32         `env:"EVAL_THINKING_BUDGET" envDefault:"4000"`
	ModelRequestTimeout  time.Duration `env:"MODEL_REQUEST_TIMEOUT" envDefault:"120s"`
	SpeechRequestTimeout time.Duration `env:"SPEECH_REQUEST_TIMEOUT" envDefault:"60s"`

	// LocalSpeechCommand is the on-device synthesizer used when the remote
	// speech call fails. Must accept "-w <file> <text>" (espeak-ng style).
	LocalSpeechCommand string `env:"LOCAL_SPEECH_COMMAND" envDefault:"espeak-ng"`

	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	SessionTTL            time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"180s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"niti-setu"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }
