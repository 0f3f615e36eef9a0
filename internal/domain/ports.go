package domain

// Schema is a provider-neutral structured-output schema. The AI adapter maps
// it onto the provider's own schema representation.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
	Enum       []string           `json:"enum,omitempty"`
}

// Schema type names.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// JSONPrompt requests a structured JSON response.
type JSONPrompt struct {
	Model          string
	System         string
	Prompt         string
	Schema         *Schema
	ThinkingBudget int32
}

// TextPrompt requests a plain-text response.
type TextPrompt struct {
	Model  string
	System string
	Prompt string
}

// SpeechPrompt requests an audio-modality response.
type SpeechPrompt struct {
	Model string
	Voice string
	Text  string
}

// ModelClient is the port over the remote generative model. Implementations
// perform a single call; pacing and retries belong to the resilience layer
// that wraps them.
type ModelClient interface {
	// GenerateJSON returns the raw response text for a structured request.
	// The text may still carry markdown fences; callers clean before parsing.
	GenerateJSON(ctx Context, req JSONPrompt) (string, error)
	// GenerateText returns a plain-text reply.
	GenerateText(ctx Context, req TextPrompt) (string, error)
	// GenerateSpeech returns raw 16-bit little-endian PCM at 24 kHz mono.
	GenerateSpeech(ctx Context, req SpeechPrompt) ([]byte, error)
}

// SpeechSynthesizer is the local, on-device fallback for speech output.
// Implementations return a complete WAV payload for the given text.
type SpeechSynthesizer interface {
	Synthesize(ctx Context, text string) ([]byte, error)
}
