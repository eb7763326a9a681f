package provider

import "time"

// UnitKind names what usage counts measure.
type UnitKind string

const (
	// UnitTokens means counts came from the backend's own metering.
	UnitTokens UnitKind = "tokens"

	// UnitCharacters means metering was unavailable and counts are rune
	// counts of the prompt and output. Cost is never computed from these.
	UnitCharacters UnitKind = "characters"
)

// Request configures one generation call.
type Request struct {
	// Model overrides the adapter's configured model when non-empty.
	Model string `json:"model,omitempty"`

	// Prompt is the fully rendered prompt text.
	Prompt string `json:"prompt"`

	// TargetLanguage names the language to generate. Chat-style backends
	// use it in the system message; all backends use it in the placeholder.
	TargetLanguage string `json:"target_language"`

	// Seed requests deterministic sampling when set.
	Seed *int `json:"seed,omitempty"`

	// MaxTokens limits the response length when set.
	MaxTokens *int `json:"max_tokens,omitempty"`

	// ThinkingBudget is recorded in the audit log only; no backend
	// receives it.
	ThinkingBudget *int `json:"thinking_budget,omitempty"`
}

// Usage is the metered consumption of one call.
type Usage struct {
	Input    int      `json:"input"`
	Output   int      `json:"output"`
	Thinking int      `json:"thinking"`
	Kind     UnitKind `json:"kind"`
}

// Total returns the sum of all three dimensions.
func (u Usage) Total() int {
	return u.Input + u.Output + u.Thinking
}

// IsTokens reports whether the counts are backend-metered tokens.
func (u Usage) IsTokens() bool {
	return u.Kind == UnitTokens
}

// Result is the output of a generation call.
type Result struct {
	// Content is the generated text, trimmed of surrounding whitespace.
	// Markdown fences are not removed here.
	Content string `json:"content"`

	// Usage is the metered consumption.
	Usage Usage `json:"usage"`

	// Model is the model the backend reports having used.
	Model string `json:"model,omitempty"`

	// FinishReason is the backend's stop reason, when reported.
	FinishReason string `json:"finish_reason,omitempty"`

	// Blocked is true when Content is the placeholder for an empty or
	// blocked response.
	Blocked bool `json:"blocked,omitempty"`

	// Duration is the wall time of the call.
	Duration time.Duration `json:"duration"`
}
