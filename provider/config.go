package provider

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/randalmurphal/enc/audit"
)

// HTTPDoer is the subset of *http.Client the adapters use.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds configuration for creating a provider adapter.
type Config struct {
	// Provider is the name of the provider to use.
	// Required. Values: "openai", "google"
	Provider string `json:"provider" yaml:"provider"`

	// Model is the model to use (provider-specific name).
	// Examples: "gpt-4o", "gemini-2.5-pro"
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the backend. Never serialized.
	APIKey string `json:"-" yaml:"-"`

	// BaseURL overrides the backend endpoint. Empty uses the adapter default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Timeout bounds the HTTP round trip. 0 means no client-side timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// HTTPClient replaces the default transport, mainly for tests.
	HTTPClient HTTPDoer `json:"-" yaml:"-"`

	// Audit receives request and response snapshots. Nil discards them.
	Audit audit.Sink `json:"-" yaml:"-"`

	// Logger receives warnings. Nil uses slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}
	return nil
}

// WithAudit returns a copy of the config writing to sink. The CLI uses it
// to give every run its own log file.
func (c Config) WithAudit(sink audit.Sink) Config {
	c.Audit = sink
	return c
}

// HTTP returns the configured client, or a new one honoring Timeout.
func (c Config) HTTP() HTTPDoer {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.Timeout}
}

// Sink returns the audit sink, never nil.
func (c Config) Sink() audit.Sink {
	return audit.OrDiscard(c.Audit)
}

// Log returns the logger, never nil.
func (c Config) Log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
