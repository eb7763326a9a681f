// Package provider defines the uniform contract for LLM generation backends.
//
// Backends differ in request shape and in how they report usage. An Adapter
// hides both: it takes a Request holding the rendered prompt and returns a
// Result holding the generated text and a Usage whose Kind says whether the
// counts are real tokens or a character-count fallback.
//
// # Usage
//
// Create an adapter using the registry:
//
//	adapter, err := provider.New("google", provider.Config{
//	    Model:  "gemini-2.5-pro",
//	    APIKey: os.Getenv("GEMINI_API_KEY"),
//	})
//	if err != nil {
//	    return err
//	}
//	res, err := adapter.Generate(ctx, provider.Request{
//	    Prompt:         prompt,
//	    TargetLanguage: "go",
//	})
//
// # Available Providers
//
//   - "openai": chat-style backend (system and user message pair)
//   - "google": single-prompt backend (Gemini generateContent)
//
// Import github.com/randalmurphal/enc/providers to register both.
//
// # Failure Semantics
//
// Transport and API failures are returned as *Error and are never retried.
// An empty or blocked response is not an error: the adapter returns a
// placeholder comment (see Placeholder) and logs a warning.
package provider

import "context"

// Adapter is the uniform interface every generation backend implements.
// Implementations must be safe for concurrent use.
type Adapter interface {
	// Generate sends one prompt and returns the generated text and usage.
	// The context controls cancellation of the underlying transport.
	Generate(ctx context.Context, req Request) (*Result, error)

	// Provider returns the provider name (e.g., "openai", "google").
	Provider() string
}
