// Package enc turns natural-language descriptions into source code with a
// large language model and accounts for what each call cost.
//
// The binary lives in cmd/enc. The library is split by concern, and each
// subpackage can be used on its own:
//
//   - config: layered configuration (flags, environment, enc.toml, catalog)
//   - pricing: the model limits and per-token rates catalog
//   - template: single-pass {{variable}} prompt rendering
//   - provider: the backend contract and registry
//   - openai, google: chat-style and single-prompt backends
//   - parser: markdown fence stripping and code block extraction
//   - tokens: prompt size estimates for input-window warnings
//   - cost: cost breakdowns, the run summary and session totals
//   - audit: the per-run API call log
//   - transpile: the run orchestration
//   - metrics: Prometheus textfile export
//   - watch: re-running on input changes
//
// # Quick Start
//
// Rendering a prompt:
//
//	import "github.com/randalmurphal/enc/template"
//	engine := template.NewEngine()
//	prompt := engine.Render("Write {{target_language}}", map[string]string{"target_language": "go"})
//
// Running a transpilation:
//
//	import (
//		"github.com/randalmurphal/enc/provider"
//		"github.com/randalmurphal/enc/transpile"
//		_ "github.com/randalmurphal/enc/providers"
//	)
//	adapter, _ := provider.New("google", provider.Config{Model: "gemini-2.5-pro", APIKey: key})
//	out, err := transpile.New(adapter, transpile.WithCatalog(catalog)).Run(ctx, eff)
//
// # Design Philosophy
//
//   - One request per run, no retries
//   - Degrade to warnings when metering or pricing data is incomplete
//   - Configuration is resolved once into an immutable value
//   - Interfaces for extensibility, concrete types for simplicity
package enc
