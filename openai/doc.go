// Package openai implements the chat-style provider adapter against the
// OpenAI chat completions API (and compatible endpoints).
//
// Each request is a system message naming the target language followed by
// the rendered prompt as the user message, at temperature 0.2. A seed and
// max_tokens are forwarded when set.
//
// When the response carries no usage object, or reports zero tokens for
// both input and output, usage falls back to character counts of the two
// messages and the generated text.
//
// Importing this package registers the "openai" provider:
//
//	import _ "github.com/randalmurphal/enc/openai"
package openai
