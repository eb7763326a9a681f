// Package google implements the single-prompt provider adapter against the
// Gemini generateContent REST API.
//
// The backend has no seed parameter, so a requested seed forces the
// temperature to 0; otherwise 0.2 is used. maxOutputTokens is forwarded
// when set.
//
// Usage comes from usageMetadata. Thinking tokens are the part of
// totalTokenCount not explained by promptTokenCount and
// candidatesTokenCount, clamped at zero. When the metadata is missing or
// reports zero everywhere, usage falls back to character counts of the
// prompt and generated text, with thinking fixed at zero.
//
// Importing this package registers the "google" provider:
//
//	import _ "github.com/randalmurphal/enc/google"
package google
