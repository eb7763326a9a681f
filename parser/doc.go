// Package parser cleans up generated code returned by an LLM.
//
// Core functions:
//   - StripFences: removes a markdown fence pair that wraps the whole response
//   - Parser.CodeBlocks: lists fenced blocks, used to flag responses that
//     mix prose and code
//
// Example usage:
//
//	code := parser.StripFences(result.Content)
//	if blocks := parser.NewParser().CodeBlocks(code); len(blocks) > 0 {
//	    // fences remain: the response was not a single code block
//	}
package parser
