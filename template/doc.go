// Package template renders prompt templates with single-pass variable substitution.
//
// # Syntax
//
// Placeholders use double braces; whitespace inside the braces is ignored:
//
//	Translate this into {{ target_language }}:
//
//	{{english_content}}
//
// Each placeholder is replaced exactly once from the variable map. The
// substituted text is never scanned again, so a context file that itself
// contains "{{...}}" is copied through literally. Placeholders with no
// matching variable are left untouched.
//
// # Prompt Variables
//
// Context.Variables produces the names the transpiler supplies:
//
//   - target_language - Language to generate
//   - english_content - Body of the natural-language input file
//   - hacking_conventions - Style guide text, possibly empty
//   - generation_command - Literal command line of this run
//   - context_files - Formatted context file listing (see FormatContextFiles)
//   - output_path - Destination path of the generated code
//
// # Usage
//
//	tmpl, err := template.LoadFile("res/prompt.tmpl")
//	if err != nil {
//	    return err
//	}
//	prompt := template.NewEngine().Render(tmpl, ctx.Variables())
package template
