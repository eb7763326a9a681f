package template

import (
	"path/filepath"
	"strings"
)

// Variable names supplied by Context.
const (
	VarTargetLanguage     = "target_language"
	VarEnglishContent     = "english_content"
	VarHackingConventions = "hacking_conventions"
	VarGenerationCommand  = "generation_command"
	VarContextFiles       = "context_files"
	VarOutputPath         = "output_path"
)

// NoContextFiles is rendered for context_files when none were loaded.
const NoContextFiles = "No context files were provided."

// Context is the set of values a prompt is rendered from.
type Context struct {
	TargetLanguage     string
	EnglishContent     string
	HackingConventions string
	GenerationCommand  string
	ContextFiles       string
	OutputPath         string
}

// Variables returns the context as a placeholder map.
func (c Context) Variables() map[string]string {
	return map[string]string{
		VarTargetLanguage:     c.TargetLanguage,
		VarEnglishContent:     c.EnglishContent,
		VarHackingConventions: c.HackingConventions,
		VarGenerationCommand:  c.GenerationCommand,
		VarContextFiles:       c.ContextFiles,
		VarOutputPath:         c.OutputPath,
	}
}

// ContextFile is one supplementary file included in the prompt.
type ContextFile struct {
	Path    string
	Content string
}

// FormatContextFiles renders each file as a headed, fenced block:
//
//	### path/to/file.go
//	```go
//	<content>
//	```
//
// Blocks are separated by a blank line. The fence tag is the file
// extension, or "text" when there is none.
func FormatContextFiles(files []ContextFile) string {
	if len(files) == 0 {
		return NoContextFiles
	}

	blocks := make([]string, 0, len(files))
	for _, f := range files {
		tag := strings.TrimPrefix(filepath.Ext(f.Path), ".")
		if tag == "" {
			tag = "text"
		}
		blocks = append(blocks, "### "+f.Path+"\n```"+tag+"\n"+f.Content+"\n```")
	}
	return strings.Join(blocks, "\n\n")
}
