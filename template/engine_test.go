package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Render(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name      string
		template  string
		variables map[string]string
		want      string
	}{
		{
			name:      "single variable",
			template:  "Hello, {{name}}!",
			variables: map[string]string{"name": "World"},
			want:      "Hello, World!",
		},
		{
			name:      "inner whitespace trimmed",
			template:  "{{ greeting }}, {{name  }}!",
			variables: map[string]string{"greeting": "Hi", "name": "Alice"},
			want:      "Hi, Alice!",
		},
		{
			name:      "repeated variable",
			template:  "{{x}}-{{x}}",
			variables: map[string]string{"x": "a"},
			want:      "a-a",
		},
		{
			name:      "unknown variable left verbatim",
			template:  "Hello, {{ nobody }}!",
			variables: map[string]string{"name": "World"},
			want:      "Hello, {{ nobody }}!",
		},
		{
			name:      "substituted text is not re-expanded",
			template:  "A={{a}} B={{b}}",
			variables: map[string]string{"a": "{{b}}", "b": "bee"},
			want:      "A={{b}} B=bee",
		},
		{
			name:      "empty value",
			template:  "[{{style}}]",
			variables: map[string]string{"style": ""},
			want:      "[]",
		},
		{
			name:      "nil variables",
			template:  "no placeholders",
			variables: nil,
			want:      "no placeholders",
		},
		{
			name:      "multiline template",
			template:  "lang: {{target_language}}\n\n{{english_content}}\n",
			variables: map[string]string{"target_language": "go", "english_content": "print hi"},
			want:      "lang: go\n\nprint hi\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Render(tt.template, tt.variables))
		})
	}
}

func TestEngine_Render_ContextFileWithPlaceholders(t *testing.T) {
	e := NewEngine()
	files := FormatContextFiles([]ContextFile{{Path: "t.tmpl", Content: "{{output_path}}"}})
	ctx := Context{OutputPath: "out.go", ContextFiles: files}

	got := e.Render("{{context_files}}|{{output_path}}", ctx.Variables())
	assert.Equal(t, "### t.tmpl\n```tmpl\n{{output_path}}\n```|out.go", got)
}

func TestEngine_Parse(t *testing.T) {
	e := NewEngine()

	names, err := e.Parse("{{ a }} {{b}} {{a}} {{}} {{c}}")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)

	_, err = e.Parse("")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestValidateVariables(t *testing.T) {
	vars := Context{TargetLanguage: "go"}.Variables()
	assert.NoError(t, ValidateVariables([]string{VarTargetLanguage, VarOutputPath}, vars))

	err := ValidateVariables([]string{"missing", VarTargetLanguage, "other"}, vars)
	assert.ErrorIs(t, err, ErrVariable)
	assert.Equal(t, "required variable missing: missing, other", err.Error())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("Write {{target_language}}"), 0o644))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Write {{target_language}}", got)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.tmpl"))
	assert.ErrorIs(t, err, ErrTemplate)
}

func TestFormatContextFiles(t *testing.T) {
	assert.Equal(t, NoContextFiles, FormatContextFiles(nil))

	got := FormatContextFiles([]ContextFile{
		{Path: "main.go", Content: "package main"},
		{Path: "Makefile", Content: "all:"},
	})
	assert.Equal(t, "### main.go\n```go\npackage main\n```\n\n### Makefile\n```text\nall:\n```", got)
}

func TestContext_Variables(t *testing.T) {
	vars := Context{
		TargetLanguage:     "rust",
		EnglishContent:     "body",
		HackingConventions: "style",
		GenerationCommand:  "enc x.en",
		ContextFiles:       NoContextFiles,
		OutputPath:         "x.rs",
	}.Variables()

	assert.Len(t, vars, 6)
	assert.Equal(t, "rust", vars["target_language"])
	assert.Equal(t, "body", vars["english_content"])
	assert.Equal(t, "style", vars["hacking_conventions"])
	assert.Equal(t, "enc x.en", vars["generation_command"])
	assert.Equal(t, NoContextFiles, vars["context_files"])
	assert.Equal(t, "x.rs", vars["output_path"])
}
