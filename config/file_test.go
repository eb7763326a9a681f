package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enc.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider = "openai"
model = "gpt-4o"
max_tokens = 8192
seed = 7
logs_path = ""
context_files = ["HACKING.md", "go.mod"]
grounded_mode = true
colour = "blue"
`), 0o644))

	f, unknown, err := LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, f)

	assert.Equal(t, "openai", f.Provider)
	assert.Equal(t, "gpt-4o", f.Model)
	assert.Equal(t, 8192, f.MaxTokens)
	require.NotNil(t, f.Seed)
	assert.Equal(t, 7, *f.Seed)
	require.NotNil(t, f.LogsPath)
	assert.Equal(t, "", *f.LogsPath)
	assert.Equal(t, []string{"HACKING.md", "go.mod"}, f.ContextFiles)
	require.NotNil(t, f.GroundedMode)
	assert.True(t, *f.GroundedMode)
	assert.Equal(t, []string{"colour"}, unknown)
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enc.toml")
	require.NoError(t, os.WriteFile(path, []byte("provider = \n"), 0o644))

	_, _, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoadFileOptional(t *testing.T) {
	f, unknown, err := LoadFileOptional(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.Nil(t, unknown)
}

func TestResolve_FileTier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enc.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_tokens = 1234
seed = 9
logs_path = ""
grounded_mode = true
context_files = ["a.md", " "]
`), 0o644))

	f, _, err := LoadFile(path)
	require.NoError(t, err)

	in := baseInputs()
	in.File = f
	eff, _, err := Resolve(in)
	require.NoError(t, err)

	assert.Equal(t, 1234, eff.MaxTokens)
	assert.Equal(t, 9, eff.Seed)
	assert.True(t, eff.HasSeed)
	assert.Equal(t, "", eff.LogsDir)
	assert.True(t, eff.GroundedMode)
	assert.Equal(t, []string{"a.md"}, eff.ContextFiles())
}

func TestResolve_FileTierLanguageWithUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enc.toml")
	require.NoError(t, os.WriteFile(path, []byte("target_language = \"python\"\n"), 0o644))

	f, _, err := LoadFile(path)
	require.NoError(t, err)

	in := baseInputs()
	in.File = f
	in.Overrides.OutputPath = ptr("build/hello.ext")
	eff, _, err := Resolve(in)
	require.NoError(t, err)

	assert.Equal(t, "python", eff.TargetLanguage)
	assert.Equal(t, "build/hello.ext", eff.OutputPath)
}
