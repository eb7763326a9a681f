package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/enc/pricing"
)

func ptr[T any](v T) *T { return &v }

func f64(v float64) *float64 { return &v }

func testCatalog() *pricing.Catalog {
	return pricing.New(map[string]pricing.Entry{
		"openai/gpt-4o": {
			MaxOutputTokens:    f64(4096),
			MaxTokens:          f64(128000),
			InputCostPerToken:  f64(2.5e-06),
			OutputCostPerToken: f64(1e-05),
		},
		"google/gemini-2.5-pro": {MaxTokens: f64(65536)},
		"google/no-limits":      {InputCostPerToken: f64(1e-06)},
	})
}

func baseInputs() Inputs {
	return Inputs{
		Overrides: Overrides{OutputPath: ptr("out.py")},
		Env:       Environment{GeminiAPIKey: "g-key", OpenAIAPIKey: "o-key"},
		Catalog:   testCatalog(),
		InputPath: "hello.en",
		Command:   "enc hello.en -o out.py",
	}
}

func TestResolve_Defaults(t *testing.T) {
	in := baseInputs()

	eff, warns, err := Resolve(in)
	require.NoError(t, err)
	assert.Empty(t, warns)

	assert.Equal(t, "google", eff.Provider)
	assert.Equal(t, "gemini-2.5-pro", eff.Model)
	assert.Equal(t, "python", eff.TargetLanguage)
	assert.Equal(t, "out.py", eff.OutputPath)
	assert.Equal(t, 65536, eff.MaxTokens)
	assert.Equal(t, DefaultThinkingBudget, eff.ThinkingBudget)
	assert.False(t, eff.HasSeed)
	assert.Nil(t, eff.SeedPtr())
	assert.Equal(t, DefaultTemplatePath, eff.TemplatePath)
	assert.Equal(t, DefaultPricingPath, eff.PricingPath)
	assert.Equal(t, DefaultLogsPath, eff.LogsDir)
	assert.Equal(t, DefaultConventionsPath, eff.ConventionsPath)
	assert.False(t, eff.GroundedMode)
	assert.Nil(t, eff.ContextFiles())
	assert.Equal(t, "g-key", eff.APIKey)
	assert.Equal(t, "google/gemini-2.5-pro", eff.PricingKey())
	assert.Equal(t, "enc hello.en -o out.py", eff.Command)
}

func TestResolve_Precedence(t *testing.T) {
	t.Run("override beats env beats file", func(t *testing.T) {
		in := baseInputs()
		in.Env.Provider = "google"
		in.Env.Model = "env-model"
		in.File = &File{Provider: "google", Model: "file-model"}

		eff, _, err := Resolve(in)
		require.NoError(t, err)
		assert.Equal(t, "env-model", eff.Model)

		in.Overrides.Model = ptr("flag-model")
		eff, _, err = Resolve(in)
		require.NoError(t, err)
		assert.Equal(t, "flag-model", eff.Model)
	})

	t.Run("file beats default", func(t *testing.T) {
		in := baseInputs()
		in.File = &File{Provider: "openai", PromptTemplate: "custom.tmpl"}

		eff, _, err := Resolve(in)
		require.NoError(t, err)
		assert.Equal(t, "openai", eff.Provider)
		assert.Equal(t, "gpt-3.5-turbo", eff.Model)
		assert.Equal(t, "custom.tmpl", eff.TemplatePath)
	})

	t.Run("provider is case-insensitive", func(t *testing.T) {
		in := baseInputs()
		in.Env.Provider = "OpenAI"

		eff, _, err := Resolve(in)
		require.NoError(t, err)
		assert.Equal(t, "openai", eff.Provider)
		assert.Equal(t, "o-key", eff.APIKey)
	})
}

func TestResolve_MaxTokens(t *testing.T) {
	tests := []struct {
		name      string
		provider  string
		model     string
		override  *int
		env       string
		want      int
		wantWarns int
	}{
		{name: "override wins", provider: "openai", model: "gpt-4o", override: ptr(100), env: "200", want: 100},
		{name: "env wins over catalog", provider: "openai", model: "gpt-4o", env: "200", want: 200},
		{name: "catalog prefers max_output_tokens", provider: "openai", model: "gpt-4o", want: 4096},
		{name: "catalog falls back to max_tokens", provider: "google", model: "gemini-2.5-pro", want: 65536},
		{name: "invalid env warns then uses catalog", provider: "openai", model: "gpt-4o", env: "lots", want: 4096, wantWarns: 1},
		{name: "unknown model uses global fallback", provider: "openai", model: "mystery", want: DefaultMaxTokens, wantWarns: 1},
		{name: "entry without limits uses global fallback", provider: "google", model: "no-limits", want: DefaultMaxTokens, wantWarns: 1},
		{name: "non-positive override ignored", provider: "openai", model: "gpt-4o", override: ptr(0), want: 4096, wantWarns: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInputs()
			in.Overrides.Provider = ptr(tt.provider)
			in.Overrides.Model = ptr(tt.model)
			in.Overrides.MaxTokens = tt.override
			in.Env.MaxTokens = tt.env

			eff, warns, err := Resolve(in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, eff.MaxTokens)
			assert.Len(t, warns, tt.wantWarns)
		})
	}
}

func TestResolve_MaxTokensNilCatalog(t *testing.T) {
	in := baseInputs()
	in.Catalog = nil

	eff, warns, err := Resolve(in)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTokens, eff.MaxTokens)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "google/gemini-2.5-pro")
}

func TestResolve_SeedAndBudget(t *testing.T) {
	in := baseInputs()
	in.Env.Seed = "42"
	in.Env.ThinkingBudget = "512"

	eff, warns, err := Resolve(in)
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.True(t, eff.HasSeed)
	require.NotNil(t, eff.SeedPtr())
	assert.Equal(t, 42, *eff.SeedPtr())
	assert.Equal(t, 512, eff.ThinkingBudget)

	in.Env.Seed = "abc"
	in.Env.ThinkingBudget = "x"
	eff, warns, err = Resolve(in)
	require.NoError(t, err)
	assert.Len(t, warns, 2)
	assert.False(t, eff.HasSeed)
	assert.Equal(t, DefaultThinkingBudget, eff.ThinkingBudget)

	in.Overrides.Seed = ptr(0)
	eff, _, err = Resolve(in)
	require.NoError(t, err)
	assert.True(t, eff.HasSeed, "an explicit zero seed is still a seed")
}

func TestResolve_ContextFilesAndGrounded(t *testing.T) {
	in := baseInputs()
	in.Env.ContextFiles = " a.go: :b.go:"
	in.Env.GroundedMode = "TRUE"

	eff, _, err := Resolve(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go"}, eff.ContextFiles())
	assert.True(t, eff.GroundedMode)

	files := eff.ContextFiles()
	files[0] = "mutated"
	assert.Equal(t, "a.go", eff.ContextFiles()[0])

	in.Env.GroundedMode = "yes"
	eff, _, err = Resolve(in)
	require.NoError(t, err)
	assert.False(t, eff.GroundedMode)

	in.Overrides.ContextFiles = ptr("")
	eff, _, err = Resolve(in)
	require.NoError(t, err)
	assert.Nil(t, eff.ContextFiles())
}

func TestResolve_LogsDir(t *testing.T) {
	in := baseInputs()
	in.Env.LogsPath = "/var/log/enc"

	eff, _, err := Resolve(in)
	require.NoError(t, err)
	assert.Equal(t, "/var/log/enc", eff.LogsDir)

	in.Overrides.LogsPath = ptr("")
	eff, _, err = Resolve(in)
	require.NoError(t, err)
	assert.Equal(t, "", eff.LogsDir)
}

func TestResolve_TargetLanguage(t *testing.T) {
	tests := []struct {
		name       string
		output     *string
		lang       *string
		fileLang   string
		wantLang   string
		wantOutput string
		wantErr    error
	}{
		{name: "derived from extension", output: ptr("x.rs"), wantLang: "rust", wantOutput: "x.rs"},
		{name: "explicit agrees", output: ptr("x.rs"), lang: ptr("Rust"), wantLang: "rust", wantOutput: "x.rs"},
		{name: "explicit conflicts", output: ptr("x.rs"), lang: ptr("python"), wantErr: ErrLanguageConflict},
		{name: "unknown extension uses explicit", output: ptr("x.zz"), lang: ptr("zig"), wantLang: "zig", wantOutput: "x.zz"},
		{name: "unknown extension without language", output: ptr("x.zz"), wantErr: ErrNoTargetLanguage},
		{name: "unknown extension uses file language", output: ptr("x.zz"), fileLang: "Python", wantLang: "python", wantOutput: "x.zz"},
		{name: "flag beats file on unknown extension", output: ptr("x.zz"), lang: ptr("zig"), fileLang: "python", wantLang: "zig", wantOutput: "x.zz"},
		{name: "extension beats file language", output: ptr("x.rs"), fileLang: "python", wantLang: "rust", wantOutput: "x.rs"},
		{name: "language only derives output", lang: ptr("go"), wantLang: "go", wantOutput: "hello.go"},
		{name: "file language as last resort", fileLang: "ruby", wantLang: "ruby", wantOutput: "hello.rb"},
		{name: "nothing given", wantErr: ErrNoTargetLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInputs()
			in.Overrides.OutputPath = tt.output
			in.Overrides.TargetLanguage = tt.lang
			in.File = &File{TargetLanguage: tt.fileLang}

			eff, _, err := Resolve(in)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLang, eff.TargetLanguage)
			assert.Equal(t, tt.wantOutput, eff.OutputPath)
		})
	}
}

func TestResolve_Credentials(t *testing.T) {
	t.Run("unsupported provider", func(t *testing.T) {
		in := baseInputs()
		in.Overrides.Provider = ptr("anthropic")

		_, _, err := Resolve(in)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedProvider)
		assert.ErrorIs(t, err, ErrConfig)

		var cfgErr *Error
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "provider", cfgErr.Field)
	})

	t.Run("missing openai key", func(t *testing.T) {
		in := baseInputs()
		in.Env.OpenAIAPIKey = ""
		in.Overrides.Provider = ptr("openai")

		_, _, err := Resolve(in)
		assert.ErrorIs(t, err, ErrMissingCredential)
	})

	t.Run("google accepts GOOGLE_API_KEY", func(t *testing.T) {
		in := baseInputs()
		in.Env.GeminiAPIKey = ""
		in.Env.GoogleAPIKey = "alt"
		in.Env.GoogleAPIBase = "http://localhost:9999"

		eff, _, err := Resolve(in)
		require.NoError(t, err)
		assert.Equal(t, "alt", eff.APIKey)
		assert.Equal(t, "http://localhost:9999", eff.APIBase)
	})

	t.Run("missing google key", func(t *testing.T) {
		in := baseInputs()
		in.Env.GeminiAPIKey = ""

		_, _, err := Resolve(in)
		assert.ErrorIs(t, err, ErrMissingCredential)
	})
}

func TestPricingPath(t *testing.T) {
	assert.Equal(t, DefaultPricingPath, PricingPath(Overrides{}, Environment{}, nil))
	assert.Equal(t, "f.json", PricingPath(Overrides{}, Environment{}, &File{PricingFile: "f.json"}))
	assert.Equal(t, "e.json", PricingPath(Overrides{}, Environment{PricingFilePath: "e.json"}, &File{PricingFile: "f.json"}))
	assert.Equal(t, "o.json", PricingPath(Overrides{PricingPath: ptr("o.json")}, Environment{PricingFilePath: "e.json"}, nil))
}

func TestSnapshot(t *testing.T) {
	in := baseInputs()
	in.Env.MaxTokens = "77"

	eff, _, err := Resolve(in)
	require.NoError(t, err)

	snap := eff.Snapshot(in.Env, in.Catalog)
	assert.Equal(t, "google", snap.Provider)
	assert.Equal(t, 77, snap.MaxTokens)
	assert.True(t, snap.APIKeySet)
	assert.True(t, snap.CatalogHasModel)
	assert.Equal(t, 3, snap.CatalogEntries)
	assert.Equal(t, "77", snap.Environment.MaxTokens)
	assert.True(t, snap.Environment.GeminiKeySet)
	assert.Nil(t, snap.Seed)
}
