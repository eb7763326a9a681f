package config

import (
	"github.com/randalmurphal/enc/pricing"
)

// Fallback values used when no tier supplies a field.
const (
	DefaultProvider        = "google"
	DefaultMaxTokens       = 1048576
	DefaultThinkingBudget  = 2048
	DefaultTemplatePath    = "res/prompt.tmpl"
	DefaultPricingPath     = "res/pricing.json"
	DefaultLogsPath        = "./log/"
	DefaultConventionsPath = "HACKING.md"
)

// defaultModels maps providers to the model used when none is configured.
var defaultModels = map[string]string{
	"openai": "gpt-3.5-turbo",
	"google": "gemini-2.5-pro",
}

// fallbackModel is used for providers with no entry in defaultModels.
const fallbackModel = "gpt-3.5-turbo"

// DefaultModel returns the default model for a provider.
func DefaultModel(provider string) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return fallbackModel
}

// Overrides is the highest-precedence tier, typically command-line flags.
// A nil field means "not given".
type Overrides struct {
	Provider        *string
	Model           *string
	OutputPath      *string
	TargetLanguage  *string
	TemplatePath    *string
	PricingPath     *string
	LogsPath        *string
	ConventionsPath *string
	ContextFiles    *string

	Seed           *int
	MaxTokens      *int
	ThinkingBudget *int

	GroundedMode *bool
}

// Inputs bundles every tier Resolve reads from.
type Inputs struct {
	Overrides Overrides
	Env       Environment
	File      *File
	Catalog   *pricing.Catalog

	// InputPath is the natural-language source file; used to derive the
	// default output path.
	InputPath string

	// Command is the literal invocation string passed to the prompt.
	Command string
}

// Effective is the resolved configuration for one run. It is built once by
// Resolve and passed by value; the context file list is only reachable
// through a copying accessor.
type Effective struct {
	Provider       string
	Model          string
	TargetLanguage string
	InputPath      string
	OutputPath     string

	Seed           int
	HasSeed        bool
	MaxTokens      int
	ThinkingBudget int

	TemplatePath    string
	PricingPath     string
	LogsDir         string
	ConventionsPath string
	GroundedMode    bool
	Command         string

	APIKey  string
	APIBase string

	contextFiles []string
}

// ContextFiles returns a copy of the configured context file paths.
func (e Effective) ContextFiles() []string {
	if len(e.contextFiles) == 0 {
		return nil
	}
	out := make([]string, len(e.contextFiles))
	copy(out, e.contextFiles)
	return out
}

// PricingKey returns the catalog key for the resolved provider and model.
func (e Effective) PricingKey() string {
	return pricing.Key(e.Provider, e.Model)
}

// SeedPtr returns the seed as an optional value for request building.
func (e Effective) SeedPtr() *int {
	if !e.HasSeed {
		return nil
	}
	s := e.Seed
	return &s
}

// Snapshot is the printable form of an Effective configuration. Credentials
// are reported as set or unset only.
type Snapshot struct {
	Provider        string   `json:"provider" yaml:"provider"`
	Model           string   `json:"model" yaml:"model"`
	TargetLanguage  string   `json:"target_language" yaml:"target_language"`
	InputFile       string   `json:"input_file" yaml:"input_file"`
	OutputFile      string   `json:"output_file" yaml:"output_file"`
	Seed            *int     `json:"seed" yaml:"seed"`
	MaxTokens       int      `json:"max_tokens" yaml:"max_tokens"`
	ThinkingBudget  int      `json:"thinking_budget" yaml:"thinking_budget"`
	PromptTemplate  string   `json:"prompt_template_file" yaml:"prompt_template_file"`
	PricingFile     string   `json:"pricing_file" yaml:"pricing_file"`
	LogsPath        string   `json:"logs_path" yaml:"logs_path"`
	Conventions     string   `json:"conventions" yaml:"conventions"`
	ContextFiles    []string `json:"context_files" yaml:"context_files"`
	GroundedMode    bool     `json:"grounded_mode" yaml:"grounded_mode"`
	APIKeySet       bool     `json:"api_key_set" yaml:"api_key_set"`
	APIBase         string   `json:"api_base,omitempty" yaml:"api_base,omitempty"`
	GenerationCmd   string   `json:"generation_command" yaml:"generation_command"`
	Environment     EnvEcho  `json:"environment" yaml:"environment"`
	CatalogEntries  int      `json:"catalog_entries" yaml:"catalog_entries"`
	CatalogHasModel bool     `json:"catalog_has_model" yaml:"catalog_has_model"`
}

// EnvEcho reports the raw environment values that influenced resolution.
type EnvEcho struct {
	Provider        string `json:"PROVIDER,omitempty" yaml:"PROVIDER,omitempty"`
	Model           string `json:"MODEL,omitempty" yaml:"MODEL,omitempty"`
	OpenAIKeySet    bool   `json:"OPENAI_API_KEY_SET" yaml:"OPENAI_API_KEY_SET"`
	GeminiKeySet    bool   `json:"GEMINI_API_KEY_SET" yaml:"GEMINI_API_KEY_SET"`
	OpenAIAPIBase   string `json:"OPENAI_API_BASE,omitempty" yaml:"OPENAI_API_BASE,omitempty"`
	PromptTemplate  string `json:"PROMPT_TEMPLATE_PATH,omitempty" yaml:"PROMPT_TEMPLATE_PATH,omitempty"`
	MaxTokens       string `json:"MAX_TOKENS,omitempty" yaml:"MAX_TOKENS,omitempty"`
	ThinkingBudget  string `json:"THINKING_BUDGET,omitempty" yaml:"THINKING_BUDGET,omitempty"`
	LogsPath        string `json:"LOGS_PATH,omitempty" yaml:"LOGS_PATH,omitempty"`
	ContextFiles    string `json:"CONTEXT_FILES,omitempty" yaml:"CONTEXT_FILES,omitempty"`
	GroundedMode    string `json:"GROUNDED_MODE,omitempty" yaml:"GROUNDED_MODE,omitempty"`
	PricingFilePath string `json:"PRICING_FILE_PATH,omitempty" yaml:"PRICING_FILE_PATH,omitempty"`
}

// Snapshot builds the printable configuration.
func (e Effective) Snapshot(env Environment, catalog *pricing.Catalog) Snapshot {
	_, inCatalog := catalog.Lookup(e.Provider, e.Model)
	return Snapshot{
		Provider:        e.Provider,
		Model:           e.Model,
		TargetLanguage:  e.TargetLanguage,
		InputFile:       e.InputPath,
		OutputFile:      e.OutputPath,
		Seed:            e.SeedPtr(),
		MaxTokens:       e.MaxTokens,
		ThinkingBudget:  e.ThinkingBudget,
		PromptTemplate:  e.TemplatePath,
		PricingFile:     e.PricingPath,
		LogsPath:        e.LogsDir,
		Conventions:     e.ConventionsPath,
		ContextFiles:    e.ContextFiles(),
		GroundedMode:    e.GroundedMode,
		APIKeySet:       e.APIKey != "",
		APIBase:         e.APIBase,
		GenerationCmd:   e.Command,
		CatalogEntries:  catalog.Len(),
		CatalogHasModel: inCatalog,
		Environment: EnvEcho{
			Provider:        env.Provider,
			Model:           env.Model,
			OpenAIKeySet:    env.OpenAIAPIKey != "",
			GeminiKeySet:    env.GeminiAPIKey != "" || env.GoogleAPIKey != "",
			OpenAIAPIBase:   env.OpenAIAPIBase,
			PromptTemplate:  env.PromptTemplatePath,
			MaxTokens:       env.MaxTokens,
			ThinkingBudget:  env.ThinkingBudget,
			LogsPath:        env.LogsPath,
			ContextFiles:    env.ContextFiles,
			GroundedMode:    env.GroundedMode,
			PricingFilePath: env.PricingFilePath,
		},
	}
}
