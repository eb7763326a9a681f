package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolve merges the configuration tiers into one Effective value.
//
// Precedence is fixed per field: overrides, then environment, then the
// config file, then catalog-derived or provider-specific defaults, then
// hard-coded fallbacks. Degraded resolution (an unparsable MAX_TOKENS, a
// model missing from the catalog) produces warnings, never errors. Errors
// are reserved for an unsupported provider, a missing credential, and an
// undeterminable or conflicting target language; all wrap ErrConfig.
func Resolve(in Inputs) (Effective, []string, error) {
	var w warnings
	o, env := in.Overrides, in.Env
	f := in.File
	if f == nil {
		f = &File{}
	}

	provider := strings.ToLower(firstNonEmpty(deref(o.Provider), env.Provider, f.Provider, DefaultProvider))
	apiKey, apiBase, err := credentials(provider, env)
	if err != nil {
		return Effective{}, w, err
	}

	model := firstNonEmpty(deref(o.Model), env.Model, f.Model, DefaultModel(provider))

	lang, output, err := resolveTarget(o, f, in.InputPath)
	if err != nil {
		return Effective{}, w, err
	}

	eff := Effective{
		Provider:       provider,
		Model:          model,
		TargetLanguage: lang,
		InputPath:      in.InputPath,
		OutputPath:     output,
		APIKey:         apiKey,
		APIBase:        apiBase,
		Command:        in.Command,

		TemplatePath:    firstNonEmpty(deref(o.TemplatePath), env.PromptTemplatePath, f.PromptTemplate, DefaultTemplatePath),
		PricingPath:     PricingPath(o, env, in.File),
		ConventionsPath: firstNonEmpty(deref(o.ConventionsPath), env.ConventionsPath, f.Conventions, DefaultConventionsPath),
		LogsDir:         resolveLogsDir(o, env, f),
		GroundedMode:    resolveGrounded(o, env, f),
		contextFiles:    resolveContextFiles(o, env, f),
	}

	eff.MaxTokens = resolveMaxTokens(in, provider, model, &w)
	eff.ThinkingBudget = resolveThinkingBudget(o, env, f, &w)
	eff.Seed, eff.HasSeed = resolveSeed(o, env, f, &w)

	return eff, w, nil
}

// PricingPath resolves the catalog location. It is exported because the
// catalog must be loaded before Resolve can consult it.
func PricingPath(o Overrides, env Environment, f *File) string {
	var fromFile string
	if f != nil {
		fromFile = f.PricingFile
	}
	return firstNonEmpty(deref(o.PricingPath), env.PricingFilePath, fromFile, DefaultPricingPath)
}

func credentials(provider string, env Environment) (key, base string, err error) {
	switch provider {
	case "openai":
		if env.OpenAIAPIKey == "" {
			return "", "", fieldError("OPENAI_API_KEY", fmt.Errorf("%w: not set for provider openai", ErrMissingCredential))
		}
		return env.OpenAIAPIKey, env.OpenAIAPIBase, nil
	case "google":
		key = firstNonEmpty(env.GeminiAPIKey, env.GoogleAPIKey)
		if key == "" {
			return "", "", fieldError("GEMINI_API_KEY", fmt.Errorf("%w: not set for provider google", ErrMissingCredential))
		}
		return key, env.GoogleAPIBase, nil
	default:
		return "", "", fieldError("provider", fmt.Errorf("%w %q: choose openai or google", ErrUnsupportedProvider, provider))
	}
}

// resolveTarget settles the target language and output path. An output
// extension that maps to a known language is authoritative; otherwise the
// flag wins over the config file's language.
func resolveTarget(o Overrides, f *File, inputPath string) (lang, output string, err error) {
	lang = strings.ToLower(deref(o.TargetLanguage))
	output = deref(o.OutputPath)

	switch {
	case output != "":
		derived, ok := LanguageForPath(output)
		if ok {
			if lang != "" && lang != derived {
				return "", "", fieldError("target_language",
					fmt.Errorf("%w: %q vs %q inferred from %s", ErrLanguageConflict, lang, derived, output))
			}
			lang = derived
		} else if lang == "" {
			lang = strings.ToLower(f.TargetLanguage)
			if lang == "" {
				return "", "", fieldError("target_language",
					fmt.Errorf("%w: unknown extension on %s and no language given", ErrNoTargetLanguage, output))
			}
		}
	case lang == "":
		lang = strings.ToLower(f.TargetLanguage)
		if lang == "" {
			return "", "", fieldError("target_language",
				fmt.Errorf("%w: give an output file with a known extension or a target language", ErrNoTargetLanguage))
		}
	}

	if output == "" {
		output = DefaultOutputPath(inputPath, lang)
	}
	return lang, output, nil
}

func resolveMaxTokens(in Inputs, provider, model string, w *warnings) int {
	if v := in.Overrides.MaxTokens; v != nil {
		if *v > 0 {
			return *v
		}
		w.add("ignoring non-positive max tokens override %d", *v)
	}

	if raw := in.Env.MaxTokens; raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		switch {
		case err != nil:
			w.add("MAX_TOKENS environment variable (%q) is not a valid integer; attempting model-specific default", raw)
		case n <= 0:
			w.add("MAX_TOKENS environment variable (%d) is not positive; attempting model-specific default", n)
		default:
			return n
		}
	}

	if in.File != nil && in.File.MaxTokens > 0 {
		return in.File.MaxTokens
	}

	key := provider + "/" + model
	entry, ok := in.Catalog.Lookup(provider, model)
	if !ok {
		w.add("no pricing data found for model %q; using global fallback %d for max tokens", key, DefaultMaxTokens)
		return DefaultMaxTokens
	}
	if n, ok := entry.MaxOutput(); ok {
		return n
	}
	w.add("no max_output_tokens or max_tokens found for model %q in pricing data; using global fallback %d", key, DefaultMaxTokens)
	return DefaultMaxTokens
}

func resolveThinkingBudget(o Overrides, env Environment, f *File, w *warnings) int {
	if o.ThinkingBudget != nil {
		return *o.ThinkingBudget
	}
	if raw := env.ThinkingBudget; raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err == nil {
			return n
		}
		w.add("THINKING_BUDGET environment variable (%q) is not a valid integer; ignoring", raw)
	}
	if f.ThinkingBudget > 0 {
		return f.ThinkingBudget
	}
	return DefaultThinkingBudget
}

func resolveSeed(o Overrides, env Environment, f *File, w *warnings) (int, bool) {
	if o.Seed != nil {
		return *o.Seed, true
	}
	if raw := env.Seed; raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err == nil {
			return n, true
		}
		w.add("SEED environment variable (%q) is not a valid integer; ignoring", raw)
	}
	if f.Seed != nil {
		return *f.Seed, true
	}
	return 0, false
}

// resolveLogsDir honors an explicitly empty override, which disables the audit log.
func resolveLogsDir(o Overrides, env Environment, f *File) string {
	if o.LogsPath != nil {
		return *o.LogsPath
	}
	if env.LogsPath != "" {
		return env.LogsPath
	}
	if f.LogsPath != nil {
		return *f.LogsPath
	}
	return DefaultLogsPath
}

func resolveGrounded(o Overrides, env Environment, f *File) bool {
	if o.GroundedMode != nil {
		return *o.GroundedMode
	}
	if env.GroundedMode != "" {
		return strings.EqualFold(strings.TrimSpace(env.GroundedMode), "true")
	}
	if f.GroundedMode != nil {
		return *f.GroundedMode
	}
	return false
}

func resolveContextFiles(o Overrides, env Environment, f *File) []string {
	if o.ContextFiles != nil {
		return SplitContextFiles(*o.ContextFiles)
	}
	if env.ContextFiles != "" {
		return SplitContextFiles(env.ContextFiles)
	}
	var out []string
	for _, p := range f.ContextFiles {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitContextFiles splits a colon-separated path list, dropping empty items.
func SplitContextFiles(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ":") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

type warnings []string

func (w *warnings) add(format string, args ...any) {
	*w = append(*w, fmt.Sprintf(format, args...))
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
