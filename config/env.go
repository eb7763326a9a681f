package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Environment holds the raw environment tier of the configuration.
//
// Numeric and boolean values are kept as strings: a malformed MAX_TOKENS
// must degrade to a warning during resolution, not fail parsing here.
type Environment struct {
	Provider string `env:"PROVIDER"`
	Model    string `env:"MODEL"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIAPIBase string `env:"OPENAI_API_BASE"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GoogleAPIKey  string `env:"GOOGLE_API_KEY"`
	GoogleAPIBase string `env:"GEMINI_API_BASE"`

	PromptTemplatePath string `env:"PROMPT_TEMPLATE_PATH"`
	PricingFilePath    string `env:"PRICING_FILE_PATH"`
	ConventionsPath    string `env:"CONVENTIONS_PATH"`
	LogsPath           string `env:"LOGS_PATH"`
	ContextFiles       string `env:"CONTEXT_FILES"`

	MaxTokens      string `env:"MAX_TOKENS"`
	ThinkingBudget string `env:"THINKING_BUDGET"`
	Seed           string `env:"SEED"`
	GroundedMode   string `env:"GROUNDED_MODE"`
}

// ParseEnvironment decodes the environment tier from a plain map, so
// resolution never reads process globals directly.
func ParseEnvironment(vars map[string]string) (Environment, error) {
	var e Environment
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars}); err != nil {
		return Environment{}, fmt.Errorf("parse environment: %w", err)
	}
	return e, nil
}

// EnvFiles names the dotenv-style files merged into the environment.
type EnvFiles struct {
	// Global is read first and never overrides the process environment.
	Global string
	// Local is read last and overrides both the global file and the process.
	Local string
}

// DefaultEnvFiles returns ~/.enc.env and ./.enc.env.
func DefaultEnvFiles() EnvFiles {
	files := EnvFiles{Local: ".enc.env"}
	if home, err := os.UserHomeDir(); err == nil {
		files.Global = home + string(os.PathSeparator) + ".enc.env"
	}
	return files
}

// BuildEnvironment merges env files with the process environment
// (given as os.Environ-style "KEY=VALUE" pairs). Missing files are skipped.
func BuildEnvironment(process []string, files EnvFiles) (map[string]string, error) {
	merged := make(map[string]string)

	global, err := readEnvFile(files.Global)
	if err != nil {
		return nil, err
	}
	for k, v := range global {
		merged[k] = v
	}

	for _, kv := range process {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			merged[k] = v
		}
	}

	local, err := readEnvFile(files.Local)
	if err != nil {
		return nil, err
	}
	for k, v := range local {
		merged[k] = v
	}

	return merged, nil
}

// readEnvFile parses KEY=VALUE lines. Blank lines and # comments are
// skipped, an "export " prefix is allowed, and matching surrounding quotes
// are removed.
func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open env file %s: %w", path, err)
	}
	defer f.Close()

	vars := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%s:%d: expected KEY=VALUE", path, lineNo)
		}
		vars[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return vars, nil
}

func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' || first == '\'') && first == last {
			return v[1 : len(v)-1]
		}
	}
	if i := strings.Index(v, " #"); i >= 0 {
		return strings.TrimSpace(v[:i])
	}
	return v
}
