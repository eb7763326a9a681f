package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

// DefaultFilePath is the project config file read when --config is not given.
const DefaultFilePath = "enc.toml"

// File is the optional project config file tier. It sits below the
// environment and above derived defaults.
//
//	provider = "google"
//	model = "gemini-2.5-pro"
//	max_tokens = 8192
//	context_files = ["HACKING.md", "go.mod"]
type File struct {
	Provider       string   `toml:"provider"`
	Model          string   `toml:"model"`
	TargetLanguage string   `toml:"target_language"`
	MaxTokens      int      `toml:"max_tokens"`
	ThinkingBudget int      `toml:"thinking_budget"`
	Seed           *int     `toml:"seed"`
	PromptTemplate string   `toml:"prompt_template"`
	PricingFile    string   `toml:"pricing_file"`
	Conventions    string   `toml:"conventions"`
	LogsPath       *string  `toml:"logs_path"`
	ContextFiles   []string `toml:"context_files"`
	GroundedMode   *bool    `toml:"grounded_mode"`
}

// LoadFile decodes a TOML config file. A missing file returns (nil, err)
// with err wrapping fs.ErrNotExist; callers decide whether that matters.
// Unknown keys are returned so they can be reported as warnings.
func LoadFile(path string) (*File, []string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, err
	}

	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrConfig, path, err)
	}

	var unknown []string
	for _, key := range meta.Undecoded() {
		unknown = append(unknown, key.String())
	}
	sort.Strings(unknown)
	return &f, unknown, nil
}

// LoadFileOptional is LoadFile that treats a missing file as "no file".
func LoadFileOptional(path string) (*File, []string, error) {
	f, unknown, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	return f, unknown, err
}
