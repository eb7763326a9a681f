package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Entry holds the limits and rates published for one provider/model pair.
//
// Numeric limits are decoded as float64 because upstream catalogs mix
// integer and float notation (8192 and 8192.0) for the same field.
type Entry struct {
	MaxTokens       *float64 `json:"max_tokens,omitempty" jsonschema:"description=Maximum total tokens (or output tokens when max_output_tokens is absent)"`
	MaxInputTokens  *float64 `json:"max_input_tokens,omitempty" jsonschema:"description=Maximum prompt tokens"`
	MaxOutputTokens *float64 `json:"max_output_tokens,omitempty" jsonschema:"description=Maximum generated tokens"`

	InputCostPerToken           *float64 `json:"input_cost_per_token,omitempty" jsonschema:"minimum=0"`
	InputCostPerTokenAbove200k  *float64 `json:"input_cost_per_token_above_200k_tokens,omitempty" jsonschema:"minimum=0"`
	OutputCostPerToken          *float64 `json:"output_cost_per_token,omitempty" jsonschema:"minimum=0"`
	OutputCostPerTokenAbove200k *float64 `json:"output_cost_per_token_above_200k_tokens,omitempty" jsonschema:"minimum=0"`
	ThinkingCostPerToken        *float64 `json:"thinking_cost_per_token,omitempty" jsonschema:"minimum=0"`

	// Source is the URL the rates were taken from.
	Source string `json:"source,omitempty"`
}

// MaxOutput returns the output token ceiling for the model.
// max_output_tokens wins over max_tokens; ok is false when neither is set
// or the value is not positive.
func (e Entry) MaxOutput() (int, bool) {
	if n, ok := positive(e.MaxOutputTokens); ok {
		return n, true
	}
	return positive(e.MaxTokens)
}

// MaxInput returns the prompt token ceiling, if published.
func (e Entry) MaxInput() (int, bool) {
	return positive(e.MaxInputTokens)
}

func positive(v *float64) (int, bool) {
	if v == nil || *v <= 0 {
		return 0, false
	}
	return int(*v), true
}

// Key builds the catalog key for a provider and model.
func Key(provider, model string) string {
	return provider + "/" + model
}

// Catalog is a read-only table of pricing entries.
// A nil *Catalog behaves like an empty one.
type Catalog struct {
	path    string
	entries map[string]Entry
}

// New creates a catalog from in-memory entries. The map is copied.
func New(entries map[string]Entry) *Catalog {
	c := &Catalog{entries: make(map[string]Entry, len(entries))}
	for k, v := range entries {
		c.entries[k] = v
	}
	return c
}

// Load reads and parses a catalog file.
// A missing file wraps ErrCatalogNotFound; invalid JSON wraps ErrCatalogMalformed.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
		}
		return nil, fmt.Errorf("read pricing catalog %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.path = path
	return c, nil
}

// Parse decodes catalog JSON.
func Parse(data []byte) (*Catalog, error) {
	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogMalformed, err)
	}
	if entries == nil {
		return nil, fmt.Errorf("%w: document is null", ErrCatalogMalformed)
	}
	return &Catalog{entries: entries}, nil
}

// Lookup finds the entry for an exact provider/model pair.
func (c *Catalog) Lookup(provider, model string) (Entry, bool) {
	return c.Get(Key(provider, model))
}

// Get finds the entry for an exact catalog key.
func (c *Catalog) Get(key string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	e, ok := c.entries[key]
	return e, ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Path returns the file the catalog was loaded from, or "" for in-memory catalogs.
func (c *Catalog) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}
