package template

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// placeholderPattern matches {{ name }} non-greedily; the name is trimmed.
var placeholderPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)

// Engine renders prompt templates with variable substitution.
type Engine struct {
	pattern *regexp.Regexp
}

// NewEngine creates a new template engine.
func NewEngine() *Engine {
	return &Engine{pattern: placeholderPattern}
}

// Render substitutes every known placeholder in one pass.
// Unknown placeholders are left verbatim and substituted values are
// never re-expanded.
func (e *Engine) Render(templateStr string, variables map[string]string) string {
	return e.pattern.ReplaceAllStringFunc(templateStr, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])
		if v, ok := variables[name]; ok {
			return v
		}
		return match
	})
}

// Parse extracts placeholder names in order of first appearance.
func (e *Engine) Parse(templateStr string) ([]string, error) {
	if templateStr == "" {
		return nil, ErrEmpty
	}

	seen := make(map[string]bool)
	var names []string
	for _, m := range e.pattern.FindAllStringSubmatch(templateStr, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

// LoadFile reads a template from disk. A missing or unreadable file
// wraps ErrTemplate.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: prompt template %s: %w", ErrTemplate, path, err)
	}
	return string(data), nil
}

// ValidateVariables reports every name in required that provided lacks,
// wrapped in ErrVariable.
func ValidateVariables(required []string, provided map[string]string) error {
	var missing []string
	for _, name := range required {
		if _, ok := provided[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrVariable, strings.Join(missing, ", "))
	}
	return nil
}
