package transpile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/randalmurphal/enc/template"
)

// ReadInput reads the natural-language source. A missing, unreadable or
// blank file is an error wrapping ErrIO.
func ReadInput(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: input file '%s' not found", ErrIO, path)
		}
		return "", fmt.Errorf("%w: reading input file '%s': %w", ErrIO, path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("%w: %w: %s", ErrIO, ErrEmptyInput, path)
	}
	return string(data), nil
}

// WriteOutput writes code to path, creating missing parent directories.
func WriteOutput(path, code string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: creating output directory '%s': %w", ErrIO, dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return fmt.Errorf("%w: writing output file '%s': %w", ErrIO, path, err)
	}
	return nil
}

// LoadConventions reads the style guide. Problems degrade to an empty
// guide and a warning; an empty path means no guide was requested.
func LoadConventions(path string, logger *slog.Logger) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("conventions file not found; proceeding without a style guide", "path", path)
		return ""
	case err != nil:
		logger.Warn("error reading conventions file; proceeding without a style guide", "path", path, "error", err)
		return ""
	}
	if strings.TrimSpace(string(data)) == "" {
		logger.Warn("conventions file is empty; proceeding without a style guide", "path", path)
	}
	return string(data)
}

// ExpandContextPatterns replaces glob entries ("internal/**/*.go") with
// the regular files they match, in lexical order. Literal paths are kept
// as given. Duplicates are dropped, keeping the first occurrence.
func ExpandContextPatterns(entries []string, logger *slog.Logger) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, entry := range entries {
		if !strings.ContainsAny(entry, "*?[{") {
			add(entry)
			continue
		}
		matches, err := doublestar.FilepathGlob(entry, doublestar.WithFilesOnly())
		if err != nil {
			logger.Warn("invalid context file pattern; skipping", "pattern", entry, "error", err)
			continue
		}
		if len(matches) == 0 {
			logger.Warn("context file pattern matched nothing", "pattern", entry)
			continue
		}
		slices.Sort(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out
}

// ContextPaths returns the context file list for a run. In grounded mode
// an existing output file is put first, unless it is already listed.
func ContextPaths(paths []string, outputPath string, grounded bool, logger *slog.Logger) []string {
	if !grounded || outputPath == "" || !isFile(outputPath) {
		return paths
	}
	logger.Info("grounded mode is on; adding existing output to context", "path", outputPath)
	if slices.Contains(paths, outputPath) {
		return paths
	}
	return append([]string{outputPath}, paths...)
}

// LoadContextFiles reads each path. Missing, non-regular and unreadable
// files are skipped with a warning.
func LoadContextFiles(paths []string, logger *slog.Logger) []template.ContextFile {
	var files []template.ContextFile
	for _, p := range paths {
		if !isFile(p) {
			logger.Warn("context file not found or is not a file; skipping", "path", p)
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			logger.Warn("could not read context file; skipping", "path", p, "error", err)
			continue
		}
		files = append(files, template.ContextFile{Path: p, Content: string(data)})
	}
	return files
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
