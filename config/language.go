package config

import (
	"path/filepath"
	"strings"
)

// languageExtensions maps target languages to file extensions. Order matters
// for the reverse lookup: the first language listed for an extension wins
// (".sh" resolves to bash, not shell).
var languageExtensions = []struct {
	lang string
	ext  string
}{
	{"python", "py"},
	{"c", "c"},
	{"c++", "cpp"},
	{"csharp", "cs"},
	{"java", "java"},
	{"javascript", "js"},
	{"typescript", "ts"},
	{"go", "go"},
	{"rust", "rs"},
	{"ruby", "rb"},
	{"php", "php"},
	{"swift", "swift"},
	{"kotlin", "kt"},
	{"html", "html"},
	{"css", "css"},
	{"bash", "sh"},
	{"shell", "sh"},
	{"sql", "sql"},
	{"perl", "pl"},
	{"scala", "scala"},
}

// ExtensionFor returns the file extension (without dot) for a language.
// Unknown languages use the language name itself as the extension.
func ExtensionFor(lang string) string {
	lang = strings.ToLower(lang)
	for _, le := range languageExtensions {
		if le.lang == lang {
			return le.ext
		}
	}
	return lang
}

// LanguageForPath infers the target language from a file extension.
func LanguageForPath(path string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "", false
	}
	for _, le := range languageExtensions {
		if le.ext == ext {
			return le.lang, true
		}
	}
	return "", false
}

// DefaultOutputPath derives the output path from the input path and language:
// "hello.en" and "python" become "hello.py".
func DefaultOutputPath(inputPath, lang string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + "." + ExtensionFor(lang)
}
