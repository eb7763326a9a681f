package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// FileSink appends sections to one log file per run.
type FileSink struct {
	mu     sync.Mutex
	file   *os.File
	path   string
	runID  string
	logger *slog.Logger
	failed bool
}

// Option configures Open.
type Option func(*options)

type options struct {
	now    func() time.Time
	logger *slog.Logger
	runID  string
}

// WithClock sets the time source used for the file name.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger used to report write failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(o *options) { o.runID = id }
}

// FileName returns enc_api_log_<YYYYMMDD_HHMMSS_micro>_<provider>_<model>.log
// with provider and model sanitized for use in a path.
func FileName(now time.Time, provider, model string) string {
	stamp := now.Format("20060102_150405") + fmt.Sprintf("_%06d", now.Nanosecond()/1000)
	return fmt.Sprintf("enc_api_log_%s_%s_%s.log", stamp, Sanitize(provider), Sanitize(model))
}

// Sanitize keeps letters, digits, '-' and '.', replacing everything else with '_'.
func Sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, name)
}

// Open creates the logs directory if needed and a fresh log file inside it.
func Open(dir, provider, model string, opts ...Option) (*FileSink, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName(o.now(), provider, model))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	return &FileSink{
		file:   f,
		path:   path,
		runID:  o.runID,
		logger: o.logger,
	}, nil
}

// Path returns the log file path.
func (s *FileSink) Path() string { return s.path }

// RunID returns the identifier of this run.
func (s *FileSink) RunID() string { return s.runID }

// Record implements Sink.
func (s *FileSink) Record(label string, v any) {
	sec := render(label, v)
	s.write(sec.Label, sec.Body)
}

// RecordText implements Sink.
func (s *FileSink) RecordText(label, text string) {
	s.write(label, text)
}

// Close closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func (s *FileSink) write(label, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return
	}
	if _, err := s.file.WriteString(format(label, body)); err != nil && !s.failed {
		s.failed = true
		s.logger.Warn("could not write to audit log", "path", s.path, "error", err)
	}
}

func format(label, body string) string {
	return "--- " + label + " ---\n" + body + "\n\n"
}

// render marshals v into a section, substituting a LOGGING ERROR section
// when v cannot be serialized.
func render(label string, v any) Section {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return Section{
			Label: label + " LOGGING ERROR",
			Body:  "Error: " + err.Error(),
		}
	}
	return Section{Label: label, Body: strings.TrimSuffix(buf.String(), "\n")}
}
