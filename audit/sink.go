package audit

import "sync"

// Section labels written by the transpiler and provider adapters.
const (
	LabelConfiguration = "CONFIGURATION"
	LabelCommError     = "LLM COMMUNICATION ERROR"
)

// Sink receives labeled audit sections. Implementations must not fail the
// caller; errors are handled internally.
type Sink interface {
	// Record writes v as indented JSON under label.
	Record(label string, v any)
	// RecordText writes text verbatim under label.
	RecordText(label, text string)
}

// Discard is a Sink that drops everything. Used when logging is disabled.
var Discard Sink = discard{}

type discard struct{}

func (discard) Record(string, any)         {}
func (discard) RecordText(string, string) {}

// OrDiscard returns s, or Discard when s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}

// Section is one entry captured by Memory.
type Section struct {
	Label string
	Body  string
}

// Memory is an in-process Sink that keeps rendered sections. It is safe
// for concurrent use.
type Memory struct {
	mu       sync.Mutex
	sections []Section
}

// Record implements Sink.
func (m *Memory) Record(label string, v any) {
	m.append(render(label, v))
}

// RecordText implements Sink.
func (m *Memory) RecordText(label, text string) {
	m.append(Section{Label: label, Body: text})
}

func (m *Memory) append(s Section) {
	m.mu.Lock()
	m.sections = append(m.sections, s)
	m.mu.Unlock()
}

// Sections returns a copy of everything recorded so far.
func (m *Memory) Sections() []Section {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Section, len(m.sections))
	copy(out, m.sections)
	return out
}

// Labels returns the recorded labels in order.
func (m *Memory) Labels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sections))
	for i, s := range m.sections {
		out[i] = s.Label
	}
	return out
}

// Find returns the first section with the given label.
func (m *Memory) Find(label string) (Section, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sections {
		if s.Label == label {
			return s, true
		}
	}
	return Section{}, false
}
