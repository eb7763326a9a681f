package cost

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/randalmurphal/enc/provider"
)

// Totals is aggregated usage and cost for one model.
type Totals struct {
	InputTokens    int
	OutputTokens   int
	ThinkingTokens int
	Requests       int

	// Unpriced counts requests whose cost was skipped.
	Unpriced int

	Cost decimal.Decimal
}

// Add adds the given totals to these totals.
func (t *Totals) Add(other Totals) {
	t.InputTokens += other.InputTokens
	t.OutputTokens += other.OutputTokens
	t.ThinkingTokens += other.ThinkingTokens
	t.Requests += other.Requests
	t.Unpriced += other.Unpriced
	t.Cost = t.Cost.Add(other.Cost)
}

// TotalTokens returns the total tokens used.
func (t Totals) TotalTokens() int {
	return t.InputTokens + t.OutputTokens + t.ThinkingTokens
}

// Tracker accumulates usage and cost across runs in one process, keyed by
// "provider/model". It is safe for concurrent use.
type Tracker struct {
	mu     sync.RWMutex
	totals map[string]Totals
}

// NewTracker creates a new cost tracker.
func NewTracker() *Tracker {
	return &Tracker{
		totals: make(map[string]Totals),
	}
}

// Record adds one run. Character usage counts as a request but contributes
// no tokens.
func (t *Tracker) Record(key string, u provider.Usage, b Breakdown) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tot := t.totals[key]
	tot.Requests++
	if u.IsTokens() {
		tot.InputTokens += u.Input
		tot.OutputTokens += u.Output
		tot.ThinkingTokens += u.Thinking
	}
	if b.Skipped {
		tot.Unpriced++
	} else {
		tot.Cost = tot.Cost.Add(b.Total)
	}
	t.totals[key] = tot
}

// Totals returns the totals for a specific key.
func (t *Tracker) Totals(key string) Totals {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totals[key]
}

// Summary returns a copy of all totals.
func (t *Tracker) Summary() map[string]Totals {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]Totals, len(t.totals))
	for k, v := range t.totals {
		result[k] = v
	}
	return result
}

// Total returns totals aggregated across all keys.
func (t *Tracker) Total() Totals {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var total Totals
	for _, v := range t.totals {
		total.Add(v)
	}
	return total
}

// WriteSession prints one line per key and a session total.
func (t *Tracker) WriteSession(w io.Writer) error {
	summary := t.Summary()
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := summary[k]
		if _, err := fmt.Fprintf(w, "session %s: %d runs, %d tokens, $%s\n",
			k, v.Requests, v.TotalTokens(), v.Cost.StringFixed(6)); err != nil {
			return err
		}
	}
	total := t.Total()
	_, err := fmt.Fprintf(w, "session total: %d runs (%d unpriced), $%s\n",
		total.Requests, total.Unpriced, total.Cost.StringFixed(6))
	return err
}
