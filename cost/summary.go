package cost

import (
	"fmt"
	"io"

	"github.com/randalmurphal/enc/provider"
)

// Summary is the end-of-run report printed to stdout.
type Summary struct {
	OutputPath string
	Provider   string
	Model      string
	Usage      provider.Usage
	Cost       Breakdown
}

// UsageLine formats usage as "usage: input: N tokens, output: N tokens, thinking: N tokens".
// Thinking is "N/A" for character counts.
func UsageLine(u provider.Usage) string {
	line := fmt.Sprintf("usage: input: %d %s, output: %d %s", u.Input, u.Kind, u.Output, u.Kind)
	if u.IsTokens() {
		return line + fmt.Sprintf(", thinking: %d %s", u.Thinking, u.Kind)
	}
	return line + ", thinking: N/A"
}

// Write prints the summary. Amounts have six decimal places.
func (s Summary) Write(w io.Writer) error {
	u := s.Usage
	lines := []string{
		fmt.Sprintf("successfully transpiled to '%s'", s.OutputPath),
		fmt.Sprintf("llm provider: %s, model: %s", s.Provider, s.Model),
		UsageLine(u),
	}

	if s.Cost.Skipped {
		lines = append(lines, "cost calculation skipped: "+s.Cost.Reason)
	} else {
		lines = append(lines,
			fmt.Sprintf("estimated cost (input: %d tk, output: %d tk, thinking: %d tk):", u.Input, u.Output, u.Thinking),
			"  input cost:    $"+s.Cost.Input.StringFixed(6),
			"  output cost:   $"+s.Cost.Output.StringFixed(6),
			"  thinking cost: $"+s.Cost.Thinking.StringFixed(6),
			"  total cost:    $"+s.Cost.Total.StringFixed(6),
		)
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
