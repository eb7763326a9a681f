package tokens

import "unicode/utf8"

// CharsPerToken is the rule-of-thumb ratio used for English prose.
const CharsPerToken = 4.0

// Counter sizes text in tokens.
type Counter interface {
	Count(text string) int
}

// EstimatingCounter divides the rune count by a fixed ratio. It is only
// used for pre-flight warnings; billed usage always comes from the backend.
type EstimatingCounter struct {
	// Ratio is characters per token. Values <= 0 use CharsPerToken.
	Ratio float64
}

// NewEstimatingCounter returns a counter using CharsPerToken.
func NewEstimatingCounter() *EstimatingCounter {
	return &EstimatingCounter{Ratio: CharsPerToken}
}

// Count returns the rounded estimate for text.
func (c *EstimatingCounter) Count(text string) int {
	ratio := c.Ratio
	if ratio <= 0 {
		ratio = CharsPerToken
	}
	return int(float64(utf8.RuneCountInString(text))/ratio + 0.5)
}
