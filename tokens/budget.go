package tokens

// Budget checks an estimated prompt size against a model's input window.
type Budget struct {
	// Input is the model's maximum input tokens. 0 means unknown; nothing
	// exceeds an unknown budget.
	Input int

	counter Counter
}

// NewBudget creates a budget for a model with the given input window.
// A nil counter uses the rune-based estimate.
func NewBudget(input int, counter Counter) *Budget {
	if counter == nil {
		counter = NewEstimatingCounter()
	}
	return &Budget{Input: input, counter: counter}
}

// PromptParts are the variable pieces rendered into a prompt.
type PromptParts struct {
	Source      string
	Conventions string
	Context     string
}

// Breakdown is the estimated token size of a prompt and its large parts.
// The parts do not sum to Prompt; the template text itself is the rest.
type Breakdown struct {
	Prompt      int `json:"prompt"`
	Source      int `json:"source"`
	Conventions int `json:"conventions"`
	Context     int `json:"context"`
}

// Estimate sizes a rendered prompt and the parts it was built from.
func (b *Budget) Estimate(prompt string, parts PromptParts) Breakdown {
	return Breakdown{
		Prompt:      b.counter.Count(prompt),
		Source:      b.counter.Count(parts.Source),
		Conventions: b.counter.Count(parts.Conventions),
		Context:     b.counter.Count(parts.Context),
	}
}

// Exceeds reports whether the estimate is larger than a known input window.
func (b *Budget) Exceeds(bd Breakdown) bool {
	return b.Input > 0 && bd.Prompt > b.Input
}

// Remaining returns the input tokens left after the prompt, floored at zero.
// It returns 0 when the window is unknown.
func (b *Budget) Remaining(bd Breakdown) int {
	remaining := b.Input - bd.Prompt
	if b.Input <= 0 || remaining < 0 {
		return 0
	}
	return remaining
}
