package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// BPECounter counts tokens with the byte-pair encoding OpenAI models use.
// The encoding is loaded lazily on the first non-empty Count; when it
// cannot be loaded the counter falls back to estimation.
type BPECounter struct {
	model string

	once     sync.Once
	enc      *tiktoken.Tiktoken
	err      error
	fallback *EstimatingCounter
}

// NewBPECounter creates a counter for an OpenAI model name. Models
// tiktoken does not know use the cl100k_base encoding.
func NewBPECounter(model string) *BPECounter {
	return &BPECounter{
		model:    model,
		fallback: NewEstimatingCounter(),
	}
}

func (c *BPECounter) load() {
	c.once.Do(func() {
		c.enc, c.err = tiktoken.EncodingForModel(c.model)
		if c.err != nil {
			c.enc, c.err = tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
		}
	})
}

// Count returns the encoded length of text.
func (c *BPECounter) Count(text string) int {
	if text == "" {
		return 0
	}
	c.load()
	if c.err != nil || c.enc == nil {
		return c.fallback.Count(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}

// Err returns the encoding load error, if any. It is nil before the first
// non-empty Count.
func (c *BPECounter) Err() error {
	return c.err
}

// ForProvider picks the most accurate counter available for a backend:
// BPE for openai, estimation for everything else.
func ForProvider(provider, model string) Counter {
	if provider == "openai" {
		return NewBPECounter(model)
	}
	return NewEstimatingCounter()
}
