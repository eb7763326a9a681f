package provider

import (
	"fmt"
	"unicode/utf8"
)

// Placeholder is the content returned when a backend produced no usable
// text. It is written to the output file like any other result.
func Placeholder(backend, targetLanguage string) string {
	return fmt.Sprintf("// error: could not generate code. response from %s was empty or blocked. target: %s",
		backend, targetLanguage)
}

// CharacterUsage builds the fallback usage for backends that report no
// metering: rune counts of the input pieces and the output, thinking zero.
func CharacterUsage(output string, inputs ...string) Usage {
	in := 0
	for _, s := range inputs {
		in += utf8.RuneCountInString(s)
	}
	return Usage{
		Input:  in,
		Output: utf8.RuneCountInString(output),
		Kind:   UnitCharacters,
	}
}

// TokenUsage builds token usage from single-prompt metadata. Thinking is
// the part of total not explained by input and output, never negative.
// Backends do not document that relation, so treat it as an estimate.
func TokenUsage(input, output, total int) Usage {
	thinking := total - input - output
	if thinking < 0 {
		thinking = 0
	}
	return Usage{
		Input:    input,
		Output:   output,
		Thinking: thinking,
		Kind:     UnitTokens,
	}
}
