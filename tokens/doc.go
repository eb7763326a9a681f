// Package tokens estimates prompt sizes before a request is sent.
//
// Estimation uses the rule of thumb that about 4 characters make 1 token
// for English text. OpenAI models can be counted exactly with BPECounter.
// Counts are only used to warn early; billed usage always comes from the
// backend.
//
// # Counter
//
//	counter := tokens.NewEstimatingCounter()
//	count := counter.Count("Hello, world!") // ~3 tokens
//
//	bpe := tokens.ForProvider("openai", "gpt-4o") // exact, falls back to estimation
//
// # Budget
//
// Budget compares a rendered prompt against a model's input window and
// reports which parts dominate:
//
//	budget := tokens.NewBudget(maxInputTokens, bpe)
//	bd := budget.Estimate(prompt, tokens.PromptParts{Source: src, Context: ctx})
//	if budget.Exceeds(bd) {
//	    // warn: the backend will likely reject the prompt
//	}
package tokens
