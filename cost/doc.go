// Package cost turns metered usage into a priced breakdown.
//
// Costs are only computed for token usage with a catalog entry. Character
// fallbacks and unknown models produce a skipped Breakdown with a reason.
// Missing per-token rates degrade to a zero component plus a warning; the
// total is always the sum of the three components.
//
// All arithmetic uses shopspring/decimal so repeated summation in a
// Tracker does not accumulate float error.
package cost
