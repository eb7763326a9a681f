package cost

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/randalmurphal/enc/pricing"
	"github.com/randalmurphal/enc/provider"
)

// Breakdown is the priced result of one generation call.
type Breakdown struct {
	Input    decimal.Decimal `json:"input"`
	Output   decimal.Decimal `json:"output"`
	Thinking decimal.Decimal `json:"thinking"`
	Total    decimal.Decimal `json:"total"`

	// Skipped is true when no cost could be computed; Reason says why.
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`

	// Warnings lists missing rates that were treated as zero or substituted.
	Warnings []string `json:"warnings,omitempty"`
}

// Compute prices usage against entry. key names the model in messages;
// a nil entry means the model is not in the catalog.
func Compute(u provider.Usage, entry *pricing.Entry, key string) Breakdown {
	if entry == nil {
		return skipped(fmt.Sprintf("no pricing data available for model '%s'.", key))
	}
	if u.Kind != provider.UnitTokens {
		return skipped(fmt.Sprintf("pricing data is per token, but usage is reported in '%s'.", u.Kind))
	}

	var b Breakdown
	warn := func(format string, args ...any) {
		b.Warnings = append(b.Warnings, fmt.Sprintf(format, args...))
	}

	if rate := entry.InputCostPerToken; rate != nil {
		b.Input = price(u.Input, *rate)
	} else {
		warn("'input_cost_per_token' missing for '%s' in pricing data.", key)
	}

	if rate := entry.OutputCostPerToken; rate != nil {
		b.Output = price(u.Output, *rate)
	} else {
		warn("'output_cost_per_token' missing for '%s' in pricing data.", key)
	}

	if u.Thinking > 0 {
		switch {
		case entry.ThinkingCostPerToken != nil:
			b.Thinking = price(u.Thinking, *entry.ThinkingCostPerToken)
		case entry.OutputCostPerToken != nil:
			b.Thinking = price(u.Thinking, *entry.OutputCostPerToken)
			warn("'thinking_cost_per_token' missing for '%s'. using 'output_cost_per_token' for %d thinking units.", key, u.Thinking)
		default:
			warn("'thinking_cost_per_token' missing and 'output_cost_per_token' (fallback) also missing for '%s'. cost for %d thinking units not calculated, remains $0.00.", key, u.Thinking)
		}
	}

	b.Total = b.Input.Add(b.Output).Add(b.Thinking)
	return b
}

// ComputeFromCatalog looks the model up and prices usage. The skip reason
// for an unknown model names the catalog file.
func ComputeFromCatalog(u provider.Usage, catalog *pricing.Catalog, providerName, model string) Breakdown {
	key := pricing.Key(providerName, model)
	entry, ok := catalog.Lookup(providerName, model)
	if !ok {
		return skipped(fmt.Sprintf("no pricing data available for model '%s' in '%s'.", key, catalog.Path()))
	}
	return Compute(u, &entry, key)
}

func price(units int, rate float64) decimal.Decimal {
	return decimal.NewFromInt(int64(units)).Mul(decimal.NewFromFloat(rate))
}

func skipped(reason string) Breakdown {
	return Breakdown{Skipped: true, Reason: reason}
}
