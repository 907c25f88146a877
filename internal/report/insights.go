package report

import "fmt"

// Default insight thresholds. Both came from the product with no recorded
// rationale, so they stay configurable rather than buried as literals.
const (
	DefaultOverspendThreshold = 50000.0
	DefaultSpikeMultiplier    = 1.5
)

// InsightOptions tunes the insight rules.
type InsightOptions struct {
	CurrencySymbol     string
	OverspendThreshold float64
	SpikeMultiplier    float64
}

// DefaultInsightOptions returns the standard thresholds and the rupee
// symbol the product launched with.
func DefaultInsightOptions() InsightOptions {
	return InsightOptions{
		CurrencySymbol:     "₹",
		OverspendThreshold: DefaultOverspendThreshold,
		SpikeMultiplier:    DefaultSpikeMultiplier,
	}
}

func (o InsightOptions) withDefaults() InsightOptions {
	d := DefaultInsightOptions()
	if o.CurrencySymbol == "" {
		o.CurrencySymbol = d.CurrencySymbol
	}
	if o.OverspendThreshold <= 0 {
		o.OverspendThreshold = d.OverspendThreshold
	}
	if o.SpikeMultiplier <= 0 {
		o.SpikeMultiplier = d.SpikeMultiplier
	}
	return o
}

// Insights derives human-readable observations from a summary. The rules
// run in a fixed order and nothing else: top category, optional overspend
// warning, one spike message per month exceeding the multiplier times the
// monthly mean (in month first-seen order), then two fixed tips. An empty
// summary yields exactly one no-data message. Deterministic by
// construction: no randomness, no external calls.
func Insights(s *Summary, opts InsightOptions) []string {
	opts = opts.withDefaults()

	if s == nil || s.Count == 0 {
		return []string{"No data yet. Start adding expenses to get insights."}
	}

	var messages []string

	if name, total, ok := s.TopCategory(); ok {
		messages = append(messages, fmt.Sprintf("You spend the most on %q (%s%.2f).",
			name, opts.CurrencySymbol, total))
	}

	if s.Total > opts.OverspendThreshold {
		messages = append(messages, "⚠️ You are spending a lot overall. Consider setting a monthly budget.")
	}

	avg := s.MonthlyAverage()
	for _, month := range s.MonthOrder {
		if total := s.ByMonth[month]; total > avg*opts.SpikeMultiplier {
			messages = append(messages, fmt.Sprintf("📈 Spending spike detected in %s: %s%.2f",
				month, opts.CurrencySymbol, total))
		}
	}

	messages = append(messages,
		"💡 Tip: Track small daily expenses.",
		"💡 Tip: Review subscriptions & recurring costs.",
	)

	return messages
}
