package report

import (
	"time"

	"github.com/expensetrack/etrack/internal/model"
)

// Filter narrows a record list before aggregation or export. Zero-valued
// fields mean "no constraint"; both date bounds are inclusive.
type Filter struct {
	From     time.Time
	To       time.Time
	Category model.Category
}

// Apply returns the records matching the filter, preserving input order.
func (f Filter) Apply(records []model.Expense) []model.Expense {
	out := make([]model.Expense, 0, len(records))
	for _, rec := range records {
		if !f.From.IsZero() && rec.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && rec.Date.After(f.To) {
			continue
		}
		if f.Category != "" && rec.Category != f.Category {
			continue
		}
		out = append(out, rec)
	}
	return out
}
