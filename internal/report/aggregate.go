// Package report holds the aggregation and insight core: pure functions
// turning a fetched expense list into grouped summaries for rendering and
// export. Nothing here performs I/O; identical input always yields
// identical output.
package report

import (
	"fmt"
	"math"

	"github.com/expensetrack/etrack/internal/model"
)

// Summary is the result of one aggregation pass: totals keyed by category,
// by month label, and by owning user, plus the grand total and record
// count. Maps carry the totals; the paired order slices preserve first-seen
// key order, since map iteration alone is not deterministic.
type Summary struct {
	ByCategory    map[string]float64
	ByMonth       map[string]float64
	ByUser        map[string]float64
	CategoryOrder []string
	MonthOrder    []string
	UserOrder     []string
	Total         float64
	Count         int
}

// Aggregate scans records once, left to right, accumulating each amount
// into its category, month, and user buckets. Empty input yields an empty
// zero-valued summary. A non-finite amount is a data error and fails the
// whole pass rather than poisoning the sums.
func Aggregate(records []model.Expense) (*Summary, error) {
	s := &Summary{
		ByCategory: make(map[string]float64),
		ByMonth:    make(map[string]float64),
		ByUser:     make(map[string]float64),
	}

	for _, rec := range records {
		if math.IsNaN(rec.Amount) || math.IsInf(rec.Amount, 0) {
			return nil, fmt.Errorf("record %s: amount is not a finite number", rec.ID)
		}

		category := string(rec.Category)
		if category == "" {
			category = string(model.CategoryOther)
		}
		if _, seen := s.ByCategory[category]; !seen {
			s.CategoryOrder = append(s.CategoryOrder, category)
		}
		s.ByCategory[category] += rec.Amount

		month := rec.Month()
		if _, seen := s.ByMonth[month]; !seen {
			s.MonthOrder = append(s.MonthOrder, month)
		}
		s.ByMonth[month] += rec.Amount

		user := rec.OwnerName()
		if _, seen := s.ByUser[user]; !seen {
			s.UserOrder = append(s.UserOrder, user)
		}
		s.ByUser[user] += rec.Amount

		s.Total += rec.Amount
		s.Count++
	}

	return s, nil
}

// TopCategory returns the category with the highest total. Ties resolve to
// the category seen first in the scan. ok is false for an empty summary.
func (s *Summary) TopCategory() (name string, total float64, ok bool) {
	for _, c := range s.CategoryOrder {
		if !ok || s.ByCategory[c] > total {
			name, total, ok = c, s.ByCategory[c], true
		}
	}
	return name, total, ok
}

// MonthlyAverage returns the arithmetic mean of the per-month totals, or 0
// when no months exist.
func (s *Summary) MonthlyAverage() float64 {
	if len(s.MonthOrder) == 0 {
		return 0
	}
	var sum float64
	for _, m := range s.MonthOrder {
		sum += s.ByMonth[m]
	}
	return sum / float64(len(s.MonthOrder))
}

// AveragePerRecord returns the mean amount per record, or 0 when empty.
func (s *Summary) AveragePerRecord() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Total / float64(s.Count)
}
