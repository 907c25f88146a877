// Package export serializes aggregated expense data into shareable
// documents. The core hands it already-computed summaries; layout and
// styling live here and nowhere else.
package export

import (
	"context"
	"io"
	"time"

	"github.com/expensetrack/etrack/internal/model"
	"github.com/expensetrack/etrack/internal/report"
)

// Report bundles everything an exporter needs: the raw records, their
// aggregation, and display metadata. Amounts render with two decimals in
// every exporter.
type Report struct {
	GeneratedAt time.Time
	Title       string
	DateRange   string
	Summary     *report.Summary
	Records     []model.Expense
	// PerUser includes the per-user breakdown table (admin system report).
	PerUser bool
}

// DocumentWriter renders a report to a byte stream.
type DocumentWriter interface {
	Write(w io.Writer, rep Report) error
}

// SheetWriter publishes a report to an external sheet.
type SheetWriter interface {
	Publish(ctx context.Context, rep Report) error
}
