package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// PDF renders a report as a paginated A4 document: title, summary block,
// expense table, category and monthly breakdowns, generation footer.
type PDF struct {
	// CurrencyLabel annotates monetary columns (e.g. "INR"). The core PDF
	// fonts are cp1252, so currency symbols outside that set go in the
	// column label rather than each cell.
	CurrencyLabel string
}

// NewPDF creates a PDF exporter.
func NewPDF(currencyLabel string) *PDF {
	if currencyLabel == "" {
		currencyLabel = "INR"
	}
	return &PDF{CurrencyLabel: currencyLabel}
}

var _ DocumentWriter = (*PDF)(nil)

// Write renders the report to w.
func (p *PDF) Write(w io.Writer, rep Report) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, rep.Title, "", 1, "C", false, 0, "")

	if rep.DateRange != "" {
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(0, 6, "Date Range: "+rep.DateRange, "", 1, "C", false, 0, "")
	}
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 7, fmt.Sprintf("Total Amount: %.2f %s", rep.Summary.Total, p.CurrencyLabel), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 7, fmt.Sprintf("Total Expenses: %d", rep.Summary.Count), "", 1, "L", false, 0, "")
	if rep.PerUser {
		doc.CellFormat(0, 7, fmt.Sprintf("Total Users: %d", len(rep.Summary.UserOrder)), "", 1, "L", false, 0, "")
	}
	doc.Ln(4)

	p.recordsTable(doc, rep)
	p.breakdownTable(doc, "Category Breakdown", rep.Summary.CategoryOrder, rep.Summary.ByCategory)
	p.breakdownTable(doc, "Monthly Breakdown", rep.Summary.MonthOrder, rep.Summary.ByMonth)
	if rep.PerUser {
		p.breakdownTable(doc, "Spending by User", rep.Summary.UserOrder, rep.Summary.ByUser)
	}

	doc.Ln(8)
	doc.SetFont("Helvetica", "I", 9)
	doc.CellFormat(0, 5, "Generated: "+rep.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")

	return doc.Output(w)
}

func (p *PDF) recordsTable(doc *fpdf.Fpdf, rep Report) {
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 7, "Expenses", "", 1, "L", false, 0, "")

	headers := []string{"Date", "Title", fmt.Sprintf("Amount (%s)", p.CurrencyLabel), "Category"}
	widths := []float64{25, 75, 35, 35}
	if rep.PerUser {
		headers = append(headers, "User")
		widths = []float64{25, 55, 30, 30, 30}
	}

	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(25, 118, 210)
	doc.SetTextColor(255, 255, 255)
	for i, h := range headers {
		doc.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(0, 0, 0)
	for _, rec := range rep.Records {
		cells := []string{
			rec.Date.Format("2006-01-02"),
			rec.Title,
			fmt.Sprintf("%.2f", rec.Amount),
			string(rec.Category),
		}
		if rep.PerUser {
			cells = append(cells, rec.OwnerName())
		}
		for i, cell := range cells {
			align := "L"
			if i == 2 {
				align = "R"
			}
			doc.CellFormat(widths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		doc.Ln(-1)
	}
	doc.Ln(6)
}

func (p *PDF) breakdownTable(doc *fpdf.Fpdf, title string, order []string, totals map[string]float64) {
	if len(order) == 0 {
		return
	}

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 7, title, "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(60, 6, "", "1", 0, "L", false, 0, "")
	doc.CellFormat(40, 6, fmt.Sprintf("Total (%s)", p.CurrencyLabel), "1", 0, "R", false, 0, "")
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 10)
	for _, key := range order {
		doc.CellFormat(60, 6, key, "1", 0, "L", false, 0, "")
		doc.CellFormat(40, 6, fmt.Sprintf("%.2f", totals[key]), "1", 0, "R", false, 0, "")
		doc.Ln(-1)
	}
	doc.Ln(6)
}
