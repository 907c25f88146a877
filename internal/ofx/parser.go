// Package ofx turns bank OFX/QFX statements into expense drafts ready for
// submission, so a month of card activity doesn't have to be typed in by
// hand.
package ofx

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/expensetrack/etrack/internal/model"
)

// Parser implements OFX/QFX statement parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocess fixes common formatting issues in real-world OFX files.
func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// Mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML-style files sometimes drop the closing angle bracket on
	// bare opening tags.
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// Parse reads an OFX/QFX stream and returns expense drafts for every debit
// in it. Credits (deposits, refunds) are skipped: this client records
// spending only.
func (p *Parser) Parse(reader io.Reader) ([]model.Expense, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var drafts []model.Expense
	var skippedCredits int

	collect := func(transactions []ofxgo.Transaction) {
		for _, tx := range transactions {
			amount, _ := tx.TrnAmt.Float64()
			// OFX uses negative amounts for debits.
			if amount >= 0 {
				skippedCredits++
				continue
			}
			drafts = append(drafts, p.toDraft(tx, -amount))
		}
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			collect(stmt.BankTranList.Transactions)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			collect(stmt.BankTranList.Transactions)
		}
	}

	slog.Info("parsed OFX file",
		"drafts", len(drafts),
		"skipped_credits", skippedCredits)

	return drafts, nil
}

func (p *Parser) toDraft(tx ofxgo.Transaction, amount float64) model.Expense {
	title := p.cleanTitle(tx)
	return model.Expense{
		Title:    title,
		Amount:   amount,
		Category: GuessCategory(title, fmt.Sprintf("%v", tx.TrnType)),
		Date:     tx.DtPosted.Time,
	}
}

// cleanTitle picks the most descriptive field and strips bank noise.
func (p *Parser) cleanTitle(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if name == "" {
		name = strings.TrimSpace(string(tx.Memo))
	}

	for _, prefix := range []string{"POS ", "DEBIT CARD ", "ACH ", "CHECKCARD "} {
		name = strings.TrimPrefix(name, prefix)
	}
	if name == "" {
		name = "Imported expense"
	}
	return name
}

// categoryHints maps title substrings to categories for import drafts. The
// guess is a convenience default; the user confirms before submission.
var categoryHints = []struct {
	category model.Category
	words    []string
}{
	{model.CategoryFood, []string{"restaurant", "cafe", "coffee", "grocery", "supermarket", "food", "pizza", "swiggy", "zomato"}},
	{model.CategoryTransport, []string{"uber", "ola", "metro", "fuel", "petrol", "parking", "railway", "airlines"}},
	{model.CategoryEntertainment, []string{"netflix", "spotify", "cinema", "theatre", "game"}},
	{model.CategoryBills, []string{"electric", "water", "broadband", "mobile", "recharge", "insurance"}},
	{model.CategoryHealthcare, []string{"pharmacy", "hospital", "clinic", "medical"}},
	{model.CategoryEducation, []string{"udemy", "coursera", "school", "college", "books"}},
	{model.CategoryShopping, []string{"amazon", "flipkart", "myntra", "mall", "store"}},
}

// GuessCategory maps a transaction title and OFX type to the closest
// category, falling back to Other.
func GuessCategory(title, trnType string) model.Category {
	lower := strings.ToLower(title)
	for _, hint := range categoryHints {
		for _, word := range hint.words {
			if strings.Contains(lower, word) {
				return hint.category
			}
		}
	}
	if trnType == "ATM" || trnType == "FEE" {
		return model.CategoryBills
	}
	return model.CategoryOther
}
