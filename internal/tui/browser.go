// Package tui implements the interactive expense browser: a scrollable
// table of records with summary metrics, refreshed through the
// cancellation-aware fetcher so a refresh started while one is in flight
// can never paint stale data over fresh.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/expensetrack/etrack/internal/api"
	"github.com/expensetrack/etrack/internal/cli"
	"github.com/expensetrack/etrack/internal/model"
	"github.com/expensetrack/etrack/internal/report"
)

// expensesMsg delivers a completed fetch.
type expensesMsg struct {
	err      error
	expenses []model.Expense
}

// Browser is the bubbletea model for the expense browser.
type Browser struct {
	fetcher *api.Fetcher
	err     error
	table   table.Model
	spinner spinner.Model
	summary *report.Summary
	loading bool
}

// NewBrowser creates a browser backed by the given fetcher.
func NewBrowser(fetcher *api.Fetcher) *Browser {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(cli.PrimaryColor)

	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Title", Width: 32},
		{Title: "Amount", Width: 12},
		{Title: "Category", Width: 14},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(cli.InfoColor)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(cli.PrimaryColor)
	tbl.SetStyles(styles)

	return &Browser{
		fetcher: fetcher,
		spinner: sp,
		table:   tbl,
		loading: true,
	}
}

// Init starts the first fetch.
func (b *Browser) Init() tea.Cmd {
	return tea.Batch(b.spinner.Tick, b.fetchCmd())
}

func (b *Browser) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		expenses, err := b.fetcher.Fetch(context.Background())
		return expensesMsg{expenses: expenses, err: err}
	}
}

// Update handles messages.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return b, tea.Quit
		case "r":
			b.loading = true
			b.err = nil
			return b, tea.Batch(b.spinner.Tick, b.fetchCmd())
		}

	case expensesMsg:
		if errors.Is(msg.err, api.ErrSuperseded) {
			// A newer refresh owns the view now.
			return b, nil
		}
		b.loading = false
		if msg.err != nil {
			b.err = msg.err
			return b, nil
		}
		b.setExpenses(msg.expenses)
		return b, nil

	case spinner.TickMsg:
		if b.loading {
			var cmd tea.Cmd
			b.spinner, cmd = b.spinner.Update(msg)
			return b, cmd
		}
		return b, nil
	}

	var cmd tea.Cmd
	b.table, cmd = b.table.Update(msg)
	return b, cmd
}

func (b *Browser) setExpenses(expenses []model.Expense) {
	summary, err := report.Aggregate(expenses)
	if err != nil {
		b.err = err
		return
	}
	b.summary = summary

	rows := make([]table.Row, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, table.Row{
			e.Date.Format("2006-01-02"),
			e.Title,
			fmt.Sprintf("%.2f", e.Amount),
			string(e.Category),
		})
	}
	b.table.SetRows(rows)
}

// View renders the browser.
func (b *Browser) View() string {
	if b.loading {
		return fmt.Sprintf("\n %s fetching expenses...\n", b.spinner.View())
	}
	if b.err != nil {
		return "\n " + cli.Notice(b.err) + "\n press r to retry, q to quit\n"
	}

	metrics := lipgloss.JoinHorizontal(lipgloss.Top,
		cli.Metric("Total Spending", fmt.Sprintf("%.2f", b.summary.Total)),
		cli.Metric("Transactions", fmt.Sprintf("%d", b.summary.Count)),
		cli.Metric("Avg/Transaction", fmt.Sprintf("%.2f", b.summary.AveragePerRecord())),
		cli.Metric("Categories", fmt.Sprintf("%d", len(b.summary.CategoryOrder))),
	)

	help := cli.SubtleStyle.Render(" r refresh · q quit")
	return "\n" + metrics + "\n\n" + b.table.View() + "\n" + help + "\n"
}

// Run starts the browser and blocks until the user quits.
func Run(fetcher *api.Fetcher) error {
	_, err := tea.NewProgram(NewBrowser(fetcher)).Run()
	return err
}
