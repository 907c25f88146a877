package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/expensetrack/etrack/internal/cli"
	"github.com/expensetrack/etrack/internal/model"
	"github.com/expensetrack/etrack/internal/report"
	"github.com/expensetrack/etrack/internal/route"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Long: `List expenses from the server, newest first.

Examples:
  etrack list
  etrack list --category Food --from 2026-08-01
  etrack list --cached`,
		RunE: runList,
	}

	cmd.Flags().Bool("cached", false, "read the last fetched snapshot instead of the server")
	cmd.Flags().StringP("category", "c", "", "only show this category")
	cmd.Flags().String("from", "", "earliest date to include (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "latest date to include (YYYY-MM-DD)")
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	sessions, err := initSessionStore()
	if err != nil {
		return err
	}
	if _, err := requireView(route.ViewDashboard, sessions); err != nil {
		return err
	}

	cached, _ := cmd.Flags().GetBool("cached")
	client := initClient(sessions)

	records, err := fetchExpenses(cmd.Context(), client, sessions, cached)
	if err != nil {
		return friendlyError(err)
	}

	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	records = filter.Apply(records)

	if len(records) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No expenses to show."))
		return nil
	}

	// Newest first for terminal reading; aggregation elsewhere keeps
	// server order.
	sorted := make([]model.Expense, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	symbol := viper.GetString("currency.symbol")
	fmt.Println(cli.TitleStyle.Render("💸 Expenses"))
	for _, e := range sorted {
		fmt.Printf("  %s  %-28s %10s  %s\n",
			e.Date.Format("2006-01-02"),
			truncate(e.Title, 28),
			fmt.Sprintf("%s%.2f", symbol, e.Amount),
			cli.SubtleStyle.Render(string(e.Category)))
	}

	summary, err := report.Aggregate(records)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("  %d records, total %s%.2f\n", summary.Count, symbol, summary.Total)
	return nil
}

func filterFromFlags(cmd *cobra.Command) (report.Filter, error) {
	var f report.Filter

	if raw, _ := cmd.Flags().GetString("category"); raw != "" {
		category, err := model.ParseCategory(raw)
		if err != nil {
			return f, err
		}
		f.Category = category
	}
	if raw, _ := cmd.Flags().GetString("from"); raw != "" {
		from, err := parseDay(raw)
		if err != nil {
			return f, err
		}
		f.From = from
	}
	if raw, _ := cmd.Flags().GetString("to"); raw != "" {
		to, err := parseDay(raw)
		if err != nil {
			return f, err
		}
		// Inclusive through the end of the named day.
		f.To = to.Add(24*time.Hour - time.Nanosecond)
	}
	return f, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
