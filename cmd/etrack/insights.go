package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/expensetrack/etrack/internal/cli"
	"github.com/expensetrack/etrack/internal/report"
	"github.com/expensetrack/etrack/internal/route"
)

func insightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show spending insights",
		Long: `Derive insights from your expense history: top category, overall
spending level, and month-over-month spikes.`,
		RunE: runInsights,
	}

	cmd.Flags().Bool("cached", false, "read the last fetched snapshot instead of the server")
	return cmd
}

func runInsights(cmd *cobra.Command, _ []string) error {
	sessions, err := initSessionStore()
	if err != nil {
		return err
	}
	if _, err := requireView(route.ViewInsights, sessions); err != nil {
		return err
	}

	cached, _ := cmd.Flags().GetBool("cached")
	client := initClient(sessions)

	records, err := fetchExpenses(cmd.Context(), client, sessions, cached)
	if err != nil {
		return friendlyError(err)
	}

	summary, err := report.Aggregate(records)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render("🔍 Insights"))
	for _, line := range report.Insights(summary, insightOptions()) {
		fmt.Printf("  %s\n", line)
	}

	if summary.Count > 0 {
		symbol := viper.GetString("currency.symbol")
		fmt.Println()
		fmt.Printf("  Monthly average: %s%.2f across %d months\n",
			symbol, summary.MonthlyAverage(), len(summary.MonthOrder))
	}
	return nil
}
