package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/expensetrack/etrack/internal/cli"
	"github.com/expensetrack/etrack/internal/config"
	"github.com/expensetrack/etrack/internal/export"
	"github.com/expensetrack/etrack/internal/report"
	"github.com/expensetrack/etrack/internal/route"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export an expense report",
		Long: `Export a PDF expense report, optionally narrowed by date range or
category. With --sheets the same report is also published to Google Sheets.

Examples:
  etrack report
  etrack report --from 2026-08-01 --to 2026-08-31 -o august.pdf
  etrack report --category Food
  etrack report --all -o system.pdf
  etrack report --sheets`,
		RunE: runReport,
	}

	cmd.Flags().StringP("out", "o", "expense-report.pdf", "output PDF path")
	cmd.Flags().StringP("category", "c", "", "only include this category")
	cmd.Flags().String("from", "", "earliest date to include (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "latest date to include (YYYY-MM-DD)")
	cmd.Flags().Bool("all", false, "system-wide report with per-user breakdown (admin only)")
	cmd.Flags().Bool("sheets", false, "also publish to Google Sheets")
	cmd.Flags().Bool("cached", false, "read the last fetched snapshot instead of the server")
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	sessions, err := initSessionStore()
	if err != nil {
		return err
	}

	all, _ := cmd.Flags().GetBool("all")
	view := route.ViewReports
	if all {
		view = route.ViewAdmin
	}
	sess, err := requireView(view, sessions)
	if err != nil {
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

	summary, err := report.Aggregate(records)
	if err != nil {
		return err
	}

	rep := export.Report{
		GeneratedAt: time.Now(),
		Title:       reportTitle(all, sess.Username),
		DateRange:   rangeLabel(filter),
		Summary:     summary,
		Records:     records,
		PerUser:     all,
	}

	outPath, _ := cmd.Flags().GetString("out")
	outPath = config.ExpandPath(outPath)
	if err := writePDF(outPath, rep); err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Wrote %s (%d records)", outPath, summary.Count)))

	if publish, _ := cmd.Flags().GetBool("sheets"); publish {
		if err := publishSheets(cmd, rep); err != nil {
			return err
		}
	}
	return nil
}

func writePDF(path string, rep export.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	writer := export.NewPDF(viper.GetString("currency.code"))
	if err := writer.Write(f, rep); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

func publishSheets(cmd *cobra.Command, rep export.Report) error {
	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return err
	}

	writer, err := export.NewSheets(cmd.Context(), sheetsConfig, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to connect to Google Sheets: %w", err)
	}
	if err := writer.Publish(cmd.Context(), rep); err != nil {
		return fmt.Errorf("failed to publish to Google Sheets: %w", err)
	}

	fmt.Println(cli.SuccessStyle.Render("✓ Published to Google Sheets"))
	return nil
}

func reportTitle(all bool, username string) string {
	if all {
		return "ExpenseTrack System Report"
	}
	if username != "" {
		return fmt.Sprintf("Expense Report for %s", username)
	}
	return "Expense Report"
}

func rangeLabel(f report.Filter) string {
	switch {
	case f.From.IsZero() && f.To.IsZero():
		return "All time"
	case f.From.IsZero():
		return fmt.Sprintf("Through %s", f.To.Format("2006-01-02"))
	case f.To.IsZero():
		return fmt.Sprintf("From %s", f.From.Format("2006-01-02"))
	default:
		return fmt.Sprintf("%s to %s", f.From.Format("2006-01-02"), f.To.Format("2006-01-02"))
	}
}
