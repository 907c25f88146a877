package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/expensetrack/etrack/internal/api"
	"github.com/expensetrack/etrack/internal/cli"
	"github.com/expensetrack/etrack/internal/model"
	"github.com/expensetrack/etrack/internal/ofx"
	"github.com/expensetrack/etrack/internal/route"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import expenses from OFX/QFX bank exports",
		Long: `Import debit transactions from OFX or QFX files exported from your
bank. Credits are skipped; categories are guessed from the payee name and can
be fixed up afterwards.

Examples:
  etrack import ~/Downloads/statement.qfx
  etrack import ~/Downloads/*.ofx --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "preview the import without uploading")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	sessions, err := initSessionStore()
	if err != nil {
		return err
	}
	if _, err := requireView(route.ViewAdd, sessions); err != nil {
		return err
	}

	files, err := expandGlobs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to import")
	}

	parser := ofx.NewParser()
	var drafts []model.Expense
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			slog.Error("Failed to open file", "file", path, "error", err)
			continue
		}
		parsed, err := parser.Parse(f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", filepath.Base(path), "error", err)
			continue
		}
		slog.Info("Parsed file", "file", filepath.Base(path), "expenses", len(parsed))
		drafts = append(drafts, parsed...)
	}

	if len(drafts) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No debit transactions found."))
		return nil
	}

	symbol := viper.GetString("currency.symbol")
	fmt.Println(cli.TitleStyle.Render("📄 Import preview"))
	for i, d := range drafts {
		if i >= 5 {
			fmt.Printf("  … and %d more\n", len(drafts)-5)
			break
		}
		fmt.Printf("  %s  %-28s %10s  %s\n",
			d.Date.Format("2006-01-02"),
			truncate(d.Title, 28),
			fmt.Sprintf("%s%.2f", symbol, d.Amount),
			cli.SubtleStyle.Render(string(d.Category)))
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("🔍 Dry run: %d expenses parsed, nothing uploaded", len(drafts))))
		return nil
	}

	client := initClient(sessions)
	bar := progressbar.NewOptions(len(drafts),
		progressbar.OptionSetDescription("Uploading expenses"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	uploaded := 0
	var failures []error
	for _, draft := range drafts {
		if _, err := client.CreateExpense(cmd.Context(), draft); err != nil {
			// An auth failure stops the run; a bad record does not.
			if errors.Is(err, api.ErrSessionExpired) || errors.Is(err, api.ErrForbidden) {
				return friendlyError(err)
			}
			failures = append(failures, err)
		} else {
			uploaded++
		}
		_ = bar.Add(1)
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Imported %d of %d expenses", uploaded, len(drafts))))
	for _, failure := range failures {
		fmt.Println(cli.Notice(failure))
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d expenses failed to upload", len(failures))
	}
	return nil
}

func expandGlobs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}
