package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/expensetrack/etrack/internal/cli"
	"github.com/expensetrack/etrack/internal/common"
	"github.com/expensetrack/etrack/internal/model"
	"github.com/expensetrack/etrack/internal/route"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title> <amount>",
		Short: "Log a new expense",
		Long: `Log a new expense with a title and an amount.

Examples:
  etrack add "Groceries" 540.50 --category Food
  etrack add "Metro card" 300 -c Transport --date 2026-08-12`,
		Args: cobra.ExactArgs(2),
		RunE: runAdd,
	}

	cmd.Flags().StringP("category", "c", string(model.CategoryOther), "expense category")
	cmd.Flags().String("date", "", "expense date (YYYY-MM-DD, default today)")
	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	sessions, err := initSessionStore()
	if err != nil {
		return err
	}
	if _, err := requireView(route.ViewAdd, sessions); err != nil {
		return err
	}

	title := strings.TrimSpace(args[0])

	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("invalid amount %q", args[1]), nil)
	}

	rawCategory, _ := cmd.Flags().GetString("category")
	category, err := model.ParseCategory(rawCategory)
	if err != nil {
		return common.NewUserError(
			fmt.Sprintf("unknown category %q (valid: %s)", rawCategory, categoryList()), nil)
	}

	date := time.Now()
	if rawDate, _ := cmd.Flags().GetString("date"); rawDate != "" {
		date, err = time.Parse("2006-01-02", rawDate)
		if err != nil {
			return common.NewUserError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", rawDate), nil)
		}
	}

	expense := model.Expense{
		Title:    title,
		Amount:   amount,
		Category: category,
		Date:     date,
	}
	// Validation runs before any network traffic.
	if err := expense.Validate(); err != nil {
		return common.NewUserError(err.Error(), nil)
	}

	client := initClient(sessions)
	created, err := client.CreateExpense(cmd.Context(), expense)
	if err != nil {
		return friendlyError(err)
	}

	symbol := viper.GetString("currency.symbol")
	fmt.Println(cli.SuccessStyle.Render(
		fmt.Sprintf("✓ Added %q (%s%.2f, %s)", created.Title, symbol, created.Amount, created.Category)))
	return nil
}

func categoryList() string {
	names := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
