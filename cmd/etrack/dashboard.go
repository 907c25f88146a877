package main

import (
	"github.com/spf13/cobra"

	"github.com/expensetrack/etrack/internal/api"
	"github.com/expensetrack/etrack/internal/route"
	"github.com/expensetrack/etrack/internal/tui"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Browse expenses interactively",
		Long: `Open the interactive dashboard: summary metrics plus a scrollable
expense table. Press r to refetch, q to quit.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			sessions, err := initSessionStore()
			if err != nil {
				return err
			}
			if _, err := requireView(route.ViewDashboard, sessions); err != nil {
				return err
			}

			client := initClient(sessions)
			caching := &cachingService{ExpenseService: client, sessions: sessions}
			fetcher := api.NewFetcher(caching)
			return tui.Run(fetcher)
		},
	}
}
