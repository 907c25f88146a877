package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/expensetrack/etrack/internal/common"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheets publishes expense reports to a Google Sheets spreadsheet.
type Sheets struct {
	service *sheets.Service
	logger  *slog.Logger
	config  SheetsConfig
}

// NewSheets creates a Google Sheets report writer.
func NewSheets(ctx context.Context, config SheetsConfig, logger *slog.Logger) (*Sheets, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Sheets{config: config, service: service, logger: logger}, nil
}

var _ SheetWriter = (*Sheets)(nil)

// Publish writes the report to the configured spreadsheet, replacing any
// previous contents. Transient write failures retry with backoff.
func (s *Sheets) Publish(ctx context.Context, rep Report) error {
	s.logger.Info("publishing report to sheets",
		"records", len(rep.Records),
		"total", fmt.Sprintf("%.2f", rep.Summary.Total))

	spreadsheetID, err := s.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if clearErr := s.clearSheet(ctx, spreadsheetID); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := prepareRows(rep)

	retryOpts := common.RetryOptions{
		MaxAttempts:  s.config.RetryAttempts,
		InitialDelay: s.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return s.writeRows(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	s.logger.Info("report published", "spreadsheet_id", spreadsheetID, "rows", len(values))
	return nil
}

func createSheetsService(ctx context.Context, config SheetsConfig) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

func (s *Sheets) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if s.config.SpreadsheetID != "" {
		if _, err := s.service.Spreadsheets.Get(s.config.SpreadsheetID).Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", s.config.SpreadsheetID, err)
		}
		return s.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    s.config.SpreadsheetName,
			TimeZone: s.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: "Expenses"}},
		},
	}

	created, err := s.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	s.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

func (s *Sheets) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := s.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// prepareRows flattens the report into spreadsheet rows: title, summary,
// the breakdown tables in first-seen order, then every record.
func prepareRows(rep Report) [][]any {
	estimated := 14 + len(rep.Summary.CategoryOrder) + len(rep.Summary.MonthOrder) + len(rep.Records)
	values := make([][]any, 0, estimated)

	values = append(values,
		[]any{rep.Title, rep.DateRange},
		[]any{},
		[]any{"Summary"},
		[]any{"Total Amount", fmt.Sprintf("%.2f", rep.Summary.Total)},
		[]any{"Total Expenses", rep.Summary.Count},
	)
	if rep.PerUser {
		values = append(values, []any{"Total Users", len(rep.Summary.UserOrder)})
	}

	appendBreakdown := func(title string, order []string, totals map[string]float64) {
		values = append(values, []any{}, []any{title})
		for _, key := range order {
			values = append(values, []any{key, fmt.Sprintf("%.2f", totals[key])})
		}
	}
	appendBreakdown("Category Breakdown", rep.Summary.CategoryOrder, rep.Summary.ByCategory)
	appendBreakdown("Monthly Breakdown", rep.Summary.MonthOrder, rep.Summary.ByMonth)
	if rep.PerUser {
		appendBreakdown("Spending by User", rep.Summary.UserOrder, rep.Summary.ByUser)
	}

	header := []any{"Date", "Title", "Amount", "Category"}
	if rep.PerUser {
		header = append(header, "User")
	}
	values = append(values, []any{}, []any{"Expenses"}, header)

	for _, rec := range rep.Records {
		row := []any{
			rec.Date.Format("2006-01-02"),
			rec.Title,
			fmt.Sprintf("%.2f", rec.Amount),
			string(rec.Category),
		}
		if rep.PerUser {
			row = append(row, rec.OwnerName())
		}
		values = append(values, row)
	}

	values = append(values, []any{}, []any{"Generated", rep.GeneratedAt.Format("2006-01-02 15:04")})
	return values
}

func (s *Sheets) writeRows(ctx context.Context, spreadsheetID string, values [][]any) error {
	for i := 0; i < len(values); i += s.config.BatchSize {
		end := i + s.config.BatchSize
		if end > len(values) {
			end = len(values)
		}

		valueRange := &sheets.ValueRange{Values: values[i:end]}
		rangeStr := fmt.Sprintf("A%d", i+1)
		_, err := s.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, valueRange).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		s.logger.Debug("wrote batch", "start_row", i+1, "rows", end-i)
	}
	return nil
}
