package export

import (
	"fmt"
	"os"
	"time"
)

// SheetsConfig holds the configuration for the Google Sheets writer.
type SheetsConfig struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
}

// DefaultSheetsConfig returns a SheetsConfig with sensible defaults.
func DefaultSheetsConfig() SheetsConfig {
	return SheetsConfig{
		SpreadsheetName: "Expense Report",
		TimeZone:        "Asia/Kolkata",
		BatchSize:       500,
		RetryAttempts:   3,
		RetryDelay:      time.Second,
	}
}

// LoadFromEnv fills credentials from environment variables.
func (c *SheetsConfig) LoadFromEnv() {
	if v := os.Getenv("ETRACK_SHEETS_CLIENT_ID"); v != "" {
		c.ClientID = v
	}
	if v := os.Getenv("ETRACK_SHEETS_CLIENT_SECRET"); v != "" {
		c.ClientSecret = v
	}
	if v := os.Getenv("ETRACK_SHEETS_REFRESH_TOKEN"); v != "" {
		c.RefreshToken = v
	}
	if v := os.Getenv("ETRACK_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
		c.ServiceAccountPath = v
	}
	if v := os.Getenv("ETRACK_SHEETS_SPREADSHEET_ID"); v != "" {
		c.SpreadsheetID = v
	}
}

// Validate checks that at least one auth method is configured.
func (c *SheetsConfig) Validate() error {
	if c.ServiceAccountPath == "" && (c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "") {
		return fmt.Errorf("missing Google Sheets authentication: provide either a service account path or OAuth2 credentials")
	}
	if c.SpreadsheetName == "" {
		c.SpreadsheetName = "Expense Report"
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 500
	}
	return nil
}
