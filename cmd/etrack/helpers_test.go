package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expensetrack/etrack/internal/report"
)

func TestRangeLabel(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter report.Filter
		want   string
	}{
		{name: "no bounds", filter: report.Filter{}, want: "All time"},
		{name: "from only", filter: report.Filter{From: from}, want: "From 2026-08-01"},
		{name: "to only", filter: report.Filter{To: to}, want: "Through 2026-08-31"},
		{name: "both bounds", filter: report.Filter{From: from, To: to}, want: "2026-08-01 to 2026-08-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rangeLabel(tt.filter))
		})
	}
}

func TestReportTitle(t *testing.T) {
	assert.Equal(t, "ExpenseTrack System Report", reportTitle(true, "alice"))
	assert.Equal(t, "Expense Report for alice", reportTitle(false, "alice"))
	assert.Equal(t, "Expense Report", reportTitle(false, ""))
}

func TestParseDay(t *testing.T) {
	day, err := parseDay("2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), day)

	_, err = parseDay("29/08/2026")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10!", truncate("exactly10!", 10))
	assert.Equal(t, "truncated…", truncate("truncated here", 10))
}
