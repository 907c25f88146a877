package report

import (
	"strings"
	"testing"

	"github.com/expensetrack/etrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsights_EmptyData(t *testing.T) {
	s, err := Aggregate(nil)
	require.NoError(t, err)

	got := Insights(s, DefaultInsightOptions())
	require.Len(t, got, 1)
	assert.Equal(t, "No data yet. Start adding expenses to get insights.", got[0])
}

func TestInsights_TopCategoryFirst(t *testing.T) {
	records := []model.Expense{
		expense("a", 100, model.CategoryFood, "2024-01-10", "alice"),
		expense("b", 200, model.CategoryFood, "2024-01-15", "alice"),
		expense("c", 50, model.CategoryTransport, "2024-01-20", "alice"),
	}
	s, err := Aggregate(records)
	require.NoError(t, err)

	got := Insights(s, DefaultInsightOptions())
	require.NotEmpty(t, got)
	assert.Equal(t, `You spend the most on "Food" (₹300.00).`, got[0])
}

func TestInsights_OverspendWarning(t *testing.T) {
	under := []model.Expense{expense("a", 49999, model.CategoryBills, "2024-01-10", "alice")}
	over := []model.Expense{expense("a", 50001, model.CategoryBills, "2024-01-10", "alice")}

	warning := "⚠️ You are spending a lot overall. Consider setting a monthly budget."

	s, err := Aggregate(under)
	require.NoError(t, err)
	assert.NotContains(t, Insights(s, DefaultInsightOptions()), warning)

	s, err = Aggregate(over)
	require.NoError(t, err)
	got := Insights(s, DefaultInsightOptions())
	assert.Contains(t, got, warning)
	assert.Equal(t, warning, got[1], "overspend warning follows the top-category message")
}

func TestInsights_SpikeDetection(t *testing.T) {
	// Monthly totals Jan:100 Feb:100 Mar:1000 → mean 400, threshold 600:
	// only March spikes.
	records := []model.Expense{
		expense("a", 100, model.CategoryFood, "2024-01-10", "alice"),
		expense("b", 100, model.CategoryFood, "2024-02-10", "alice"),
		expense("c", 1000, model.CategoryFood, "2024-03-10", "alice"),
	}
	s, err := Aggregate(records)
	require.NoError(t, err)

	got := Insights(s, DefaultInsightOptions())

	var spikes []string
	for _, msg := range got {
		if containsSpike(msg) {
			spikes = append(spikes, msg)
		}
	}
	require.Len(t, spikes, 1)
	assert.Equal(t, "📈 Spending spike detected in Mar 2024: ₹1000.00", spikes[0])
}

func containsSpike(msg string) bool {
	return strings.HasPrefix(msg, "📈")
}

func TestInsights_ConfigurableThresholds(t *testing.T) {
	records := []model.Expense{
		expense("a", 100, model.CategoryFood, "2024-01-10", "alice"),
		expense("b", 150, model.CategoryFood, "2024-02-10", "alice"),
	}
	s, err := Aggregate(records)
	require.NoError(t, err)

	// Mean 125; with a 1.1x multiplier Feb (150) spikes, with the default
	// 1.5x nothing does. Overspend trips at a lowered 200 threshold.
	opts := InsightOptions{OverspendThreshold: 200, SpikeMultiplier: 1.1, CurrencySymbol: "$"}
	got := Insights(s, opts)

	assert.Contains(t, got, "⚠️ You are spending a lot overall. Consider setting a monthly budget.")
	assert.Contains(t, got, "📈 Spending spike detected in Feb 2024: $150.00")

	got = Insights(s, DefaultInsightOptions())
	for _, msg := range got {
		assert.False(t, containsSpike(msg))
	}
}

func TestInsights_TipsAlwaysLast(t *testing.T) {
	records := []model.Expense{expense("a", 10, model.CategoryFood, "2024-01-10", "alice")}
	s, err := Aggregate(records)
	require.NoError(t, err)

	got := Insights(s, DefaultInsightOptions())
	require.GreaterOrEqual(t, len(got), 3)
	assert.Equal(t, "💡 Tip: Track small daily expenses.", got[len(got)-2])
	assert.Equal(t, "💡 Tip: Review subscriptions & recurring costs.", got[len(got)-1])
}

func TestInsights_Deterministic(t *testing.T) {
	records := []model.Expense{
		expense("a", 700, model.CategoryShopping, "2024-01-10", "alice"),
		expense("b", 120, model.CategoryFood, "2024-02-10", "bob"),
		expense("c", 90, model.CategoryBills, "2024-03-10", "alice"),
	}
	s, err := Aggregate(records)
	require.NoError(t, err)

	first := Insights(s, DefaultInsightOptions())
	second := Insights(s, DefaultInsightOptions())
	assert.Equal(t, first, second)
}
