package finance

import (
	"testing"
	"time"

	"github.com/klokku/moneypro/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetAlertFor(t *testing.T) {
	tests := []struct {
		used     int
		expected AlertLevel
	}{
		{0, AlertNone},
		{69, AlertNone},
		{70, AlertWarning},
		{89, AlertWarning},
		{90, AlertCritical},
		{100, AlertCritical},
	}
	for _, tt := range tests {
		alert := BudgetAlertFor(Summary{BudgetUsedPercent: tt.used})

		assert.Equal(t, tt.expected, alert.Level, "used %d%%", tt.used)
		assert.Equal(t, tt.used, alert.BudgetUsedPercent)
		if tt.expected == AlertNone {
			assert.Empty(t, alert.Message)
		} else {
			assert.NotEmpty(t, alert.Message)
		}
	}

	assert.Less(t, AlertNone.Severity(), AlertWarning.Severity())
	assert.Less(t, AlertWarning.Severity(), AlertCritical.Severity())
}

func TestProgressFor(t *testing.T) {
	t.Run("should map budget usage to a status", func(t *testing.T) {
		tests := map[int]BudgetStatus{
			0:   StatusUnderControl,
			49:  StatusUnderControl,
			50:  StatusOnTrack,
			79:  StatusOnTrack,
			80:  StatusNearLimit,
			99:  StatusNearLimit,
			100: StatusExceeded,
		}
		for used, expected := range tests {
			assert.Equal(t, expected, ProgressFor(Summary{BudgetUsedPercent: used}).BudgetStatus, "used %d%%", used)
		}
	})

	t.Run("should compute savings against income", func(t *testing.T) {
		progress := ProgressFor(Summary{MonthlyIncome: 5000, MonthlyExpenses: 3500})

		assert.Equal(t, 1500.0, progress.MonthlySavings)
		assert.InDelta(t, 30.0, progress.SavingsRate, 1e-9)
		assert.Equal(t, float64(SavingsGoalPercent), progress.SavingsGoal)
		assert.True(t, progress.GoalReached)
	})

	t.Run("should report zero savings rate without income", func(t *testing.T) {
		progress := ProgressFor(Summary{MonthlyExpenses: 300})

		assert.Equal(t, -300.0, progress.MonthlySavings)
		assert.Zero(t, progress.SavingsRate)
		assert.False(t, progress.GoalReached)
	})
}

func deliveries(n int, value float64, date time.Time) []transaction.Transaction {
	descriptions := []string{"iFood jantar", "Rappi mercado", "Uber Eats pizza", "Lanche da tarde", "Fast Food", "Delivery japonês"}
	txns := make([]transaction.Transaction, 0, n)
	for i := range n {
		txn := expense("Alimentação", value, date)
		txn.Description = descriptions[i%len(descriptions)]
		txns = append(txns, txn)
	}
	return txns
}

func TestInsights(t *testing.T) {
	t.Run("should suggest recording transactions on an empty ledger", func(t *testing.T) {
		insights := Insights(nil, nil, Summary{}, now)

		require.Len(t, insights, 1)
		assert.Equal(t, InsightTip, insights[0].Type)
		assert.Equal(t, "Comece a registrar", insights[0].Title)
	})

	t.Run("should warn about a dominant category", func(t *testing.T) {
		// given
		ledger := []transaction.Transaction{
			expense("Food", 300, day(2024, time.December, 2)),
			expense("Transport", 100, day(2024, time.December, 3)),
		}
		summary := Summarize(ledger, now, 4000)

		// when
		insights := Insights(ledger, CategoryBreakdown(ledger), summary, now)

		// then
		require.Len(t, insights, 1)
		assert.Equal(t, InsightWarning, insights[0].Type)
		assert.Equal(t, "75% em Food", insights[0].Title)
	})

	t.Run("should not warn when the top category share is at most 40%", func(t *testing.T) {
		categories := []Category{{Name: "Food", Value: 40}, {Name: "Transport", Value: 30}}
		ledger := []transaction.Transaction{expense("Food", 40, day(2024, time.June, 1))}

		insights := Insights(ledger, categories, Summary{MonthlyExpenses: 100}, now)

		assert.Empty(t, insights)
	})

	t.Run("should warn when expenses grew over 20% month over month", func(t *testing.T) {
		ledger := []transaction.Transaction{
			expense("Lazer", 150, day(2024, time.December, 2)),
			expense("Lazer", 100, day(2024, time.November, 2)),
		}

		insights := Insights(ledger, nil, Summary{}, now)

		require.Len(t, insights, 1)
		assert.Equal(t, InsightWarning, insights[0].Type)
		assert.Equal(t, "Gastos 50% maiores", insights[0].Title)
	})

	t.Run("should praise expenses that dropped over 10% month over month", func(t *testing.T) {
		ledger := []transaction.Transaction{
			expense("Lazer", 80, day(2024, time.December, 2)),
			expense("Lazer", 100, day(2024, time.November, 2)),
		}

		insights := Insights(ledger, nil, Summary{}, now)

		require.Len(t, insights, 1)
		assert.Equal(t, InsightSuccess, insights[0].Type)
		assert.Equal(t, "Economia de 20%", insights[0].Title)
	})

	t.Run("should compare January with December", func(t *testing.T) {
		january := day(2025, time.January, 20)
		ledger := []transaction.Transaction{
			expense("Lazer", 200, day(2025, time.January, 2)),
			expense("Lazer", 100, day(2024, time.December, 2)),
		}

		insights := Insights(ledger, nil, Summary{}, january)

		require.Len(t, insights, 1)
		assert.Equal(t, "Gastos 100% maiores", insights[0].Title)
	})

	t.Run("should tip about frequent delivery", func(t *testing.T) {
		ledger := deliveries(5, 30, day(2024, time.June, 1))

		insights := Insights(ledger, nil, Summary{}, now)

		require.Len(t, insights, 1)
		assert.Equal(t, InsightTip, insights[0].Type)
		assert.Contains(t, insights[0].Description, "R$ 150")
	})

	t.Run("should ignore fewer than five delivery expenses", func(t *testing.T) {
		insights := Insights(deliveries(4, 30, day(2024, time.June, 1)), nil, Summary{}, now)

		assert.Empty(t, insights)
	})

	t.Run("should rate savings", func(t *testing.T) {
		ledger := []transaction.Transaction{income("Salário", 1000, day(2024, time.June, 1))}

		good := Insights(ledger, nil, Summary{MonthlyIncome: 1000, MonthlyExpenses: 500}, now)
		low := Insights(ledger, nil, Summary{MonthlyIncome: 1000, MonthlyExpenses: 950}, now)
		none := Insights(ledger, nil, Summary{MonthlyIncome: 1000, MonthlyExpenses: 1000}, now)

		require.Len(t, good, 1)
		assert.Equal(t, InsightSuccess, good[0].Type)
		assert.Equal(t, "Taxa de poupança: 50%", good[0].Title)
		require.Len(t, low, 1)
		assert.Equal(t, InsightWarning, low[0].Type)
		assert.Empty(t, none)
	})

	t.Run("should keep the first three insights", func(t *testing.T) {
		// given
		ledger := append([]transaction.Transaction{
			expense("Food", 600, day(2024, time.December, 2)),
			expense("Food", 100, day(2024, time.November, 2)),
		}, deliveries(5, 20, day(2024, time.June, 1))...)
		categories := []Category{{Name: "Food", Value: 500}}
		summary := Summary{MonthlyExpenses: 600, MonthlyIncome: 2000}

		// when
		insights := Insights(ledger, categories, summary, now)

		// then
		require.Len(t, insights, MaxInsights)
		assert.Equal(t, "83% em Food", insights[0].Title)
		assert.Equal(t, "Gastos 500% maiores", insights[1].Title)
		assert.Equal(t, "Dica: Reduza delivery", insights[2].Title)
	})
}

func TestCategoryBudgetUsage(t *testing.T) {
	// given
	categories := []Category{{Name: "Food", Value: 150}, {Name: "Lazer", Value: 50}}
	budgets := map[string]float64{"Lazer": 100, "Food": 100, "Saúde": 0}

	// when
	usage := CategoryBudgetUsage(categories, budgets)

	// then
	assert.Equal(t, []CategoryBudgetStatus{
		{CategoryName: "Food", Spent: 150, Limit: 100, Percent: 100, Exceeded: true},
		{CategoryName: "Lazer", Spent: 50, Limit: 100, Percent: 50, Exceeded: false},
		{CategoryName: "Saúde", Spent: 0, Limit: 0, Percent: 0, Exceeded: false},
	}, usage)
}
