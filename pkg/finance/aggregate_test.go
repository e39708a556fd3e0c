package finance

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/klokku/moneypro/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.December, 15, 14, 30, 0, 0, time.UTC)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func expense(category string, value float64, date time.Time) transaction.Transaction {
	return transaction.Transaction{
		Id:          category + date.Format(transaction.DateLayout),
		Type:        transaction.Expense,
		Description: "expense " + category,
		Category:    category,
		Value:       value,
		Date:        date,
	}
}

func income(category string, value float64, date time.Time) transaction.Transaction {
	txn := expense(category, value, date)
	txn.Type = transaction.Income
	txn.Description = "income " + category
	return txn
}

func sampleLedger() []transaction.Transaction {
	return []transaction.Transaction{
		income("Salário", 5500, day(2024, time.December, 5)),
		expense("Alimentação", 450, day(2024, time.December, 1)),
		expense("Transporte", 85.5, day(2024, time.November, 30)),
		expense("Alimentação", 120.25, day(2024, time.November, 20)),
		expense("Moradia", 1800, day(2024, time.October, 10)),
		income("Freelance", 1200, day(2024, time.September, 15)),
		expense("Lazer", 55.9, day(2024, time.July, 28)),
	}
}

func TestCategoryBreakdown(t *testing.T) {
	t.Run("should sum expenses per category in first-seen order", func(t *testing.T) {
		// when
		categories := CategoryBreakdown(sampleLedger())

		// then
		require.Len(t, categories, 4)
		assert.Equal(t, Category{Name: "Alimentação", Value: 570.25, Color: "#0066CC"}, categories[0])
		assert.Equal(t, Category{Name: "Transporte", Value: 85.5, Color: "#3399FF"}, categories[1])
		assert.Equal(t, Category{Name: "Moradia", Value: 1800, Color: "#1a365d"}, categories[2])
		assert.Equal(t, Category{Name: "Lazer", Value: 55.9, Color: "#63B3ED"}, categories[3])
	})

	t.Run("should fall back to the default color for unknown categories", func(t *testing.T) {
		categories := CategoryBreakdown([]transaction.Transaction{expense("Pets", 10, now)})

		require.Len(t, categories, 1)
		assert.Equal(t, DefaultColor, categories[0].Color)
	})

	t.Run("should match category names case-sensitively", func(t *testing.T) {
		categories := CategoryBreakdown([]transaction.Transaction{
			expense("Food", 10, now),
			expense("food", 5, now),
		})

		assert.Len(t, categories, 2)
	})

	t.Run("should return an empty non-nil slice for an empty ledger", func(t *testing.T) {
		categories := CategoryBreakdown(nil)

		assert.NotNil(t, categories)
		assert.Empty(t, categories)
	})

	t.Run("should use custom palette colors", func(t *testing.T) {
		palette := DefaultPalette().With(map[string]string{"Pets": "#123456", "Lazer": "#000000"})

		categories := CategoryBreakdownWithPalette([]transaction.Transaction{
			expense("Pets", 10, now),
			expense("Lazer", 10, now),
		}, palette)

		assert.Equal(t, "#123456", categories[0].Color)
		assert.Equal(t, "#000000", categories[1].Color)
		assert.Equal(t, "#63B3ED", DefaultPalette().ColorOf("Lazer"))
	})
}

func TestCategoryBreakdown_SumEqualsTotalExpense(t *testing.T) {
	// given
	ledger := sampleLedger()
	var totalExpense float64
	for _, txn := range ledger {
		if txn.Type == transaction.Expense {
			totalExpense += txn.Value
		}
	}

	// when
	categories := CategoryBreakdown(ledger)

	// then
	var sum float64
	for _, c := range categories {
		sum += c.Value
	}
	assert.InDelta(t, totalExpense, sum, 1e-9)
}

func TestMonthlySeries(t *testing.T) {
	t.Run("should cover six months ending at the current month", func(t *testing.T) {
		// when
		series := MonthlySeries(sampleLedger(), now)

		// then
		labels := make([]string, 0, SeriesLength)
		for _, m := range series {
			labels = append(labels, m.Month)
		}
		assert.Equal(t, []string{"Jul", "Ago", "Set", "Out", "Nov", "Dez"}, labels)
		assert.Equal(t, MonthlyData{Month: "Dez", Income: 5500, Expense: 450}, series[5])
		assert.Equal(t, MonthlyData{Month: "Nov", Income: 0, Expense: 205.75}, series[4])
		assert.Equal(t, MonthlyData{Month: "Set", Income: 1200, Expense: 0}, series[2])
		assert.Equal(t, MonthlyData{Month: "Jul", Income: 0, Expense: 55.9}, series[0])
	})

	t.Run("should wrap around the year boundary", func(t *testing.T) {
		series := MonthlySeries(nil, day(2025, time.February, 3))

		assert.Equal(t, "Set", series[0].Month)
		assert.Equal(t, "Dez", series[3].Month)
		assert.Equal(t, "Fev", series[5].Month)
	})

	t.Run("should bucket by month regardless of year", func(t *testing.T) {
		series := MonthlySeries([]transaction.Transaction{
			expense("Lazer", 40, day(2023, time.December, 24)),
			expense("Lazer", 60, day(2024, time.December, 2)),
		}, now)

		assert.Equal(t, 100.0, series[5].Expense)
	})

	t.Run("should ignore months outside the window", func(t *testing.T) {
		series := MonthlySeries([]transaction.Transaction{expense("Lazer", 40, day(2024, time.March, 1))}, now)

		for _, m := range series {
			assert.Zero(t, m.Expense)
		}
	})
}

func TestSummarize(t *testing.T) {
	t.Run("should compute the summary of a food and salary month", func(t *testing.T) {
		// given
		ledger := []transaction.Transaction{
			expense("Food", 100, day(2024, time.December, 3)),
			income("Salary", 1000, day(2024, time.December, 5)),
		}

		// when
		summary := Summarize(ledger, now, 500)
		categories := CategoryBreakdown(ledger)

		// then
		assert.Equal(t, 1000.0, summary.MonthlyIncome)
		assert.Equal(t, 100.0, summary.MonthlyExpenses)
		assert.Equal(t, 900.0, summary.TotalBalance)
		assert.Equal(t, 20, summary.BudgetUsedPercent)
		assert.Equal(t, []Category{{Name: "Food", Value: 100, Color: DefaultColor}}, categories)
	})

	t.Run("should restrict monthly totals to the current year", func(t *testing.T) {
		summary := Summarize([]transaction.Transaction{
			expense("Lazer", 40, day(2023, time.December, 24)),
			expense("Lazer", 60, day(2024, time.December, 2)),
		}, now, 4000)

		assert.Equal(t, 60.0, summary.MonthlyExpenses)
		assert.Equal(t, -100.0, summary.TotalBalance)
	})

	t.Run("should forecast a sixth of all expenses", func(t *testing.T) {
		summary := Summarize([]transaction.Transaction{
			expense("Moradia", 700, day(2024, time.June, 1)),
		}, now, 4000)

		assert.Equal(t, 117.0, summary.Forecast)
	})

	t.Run("should forecast zero for an empty ledger", func(t *testing.T) {
		summary := Summarize(nil, now, 4000)

		assert.Equal(t, Summary{}, summary)
	})

	t.Run("should clamp the budget usage to 100", func(t *testing.T) {
		summary := Summarize([]transaction.Transaction{expense("Moradia", 2000, now)}, now, 500)

		assert.Equal(t, 100, summary.BudgetUsedPercent)
	})

	t.Run("should report zero usage without a ceiling", func(t *testing.T) {
		ledger := []transaction.Transaction{expense("Moradia", 2000, now)}

		assert.Equal(t, 0, Summarize(ledger, now, 0).BudgetUsedPercent)
		assert.Equal(t, 0, Summarize(ledger, now, -10).BudgetUsedPercent)
	})

	t.Run("should round half away from zero", func(t *testing.T) {
		summary := Summarize([]transaction.Transaction{expense("Moradia", 5, now)}, now, 200)

		// 2.5% rounds up
		assert.Equal(t, 3, summary.BudgetUsedPercent)
	})
}

func TestSummarize_IsOrderInvariant(t *testing.T) {
	// given
	ledger := sampleLedger()
	expected := Summarize(ledger, now, 4000)
	shuffled := append([]transaction.Transaction(nil), ledger...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	// when
	actual := Summarize(shuffled, now, 4000)

	// then
	assert.InDelta(t, expected.TotalBalance, actual.TotalBalance, 1e-9)
	assert.InDelta(t, expected.MonthlyExpenses, actual.MonthlyExpenses, 1e-9)
	assert.Equal(t, expected.BudgetUsedPercent, actual.BudgetUsedPercent)
	assert.Equal(t, expected.Forecast, actual.Forecast)
}

func TestMonthExpenses(t *testing.T) {
	ledger := append(sampleLedger(), expense("Lazer", 40, day(2023, time.December, 2)))

	assert.Equal(t, 450.0, MonthExpenses(ledger, 2024, time.December))
	assert.Equal(t, 205.75, MonthExpenses(ledger, 2024, time.November))
	assert.Equal(t, 40.0, MonthExpenses(ledger, 2023, time.December))
	assert.Zero(t, MonthExpenses(ledger, 2024, time.August))
}

func TestBudgetUsage(t *testing.T) {
	assert.Equal(t, Summary{MonthlyExpenses: 750, BudgetUsedPercent: 75}, BudgetUsage(750, 1000))
	assert.Equal(t, Summary{MonthlyExpenses: 1500, BudgetUsedPercent: 100}, BudgetUsage(1500, 1000))
	assert.Equal(t, Summary{MonthlyExpenses: 750}, BudgetUsage(750, 0))
}

func TestCompute(t *testing.T) {
	ledger := sampleLedger()

	views := Compute(ledger, now, 4000, DefaultPalette())

	assert.Equal(t, CategoryBreakdown(ledger), views.Categories)
	assert.Equal(t, MonthlySeries(ledger, now), views.Monthly)
	assert.Equal(t, Summarize(ledger, now, 4000), views.Summary)
	assert.Equal(t, "Dez", views.Monthly[SeriesLength-1].Month)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Jan", MonthLabel(time.January))
	assert.Equal(t, "Ago", MonthLabel(time.August))
	assert.Equal(t, "Dez", MonthLabel(time.December))
}
