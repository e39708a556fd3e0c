package finance

import (
	"math"
	"time"

	"github.com/klokku/moneypro/pkg/transaction"
)

// SeriesLength is the number of months covered by MonthlySeries.
const SeriesLength = 6

// forecastPeriods is the flat divisor of the naive next-month expense forecast.
const forecastPeriods = 6

var monthLabels = [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// MonthLabel returns the three-letter label of a month.
func MonthLabel(m time.Month) string {
	return monthLabels[(int(m)-1+12)%12]
}

// CategoryBreakdown sums expenses per category using the default palette.
func CategoryBreakdown(transactions []transaction.Transaction) []Category {
	return CategoryBreakdownWithPalette(transactions, defaultPalette)
}

// CategoryBreakdownWithPalette sums expense values per exact category name.
// Categories keep the order in which they first appear in transactions.
func CategoryBreakdownWithPalette(transactions []transaction.Transaction, palette Palette) []Category {
	categories := make([]Category, 0)
	index := make(map[string]int)
	for _, t := range transactions {
		if t.Type != transaction.Expense {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(categories)
			index[t.Category] = i
			categories = append(categories, Category{Name: t.Category, Color: palette.ColorOf(t.Category)})
		}
		categories[i].Value += t.Value
	}
	return categories
}

// MonthlySeries returns income and expense totals of the six calendar months
// ending at now's month, oldest first. Transactions are bucketed by month only:
// the same month of different years lands in the same bucket.
func MonthlySeries(transactions []transaction.Transaction, now time.Time) [SeriesLength]MonthlyData {
	var series [SeriesLength]MonthlyData
	current := int(now.Month()) - 1

	for slot := 0; slot < SeriesLength; slot++ {
		offset := SeriesLength - 1 - slot
		monthIndex := (current - offset + 12) % 12
		series[slot].Month = monthLabels[monthIndex]

		for _, t := range transactions {
			if int(t.Date.Month())-1 != monthIndex {
				continue
			}
			switch t.Type {
			case transaction.Income:
				series[slot].Income += t.Value
			case transaction.Expense:
				series[slot].Expense += t.Value
			}
		}
	}
	return series
}

// Summarize computes the summary record. Monthly totals cover now's month and
// year; the balance covers the whole ledger.
func Summarize(transactions []transaction.Transaction, now time.Time, budgetCeiling float64) Summary {
	var summary Summary
	var totalIncome, totalExpense float64
	year, month, _ := now.Date()

	for _, t := range transactions {
		inCurrentMonth := t.Date.Year() == year && t.Date.Month() == month
		switch t.Type {
		case transaction.Income:
			totalIncome += t.Value
			if inCurrentMonth {
				summary.MonthlyIncome += t.Value
			}
		case transaction.Expense:
			totalExpense += t.Value
			if inCurrentMonth {
				summary.MonthlyExpenses += t.Value
			}
		}
	}

	summary.TotalBalance = totalIncome - totalExpense
	if len(transactions) > 0 {
		summary.Forecast = math.Round(totalExpense / forecastPeriods)
	}
	summary.BudgetUsedPercent = usedPercent(summary.MonthlyExpenses, budgetCeiling)
	return summary
}

// MonthExpenses sums the expenses dated in the given month of the given year.
func MonthExpenses(transactions []transaction.Transaction, year int, month time.Month) float64 {
	var total float64
	for _, t := range transactions {
		if t.Type == transaction.Expense && t.Date.Year() == year && t.Date.Month() == month {
			total += t.Value
		}
	}
	return total
}

// BudgetUsage is the summary of a month's spending against a budget ceiling.
// Only MonthlyExpenses and BudgetUsedPercent are set.
func BudgetUsage(monthlyExpenses, budgetCeiling float64) Summary {
	return Summary{
		MonthlyExpenses:   monthlyExpenses,
		BudgetUsedPercent: usedPercent(monthlyExpenses, budgetCeiling),
	}
}

// Compute derives all three views at once.
func Compute(transactions []transaction.Transaction, now time.Time, budgetCeiling float64, palette Palette) Views {
	return Views{
		Categories: CategoryBreakdownWithPalette(transactions, palette),
		Monthly:    MonthlySeries(transactions, now),
		Summary:    Summarize(transactions, now, budgetCeiling),
	}
}

// usedPercent is round(spent/limit*100) clamped to [0, 100], or 0 without a limit.
func usedPercent(spent, limit float64) int {
	if !(limit > 0) {
		return 0
	}
	percent := math.Round(spent / limit * 100)
	if math.IsNaN(percent) || percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return int(percent)
}
