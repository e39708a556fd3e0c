// Package finance derives the dashboard views from a ledger snapshot.
//
// Everything here is pure: the current time and the budget ceiling are
// explicit inputs and no function fails. Malformed input (negative values,
// zero dates) is summed as-is.
package finance

// Category is the expense total of one category name.
type Category struct {
	Name  string
	Value float64
	Color string
}

// MonthlyData holds income and expense totals of one calendar month.
type MonthlyData struct {
	Month   string
	Income  float64
	Expense float64
}

type Summary struct {
	TotalBalance      float64
	MonthlyExpenses   float64
	MonthlyIncome     float64
	Forecast          float64
	BudgetUsedPercent int
}

// Views groups the three derived views of a ledger snapshot.
type Views struct {
	Categories []Category
	Monthly    [SeriesLength]MonthlyData
	Summary    Summary
}
