package dashboard

import (
	"github.com/klokku/moneypro/pkg/finance"
	"github.com/klokku/moneypro/pkg/transaction"
)

// Dashboard carries every view the dashboard screen renders.
type Dashboard struct {
	Summary         finance.Summary
	Categories      []finance.Category
	Monthly         [finance.SeriesLength]finance.MonthlyData
	Alert           finance.BudgetAlert
	Progress        finance.Progress
	Insights        []finance.Insight
	CategoryBudgets []finance.CategoryBudgetStatus
	BudgetCeiling   float64
	Transactions    []transaction.Transaction
}
