package dashboard

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/klokku/moneypro/pkg/finance"
	log "github.com/sirupsen/logrus"
)

type MonthlyRenderer interface {
	RenderMonthly(monthly [finance.SeriesLength]finance.MonthlyData) (string, error)
}

type CsvMonthlyRendererImpl struct {
}

func NewCsvMonthlyRenderer() *CsvMonthlyRendererImpl {
	return &CsvMonthlyRendererImpl{}
}

// RenderMonthly writes one row per month followed by a Total row.
func (r *CsvMonthlyRendererImpl) RenderMonthly(monthly [finance.SeriesLength]finance.MonthlyData) (string, error) {
	data := make([][]string, 0, len(monthly)+2)
	data = append(data, []string{"Month", "Income", "Expense", "Balance"})

	var totalIncome, totalExpense float64
	for _, m := range monthly {
		data = append(data, row(m.Month, m.Income, m.Expense))
		totalIncome += m.Income
		totalExpense += m.Expense
	}
	data = append(data, row("Total", totalIncome, totalExpense))

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func row(label string, income, expense float64) []string {
	return []string{label, amountToString(income), amountToString(expense), amountToString(income - expense)}
}

func amountToString(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
