package finance

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/klokku/moneypro/pkg/transaction"
)

type AlertLevel string

const (
	AlertNone     AlertLevel = "none"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

const (
	warningThreshold  = 70
	criticalThreshold = 90
)

// Severity orders alert levels so a rise can be detected.
func (l AlertLevel) Severity() int {
	switch l {
	case AlertWarning:
		return 1
	case AlertCritical:
		return 2
	default:
		return 0
	}
}

type BudgetAlert struct {
	Level             AlertLevel
	BudgetUsedPercent int
	Message           string
}

func BudgetAlertFor(summary Summary) BudgetAlert {
	used := summary.BudgetUsedPercent
	alert := BudgetAlert{Level: AlertNone, BudgetUsedPercent: used}
	switch {
	case used >= criticalThreshold:
		alert.Level = AlertCritical
		alert.Message = fmt.Sprintf("Você já usou %d%% do seu orçamento mensal. Cuidado!", used)
	case used >= warningThreshold:
		alert.Level = AlertWarning
		alert.Message = fmt.Sprintf("Você já usou %d%% do seu orçamento mensal. Fique atento!", used)
	}
	return alert
}

type BudgetStatus string

const (
	StatusUnderControl BudgetStatus = "under_control"
	StatusOnTrack      BudgetStatus = "on_track"
	StatusNearLimit    BudgetStatus = "near_limit"
	StatusExceeded     BudgetStatus = "exceeded"
)

// SavingsGoalPercent is the savings rate considered healthy.
const SavingsGoalPercent = 20

// Progress describes how the current month is going against the budget and the savings goal.
type Progress struct {
	BudgetStatus      BudgetStatus
	BudgetUsedPercent int
	MonthlySavings    float64
	SavingsRate       float64
	SavingsGoal       float64
	GoalReached       bool
}

func ProgressFor(summary Summary) Progress {
	progress := Progress{
		BudgetStatus:      budgetStatus(summary.BudgetUsedPercent),
		BudgetUsedPercent: summary.BudgetUsedPercent,
		MonthlySavings:    summary.MonthlyIncome - summary.MonthlyExpenses,
		SavingsRate:       savingsRate(summary),
		SavingsGoal:       SavingsGoalPercent,
	}
	progress.GoalReached = progress.SavingsRate >= SavingsGoalPercent
	return progress
}

func budgetStatus(used int) BudgetStatus {
	switch {
	case used >= 100:
		return StatusExceeded
	case used >= 80:
		return StatusNearLimit
	case used >= 50:
		return StatusOnTrack
	default:
		return StatusUnderControl
	}
}

// savingsRate is the share of this month's income that was not spent, 0 without income.
func savingsRate(summary Summary) float64 {
	if !(summary.MonthlyIncome > 0) {
		return 0
	}
	return (summary.MonthlyIncome - summary.MonthlyExpenses) / summary.MonthlyIncome * 100
}

type InsightType string

const (
	InsightWarning InsightType = "warning"
	InsightTip     InsightType = "tip"
	InsightSuccess InsightType = "success"
)

type Insight struct {
	Type        InsightType
	Title       string
	Description string
}

// MaxInsights caps the number of insights returned by Insights.
const MaxInsights = 3

var deliveryKeywords = []string{"delivery", "ifood", "rappi", "uber eats", "lanche", "fast food"}

const minDeliveryExpenses = 5

// Insights evaluates the spending rules in a fixed order and keeps the first
// MaxInsights that fire. An empty ledger yields a single getting-started tip.
func Insights(transactions []transaction.Transaction, categories []Category, summary Summary, now time.Time) []Insight {
	if len(transactions) == 0 {
		return []Insight{{
			Type:        InsightTip,
			Title:       "Comece a registrar",
			Description: "Registre suas primeiras transações para receber análises personalizadas!",
		}}
	}

	insights := make([]Insight, 0, MaxInsights)
	add := func(insight Insight) {
		if len(insights) < MaxInsights {
			insights = append(insights, insight)
		}
	}

	if len(categories) > 0 && summary.MonthlyExpenses > 0 {
		top := slices.MaxFunc(categories, func(a, b Category) int { return cmp.Compare(a.Value, b.Value) })
		share := top.Value / summary.MonthlyExpenses * 100
		if share > 40 {
			add(Insight{
				Type:        InsightWarning,
				Title:       fmt.Sprintf("%.0f%% em %s", share, top.Name),
				Description: "Você gasta mais que a maioria dos usuários nessa categoria. Considere revisar esses gastos.",
			})
		}
	}

	current, previous := monthOverMonthExpenses(transactions, now)
	if previous > 0 {
		change := (current - previous) / previous * 100
		switch {
		case change > 20:
			add(Insight{
				Type:        InsightWarning,
				Title:       fmt.Sprintf("Gastos %.0f%% maiores", change),
				Description: "Seus gastos este mês estão acima do mês anterior. Fique atento!",
			})
		case change < -10:
			add(Insight{
				Type:        InsightSuccess,
				Title:       fmt.Sprintf("Economia de %.0f%%", math.Abs(change)),
				Description: "Parabéns! Você está gastando menos que no mês passado. Continue assim!",
			})
		}
	}

	if count, total := deliveryExpenses(transactions); count >= minDeliveryExpenses {
		add(Insight{
			Type:        InsightTip,
			Title:       "Dica: Reduza delivery",
			Description: fmt.Sprintf("Você gastou R$ %.0f em delivery. Cozinhar em casa pode economizar até 60%%!", total),
		})
	}

	if summary.MonthlyIncome > 0 {
		rate := savingsRate(summary)
		switch {
		case rate > SavingsGoalPercent:
			add(Insight{
				Type:        InsightSuccess,
				Title:       fmt.Sprintf("Taxa de poupança: %.0f%%", rate),
				Description: "Excelente! Você está economizando mais de 20% da sua renda. Continue assim!",
			})
		case rate > 0 && rate < 10:
			add(Insight{
				Type:        InsightWarning,
				Title:       "Aumente sua poupança",
				Description: fmt.Sprintf("Sua taxa de economia é de %.0f%%. Tente chegar a pelo menos 20%%.", rate),
			})
		}
	}

	return insights
}

// monthOverMonthExpenses sums expenses of now's month and of the month before,
// comparing month index only like MonthlySeries. The month before January is
// December, so January is compared with the December that precedes it rather
// than never having a previous month.
func monthOverMonthExpenses(transactions []transaction.Transaction, now time.Time) (current, previous float64) {
	currentMonth := now.Month()
	previousMonth := currentMonth - 1
	if previousMonth < time.January {
		previousMonth = time.December
	}
	for _, t := range transactions {
		if t.Type != transaction.Expense {
			continue
		}
		switch t.Date.Month() {
		case currentMonth:
			current += t.Value
		case previousMonth:
			previous += t.Value
		}
	}
	return current, previous
}

func deliveryExpenses(transactions []transaction.Transaction) (count int, total float64) {
	for _, t := range transactions {
		if t.Type != transaction.Expense {
			continue
		}
		description := strings.ToLower(t.Description)
		if slices.ContainsFunc(deliveryKeywords, func(k string) bool { return strings.Contains(description, k) }) {
			count++
			total += t.Value
		}
	}
	return count, total
}

// CategoryBudgetStatus compares a category's spending with its configured limit.
type CategoryBudgetStatus struct {
	CategoryName string
	Spent        float64
	Limit        float64
	Percent      int
	Exceeded     bool
}

// CategoryBudgetUsage reports spending per configured category budget, in the
// order of the budgets map keys sorted by name.
func CategoryBudgetUsage(categories []Category, budgets map[string]float64) []CategoryBudgetStatus {
	spent := make(map[string]float64, len(categories))
	for _, c := range categories {
		spent[c.Name] += c.Value
	}

	names := slices.Sorted(maps.Keys(budgets))

	statuses := make([]CategoryBudgetStatus, 0, len(names))
	for _, name := range names {
		limit := budgets[name]
		statuses = append(statuses, CategoryBudgetStatus{
			CategoryName: name,
			Spent:        spent[name],
			Limit:        limit,
			Percent:      usedPercent(spent[name], limit),
			Exceeded:     limit > 0 && spent[name] > limit,
		})
	}
	return statuses
}
