package dashboard

import (
	"errors"
	"net/http"

	"github.com/klokku/moneypro/internal/rest"
	"github.com/klokku/moneypro/pkg/finance"
	"github.com/klokku/moneypro/pkg/ledger"
	"github.com/klokku/moneypro/pkg/user"
	log "github.com/sirupsen/logrus"
)

type SummaryDTO struct {
	TotalBalance      float64 `json:"totalBalance"`
	MonthlyExpenses   float64 `json:"monthlyExpenses"`
	MonthlyIncome     float64 `json:"monthlyIncome"`
	Forecast          float64 `json:"forecast"`
	BudgetUsedPercent int     `json:"budgetUsedPercent"`
}

type CategoryDTO struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

type MonthlyDataDTO struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type AlertDTO struct {
	Level             string `json:"level"`
	BudgetUsedPercent int    `json:"budgetUsedPercent"`
	Message           string `json:"message,omitempty"`
}

type ProgressDTO struct {
	BudgetStatus      string  `json:"budgetStatus"`
	BudgetUsedPercent int     `json:"budgetUsedPercent"`
	MonthlySavings    float64 `json:"monthlySavings"`
	SavingsRate       float64 `json:"savingsRate"`
	SavingsGoal       float64 `json:"savingsGoal"`
	GoalReached       bool    `json:"goalReached"`
}

type InsightDTO struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CategoryBudgetStatusDTO struct {
	CategoryName string  `json:"categoryName"`
	Spent        float64 `json:"spent"`
	Limit        float64 `json:"limit"`
	Percent      int     `json:"percent"`
	Exceeded     bool    `json:"exceeded"`
}

type DashboardDTO struct {
	Summary         SummaryDTO                `json:"summary"`
	Categories      []CategoryDTO             `json:"categories"`
	Monthly         []MonthlyDataDTO          `json:"monthly"`
	Alert           AlertDTO                  `json:"alert"`
	Progress        ProgressDTO               `json:"progress"`
	Insights        []InsightDTO              `json:"insights"`
	CategoryBudgets []CategoryBudgetStatusDTO `json:"categoryBudgets"`
	BudgetCeiling   float64                   `json:"budgetCeiling"`
	Transactions    []ledger.TransactionDTO   `json:"transactions"`
}

type Handler struct {
	service  Service
	renderer MonthlyRenderer
}

func NewHandler(service Service, renderer MonthlyRenderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// GetDashboard godoc
// @Summary Get the dashboard of the current user
// @Description Returns every derived view. With "Accept: text/csv" the monthly series is returned as CSV.
// @Tags Dashboard
// @Produce json
// @Produce text/csv
// @Success 200 {object} DashboardDTO
// @Failure 502 {object} rest.ErrorResponse "Transactions could not be fetched"
// @Router /api/dashboard [get]
// @Security BearerToken
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting dashboard")
	if r.Header.Get("Accept") == "text/csv" {
		h.GetMonthlyCsv(w, r)
		return
	}

	dashboard, err := h.service.GetDashboard(r.Context())
	if err != nil {
		writeDashboardError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTO(dashboard))
}

// GetMonthlyCsv godoc
// @Summary Export the six-month series as CSV
// @Tags Dashboard
// @Produce text/csv
// @Success 200 {string} string "CSV"
// @Router /api/dashboard/monthly.csv [get]
// @Security BearerToken
func (h *Handler) GetMonthlyCsv(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.GetDashboard(r.Context())
	if err != nil {
		writeDashboardError(w, err)
		return
	}
	csv, err := h.renderer.RenderMonthly(dashboard.Monthly)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not render CSV")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="monthly.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csv)); err != nil {
		log.Errorf("failed to write csv: %v", err)
	}
}

func writeDashboardError(w http.ResponseWriter, err error) {
	var fetchErr *ledger.FetchError
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusForbidden, "User not found")
	case errors.As(err, &fetchErr):
		rest.WriteError(w, http.StatusBadGateway, "Transactions could not be fetched")
	default:
		log.Errorf("dashboard request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func toDTO(d Dashboard) DashboardDTO {
	categories := make([]CategoryDTO, 0, len(d.Categories))
	for _, c := range d.Categories {
		categories = append(categories, CategoryDTO(c))
	}
	monthly := make([]MonthlyDataDTO, 0, len(d.Monthly))
	for _, m := range d.Monthly {
		monthly = append(monthly, MonthlyDataDTO(m))
	}
	insights := make([]InsightDTO, 0, len(d.Insights))
	for _, i := range d.Insights {
		insights = append(insights, InsightDTO{Type: string(i.Type), Title: i.Title, Description: i.Description})
	}
	budgets := make([]CategoryBudgetStatusDTO, 0, len(d.CategoryBudgets))
	for _, b := range d.CategoryBudgets {
		budgets = append(budgets, CategoryBudgetStatusDTO(b))
	}

	return DashboardDTO{
		Summary:    SummaryDTO(d.Summary),
		Categories: categories,
		Monthly:    monthly,
		Alert: AlertDTO{
			Level:             string(d.Alert.Level),
			BudgetUsedPercent: d.Alert.BudgetUsedPercent,
			Message:           d.Alert.Message,
		},
		Progress:        progressToDTO(d.Progress),
		Insights:        insights,
		CategoryBudgets: budgets,
		BudgetCeiling:   d.BudgetCeiling,
		Transactions:    ledger.ToDTOs(d.Transactions),
	}
}

func progressToDTO(p finance.Progress) ProgressDTO {
	return ProgressDTO{
		BudgetStatus:      string(p.BudgetStatus),
		BudgetUsedPercent: p.BudgetUsedPercent,
		MonthlySavings:    p.MonthlySavings,
		SavingsRate:       p.SavingsRate,
		SavingsGoal:       p.SavingsGoal,
		GoalReached:       p.GoalReached,
	}
}
