package notification

import (
	"encoding/json"
	"time"

	"github.com/klokku/moneypro/pkg/finance"
)

// BudgetAlertMessage is sent when a user's monthly spending crosses an alert threshold.
type BudgetAlertMessage struct {
	UserUid           string    `json:"userUid"`
	Level             string    `json:"level"`
	BudgetUsedPercent int       `json:"budgetUsedPercent"`
	MonthlyExpenses   float64   `json:"monthlyExpenses"`
	BudgetCeiling     float64   `json:"budgetCeiling"`
	Message           string    `json:"message"`
	Timestamp         time.Time `json:"timestamp"`
}

func NewBudgetAlertMessage(userUid string, alert finance.BudgetAlert, summary finance.Summary, ceiling float64, now time.Time) BudgetAlertMessage {
	return BudgetAlertMessage{
		UserUid:           userUid,
		Level:             string(alert.Level),
		BudgetUsedPercent: alert.BudgetUsedPercent,
		MonthlyExpenses:   summary.MonthlyExpenses,
		BudgetCeiling:     ceiling,
		Message:           alert.Message,
		Timestamp:         now,
	}
}

func (m BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
