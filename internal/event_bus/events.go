package event_bus

import "time"

const (
	TransactionAddedEvent EventType = "ledger.transaction.added"
	SettingsUpdatedEvent  EventType = "settings.updated"
)

type TransactionAdded struct {
	UserId        int
	TransactionId string
	Type          string
	Category      string
	Value         float64
	Date          time.Time

	// MonthExpensesBefore is the expense total of the transaction's calendar
	// month in the ledger right before this transaction was added.
	MonthExpensesBefore float64
}

type SettingsUpdated struct {
	UserId          int
	PreviousCeiling float64
	Ceiling         float64
}
