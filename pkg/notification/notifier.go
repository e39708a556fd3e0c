// Package notification sends budget alerts when an expense pushes the
// user's monthly spending across an alert threshold.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/klokku/moneypro/internal/clock"
	"github.com/klokku/moneypro/internal/event_bus"
	"github.com/klokku/moneypro/pkg/finance"
	"github.com/klokku/moneypro/pkg/ledger"
	"github.com/klokku/moneypro/pkg/settings"
	"github.com/klokku/moneypro/pkg/transaction"
	"github.com/klokku/moneypro/pkg/user"
	log "github.com/sirupsen/logrus"
)

type BudgetAlertNotifier struct {
	registry  *ledger.Registry
	settings  settings.Service
	publisher Publisher
	clock     clock.Clock
}

func NewBudgetAlertNotifier(registry *ledger.Registry, settingsService settings.Service, publisher Publisher, clock clock.Clock) *BudgetAlertNotifier {
	return &BudgetAlertNotifier{
		registry:  registry,
		settings:  settingsService,
		publisher: publisher,
		clock:     clock,
	}
}

// Subscribe starts listening for new transactions and budget changes on eventBus.
func (n *BudgetAlertNotifier) Subscribe(eventBus *event_bus.EventBus) (unsubscribe func()) {
	unsubscribeAdded := event_bus.SubscribeTyped(eventBus, event_bus.TransactionAddedEvent, n.onTransactionAdded)
	unsubscribeSettings := event_bus.SubscribeTyped(eventBus, event_bus.SettingsUpdatedEvent, n.onSettingsUpdated)
	return func() {
		unsubscribeAdded()
		unsubscribeSettings()
	}
}

func (n *BudgetAlertNotifier) onTransactionAdded(e event_bus.EventT[event_bus.TransactionAdded]) error {
	if e.Data.Type != string(transaction.Expense) {
		return nil
	}
	now := n.clock.Now()
	year, month, _ := now.Date()
	if e.Data.Date.Year() != year || e.Data.Date.Month() != month {
		return nil
	}
	ctx := e.Context()

	current, ok, err := n.eventUser(ctx, e.Data.UserId)
	if err != nil || !ok {
		return err
	}
	ceiling, err := n.settings.BudgetCeiling(ctx)
	if err != nil {
		return err
	}

	before := finance.BudgetUsage(e.Data.MonthExpensesBefore, ceiling)
	after := finance.BudgetUsage(e.Data.MonthExpensesBefore+e.Data.Value, ceiling)
	return n.notifyOnRise(ctx, current, before, after, ceiling, now)
}

// onSettingsUpdated re-checks the current month against a changed budget, so
// lowering the budget below the month's spending raises an alert too.
func (n *BudgetAlertNotifier) onSettingsUpdated(e event_bus.EventT[event_bus.SettingsUpdated]) error {
	if e.Data.Ceiling == e.Data.PreviousCeiling {
		return nil
	}
	ctx := e.Context()

	current, ok, err := n.eventUser(ctx, e.Data.UserId)
	if err != nil || !ok {
		return err
	}
	store, err := n.registry.ForUser(ctx, e.Data.UserId)
	if err != nil {
		return err
	}

	now := n.clock.Now()
	year, month, _ := now.Date()
	spent := finance.MonthExpenses(store.Transactions(), year, month)
	before := finance.BudgetUsage(spent, e.Data.PreviousCeiling)
	after := finance.BudgetUsage(spent, e.Data.Ceiling)
	return n.notifyOnRise(ctx, current, before, after, e.Data.Ceiling, now)
}

// eventUser returns the user in ctx when they own the event and have budget
// alerts enabled.
func (n *BudgetAlertNotifier) eventUser(ctx context.Context, eventUserId int) (user.User, bool, error) {
	current, err := user.CurrentUser(ctx)
	if err != nil {
		return user.User{}, false, fmt.Errorf("failed to get current user: %w", err)
	}
	if current.Id != eventUserId {
		log.Warnf("Skipping budget alert: event of user %d published by user %d", eventUserId, current.Id)
		return user.User{}, false, nil
	}
	prefs, err := n.settings.Get(ctx)
	if err != nil {
		return user.User{}, false, err
	}
	return current, prefs.AlertsEnabled(), nil
}

func (n *BudgetAlertNotifier) notifyOnRise(ctx context.Context, current user.User, before, after finance.Summary, ceiling float64, now time.Time) error {
	alertBefore := finance.BudgetAlertFor(before)
	alertAfter := finance.BudgetAlertFor(after)
	if alertAfter.Level.Severity() <= alertBefore.Level.Severity() {
		return nil
	}

	log.Debugf("Budget alert for user %d raised from %s to %s", current.Id, alertBefore.Level, alertAfter.Level)
	msg := NewBudgetAlertMessage(current.Uid, alertAfter, after, ceiling, now)
	return n.publisher.PublishBudgetAlert(ctx, msg)
}
