package dashboard

import (
	"context"

	"github.com/klokku/moneypro/internal/clock"
	"github.com/klokku/moneypro/pkg/finance"
	"github.com/klokku/moneypro/pkg/ledger"
	"github.com/klokku/moneypro/pkg/settings"
	"golang.org/x/sync/errgroup"
)

type Service interface {
	GetDashboard(ctx context.Context) (Dashboard, error)
}

type ServiceImpl struct {
	registry *ledger.Registry
	settings settings.Service
	clock    clock.Clock
}

func NewService(registry *ledger.Registry, settingsService settings.Service, clock clock.Clock) *ServiceImpl {
	return &ServiceImpl{registry: registry, settings: settingsService, clock: clock}
}

func (s *ServiceImpl) GetDashboard(ctx context.Context) (Dashboard, error) {
	var (
		store   *ledger.Store
		ceiling float64
		palette finance.Palette
		limits  map[string]float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		store, err = s.registry.Get(gctx)
		return err
	})
	g.Go(func() (err error) {
		ceiling, err = s.settings.BudgetCeiling(gctx)
		return err
	})
	g.Go(func() (err error) {
		palette, err = s.settings.Palette(gctx)
		return err
	})
	g.Go(func() (err error) {
		limits, err = s.settings.CategoryBudgetLimits(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	now := s.clock.Now()
	transactions, views := store.Snapshot(now, ceiling, palette)

	return Dashboard{
		Summary:         views.Summary,
		Categories:      views.Categories,
		Monthly:         views.Monthly,
		Alert:           finance.BudgetAlertFor(views.Summary),
		Progress:        finance.ProgressFor(views.Summary),
		Insights:        finance.Insights(transactions, views.Categories, views.Summary, now),
		CategoryBudgets: finance.CategoryBudgetUsage(views.Categories, limits),
		BudgetCeiling:   ceiling,
		Transactions:    transactions,
	}, nil
}
