package app

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/moneypro/internal/amqp"
	"github.com/klokku/moneypro/internal/clock"
	"github.com/klokku/moneypro/internal/config"
	"github.com/klokku/moneypro/internal/event_bus"
	"github.com/klokku/moneypro/pkg/dashboard"
	"github.com/klokku/moneypro/pkg/ledger"
	"github.com/klokku/moneypro/pkg/notification"
	"github.com/klokku/moneypro/pkg/session"
	"github.com/klokku/moneypro/pkg/settings"
	"github.com/klokku/moneypro/pkg/transaction"
	"github.com/klokku/moneypro/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    clock.Clock
	EventBus *event_bus.EventBus

	UserService user.Service
	UserHandler *user.Handler

	SessionRepo    session.Repository
	SessionService session.Service
	SessionHandler *session.Handler

	TransactionRepo transaction.Repository
	LedgerRegistry  *ledger.Registry
	LedgerHandler   *ledger.Handler

	SettingsService *settings.ServiceImpl
	SettingsHandler *settings.Handler

	DashboardService   *dashboard.ServiceImpl
	CsvMonthlyRenderer *dashboard.CsvMonthlyRendererImpl
	DashboardHandler   *dashboard.Handler

	AmqpClient          *amqp.Client
	BudgetAlertNotifier *notification.BudgetAlertNotifier
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Clock = clock.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.TransactionRepo = transaction.NewRepository(db)
	deps.LedgerRegistry = ledger.NewRegistry(deps.TransactionRepo, deps.EventBus)
	deps.LedgerHandler = ledger.NewHandler(deps.LedgerRegistry)

	deps.SessionRepo = session.NewRepository(db)
	deps.SessionService = session.NewService(deps.SessionRepo, deps.UserService, deps.Clock, cfg.Session.TTL)
	deps.SessionHandler = session.NewHandler(deps.SessionService, deps.LedgerRegistry.Discard)

	deps.SettingsService = settings.NewService(settings.NewRepository(db), deps.EventBus, cfg.Finance.MonthlyBudget)
	deps.SettingsHandler = settings.NewHandler(deps.SettingsService)

	deps.DashboardService = dashboard.NewService(deps.LedgerRegistry, deps.SettingsService, deps.Clock)
	deps.CsvMonthlyRenderer = dashboard.NewCsvMonthlyRenderer()
	deps.DashboardHandler = dashboard.NewHandler(deps.DashboardService, deps.CsvMonthlyRenderer)

	var publisher notification.Publisher = notification.LogPublisher{}
	if cfg.Amqp.Enabled {
		client, err := amqp.NewClient(cfg.Amqp.URL, cfg.Amqp.Exchange)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to message broker: %w", err)
		}
		deps.AmqpClient = client
		publisher = notification.NewAmqpPublisher(client)
		log.Infof("Budget alerts are published to exchange %s", cfg.Amqp.Exchange)
	}
	deps.BudgetAlertNotifier = notification.NewBudgetAlertNotifier(deps.LedgerRegistry, deps.SettingsService, publisher, deps.Clock)
	deps.BudgetAlertNotifier.Subscribe(deps.EventBus)

	return deps, nil
}

// Close releases connections held by the dependencies.
func (d *Dependencies) Close() {
	if d.AmqpClient != nil {
		if err := d.AmqpClient.Close(); err != nil {
			log.Errorf("failed to close message broker connection: %v", err)
		}
	}
}
