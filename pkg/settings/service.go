package settings

import (
	"context"
	"fmt"

	"github.com/klokku/moneypro/internal/event_bus"
	"github.com/klokku/moneypro/pkg/finance"
	"github.com/klokku/moneypro/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Get returns the user's settings, storing the defaults on first access.
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, s Settings) (Settings, error)
	// BudgetCeiling is the user's monthly budget when set and positive, the configured default otherwise.
	BudgetCeiling(ctx context.Context) (float64, error)

	ListCategoryBudgets(ctx context.Context) ([]CategoryBudget, error)
	AddCategoryBudget(ctx context.Context, b CategoryBudget) (CategoryBudget, error)
	UpdateCategoryBudget(ctx context.Context, b CategoryBudget) (CategoryBudget, error)
	DeleteCategoryBudget(ctx context.Context, id int) error
	// CategoryBudgetLimits maps category names to their limits.
	CategoryBudgetLimits(ctx context.Context) (map[string]float64, error)

	ListCustomCategories(ctx context.Context) ([]CustomCategory, error)
	AddCustomCategory(ctx context.Context, c CustomCategory) (CustomCategory, error)
	UpdateCustomCategory(ctx context.Context, c CustomCategory) (CustomCategory, error)
	DeleteCustomCategory(ctx context.Context, id int) error
	// Palette is the default palette extended with the user's custom categories.
	Palette(ctx context.Context) (finance.Palette, error)
}

type ServiceImpl struct {
	repo          Repository
	eventBus      *event_bus.EventBus
	defaultBudget float64
}

func NewService(repo Repository, eventBus *event_bus.EventBus, defaultBudget float64) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus, defaultBudget: defaultBudget}
}

func (s *ServiceImpl) Get(ctx context.Context) (Settings, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get current user: %w", err)
	}
	stored, found, err := s.repo.Get(ctx, userId)
	if err != nil {
		return Settings{}, err
	}
	if found {
		return stored, nil
	}
	log.Debugf("Creating default settings for user %d", userId)
	return s.repo.Upsert(ctx, userId, Defaults())
}

func (s *ServiceImpl) Update(ctx context.Context, settings Settings) (Settings, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	previousCeiling, err := s.BudgetCeiling(ctx)
	if err != nil {
		return Settings{}, err
	}
	updated, err := s.repo.Upsert(ctx, userId, settings)
	if err != nil {
		return Settings{}, err
	}

	if s.eventBus != nil {
		err = s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.SettingsUpdatedEvent, event_bus.SettingsUpdated{
			UserId:          userId,
			PreviousCeiling: previousCeiling,
			Ceiling:         s.ceilingOf(updated),
		}))
		if err != nil {
			log.Errorf("failed to publish settings update for user %d: %v", userId, err)
		}
	}
	return updated, nil
}

func (s *ServiceImpl) BudgetCeiling(ctx context.Context) (float64, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	return s.ceilingOf(current), nil
}

func (s *ServiceImpl) ceilingOf(settings Settings) float64 {
	if settings.MonthlyBudget != nil && *settings.MonthlyBudget > 0 {
		return *settings.MonthlyBudget
	}
	return s.defaultBudget
}

func (s *ServiceImpl) ListCategoryBudgets(ctx context.Context) ([]CategoryBudget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListCategoryBudgets(ctx, userId)
}

func (s *ServiceImpl) AddCategoryBudget(ctx context.Context, b CategoryBudget) (CategoryBudget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return CategoryBudget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := b.Validate(); err != nil {
		return CategoryBudget{}, err
	}
	return s.repo.StoreCategoryBudget(ctx, userId, b)
}

func (s *ServiceImpl) UpdateCategoryBudget(ctx context.Context, b CategoryBudget) (CategoryBudget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return CategoryBudget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := b.Validate(); err != nil {
		return CategoryBudget{}, err
	}
	updated, err := s.repo.UpdateCategoryBudget(ctx, userId, b)
	if err != nil {
		return CategoryBudget{}, err
	}
	if !updated {
		return CategoryBudget{}, fmt.Errorf("category budget %d: %w", b.Id, ErrNotFound)
	}
	return b, nil
}

func (s *ServiceImpl) DeleteCategoryBudget(ctx context.Context, id int) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.DeleteCategoryBudget(ctx, userId, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("category budget %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *ServiceImpl) CategoryBudgetLimits(ctx context.Context) (map[string]float64, error) {
	budgets, err := s.ListCategoryBudgets(ctx)
	if err != nil {
		return nil, err
	}
	limits := make(map[string]float64, len(budgets))
	for _, b := range budgets {
		limits[b.CategoryName] = b.BudgetLimit
	}
	return limits, nil
}

func (s *ServiceImpl) ListCustomCategories(ctx context.Context) ([]CustomCategory, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListCustomCategories(ctx, userId)
}

func (s *ServiceImpl) AddCustomCategory(ctx context.Context, c CustomCategory) (CustomCategory, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return CustomCategory{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := c.Validate(); err != nil {
		return CustomCategory{}, err
	}
	return s.repo.StoreCustomCategory(ctx, userId, c)
}

func (s *ServiceImpl) UpdateCustomCategory(ctx context.Context, c CustomCategory) (CustomCategory, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return CustomCategory{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := c.Validate(); err != nil {
		return CustomCategory{}, err
	}
	updated, err := s.repo.UpdateCustomCategory(ctx, userId, c)
	if err != nil {
		return CustomCategory{}, err
	}
	if !updated {
		return CustomCategory{}, fmt.Errorf("custom category %d: %w", c.Id, ErrNotFound)
	}
	return c, nil
}

func (s *ServiceImpl) DeleteCustomCategory(ctx context.Context, id int) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.DeleteCustomCategory(ctx, userId, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("custom category %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *ServiceImpl) Palette(ctx context.Context) (finance.Palette, error) {
	categories, err := s.ListCustomCategories(ctx)
	if err != nil {
		return nil, err
	}
	custom := make(map[string]string, len(categories))
	for _, c := range categories {
		custom[c.Name] = c.Color
	}
	return finance.DefaultPalette().With(custom), nil
}
