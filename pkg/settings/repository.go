package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const uniqueViolation = "23505"

type Repository interface {
	// Get reports false when the user has no stored settings yet.
	Get(ctx context.Context, userId int) (Settings, bool, error)
	Upsert(ctx context.Context, userId int, s Settings) (Settings, error)

	ListCategoryBudgets(ctx context.Context, userId int) ([]CategoryBudget, error)
	StoreCategoryBudget(ctx context.Context, userId int, b CategoryBudget) (CategoryBudget, error)
	UpdateCategoryBudget(ctx context.Context, userId int, b CategoryBudget) (bool, error)
	DeleteCategoryBudget(ctx context.Context, userId int, id int) (bool, error)

	ListCustomCategories(ctx context.Context, userId int) ([]CustomCategory, error)
	StoreCustomCategory(ctx context.Context, userId int, c CustomCategory) (CustomCategory, error)
	UpdateCustomCategory(ctx context.Context, userId int, c CustomCategory) (bool, error)
	DeleteCustomCategory(ctx context.Context, userId int, id int) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Get(ctx context.Context, userId int) (Settings, bool, error) {
	query := `SELECT monthly_budget, notifications_enabled, budget_alerts_enabled, reminder_enabled
			  FROM user_settings
			  WHERE user_id = $1`
	var s Settings
	err := r.db.QueryRow(ctx, query, userId).Scan(
		&s.MonthlyBudget,
		&s.NotificationsEnabled,
		&s.BudgetAlertsEnabled,
		&s.ReminderEnabled,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Settings{}, false, nil
	}
	if err != nil {
		err := fmt.Errorf("could not get settings: %w", err)
		log.Error(err)
		return Settings{}, false, err
	}
	return s, true, nil
}

func (r *RepositoryImpl) Upsert(ctx context.Context, userId int, s Settings) (Settings, error) {
	query := `INSERT INTO user_settings (user_id, monthly_budget, notifications_enabled, budget_alerts_enabled, reminder_enabled)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (user_id) DO UPDATE SET
			      monthly_budget = EXCLUDED.monthly_budget,
			      notifications_enabled = EXCLUDED.notifications_enabled,
			      budget_alerts_enabled = EXCLUDED.budget_alerts_enabled,
			      reminder_enabled = EXCLUDED.reminder_enabled`
	_, err := r.db.Exec(ctx, query, userId, s.MonthlyBudget, s.NotificationsEnabled, s.BudgetAlertsEnabled, s.ReminderEnabled)
	if err != nil {
		err := fmt.Errorf("could not store settings: %w", err)
		log.Error(err)
		return Settings{}, err
	}
	return s, nil
}

func (r *RepositoryImpl) ListCategoryBudgets(ctx context.Context, userId int) ([]CategoryBudget, error) {
	query := `SELECT id, category_name, budget_limit FROM category_budgets WHERE user_id = $1 ORDER BY category_name`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query category budgets: %w", err)
		log.Error(err)
		return nil, err
	}
	budgets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (CategoryBudget, error) {
		var b CategoryBudget
		err := row.Scan(&b.Id, &b.CategoryName, &b.BudgetLimit)
		return b, err
	})
	if err != nil {
		err := fmt.Errorf("error scanning category budgets: %w", err)
		log.Error(err)
		return nil, err
	}
	return budgets, nil
}

func (r *RepositoryImpl) StoreCategoryBudget(ctx context.Context, userId int, b CategoryBudget) (CategoryBudget, error) {
	query := `INSERT INTO category_budgets (user_id, category_name, budget_limit) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRow(ctx, query, userId, b.CategoryName, b.BudgetLimit).Scan(&b.Id)
	if err != nil {
		return CategoryBudget{}, storeError("category budget", err)
	}
	return b, nil
}

func (r *RepositoryImpl) UpdateCategoryBudget(ctx context.Context, userId int, b CategoryBudget) (bool, error) {
	query := `UPDATE category_budgets SET category_name = $1, budget_limit = $2 WHERE id = $3 AND user_id = $4`
	result, err := r.db.Exec(ctx, query, b.CategoryName, b.BudgetLimit, b.Id, userId)
	if err != nil {
		return false, storeError("category budget", err)
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) DeleteCategoryBudget(ctx context.Context, userId int, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM category_budgets WHERE id = $1 AND user_id = $2`, id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete category budget: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) ListCustomCategories(ctx context.Context, userId int) ([]CustomCategory, error) {
	query := `SELECT id, name, color FROM custom_categories WHERE user_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query custom categories: %w", err)
		log.Error(err)
		return nil, err
	}
	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (CustomCategory, error) {
		var c CustomCategory
		err := row.Scan(&c.Id, &c.Name, &c.Color)
		return c, err
	})
	if err != nil {
		err := fmt.Errorf("error scanning custom categories: %w", err)
		log.Error(err)
		return nil, err
	}
	return categories, nil
}

func (r *RepositoryImpl) StoreCustomCategory(ctx context.Context, userId int, c CustomCategory) (CustomCategory, error) {
	query := `INSERT INTO custom_categories (user_id, name, color) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRow(ctx, query, userId, c.Name, c.Color).Scan(&c.Id)
	if err != nil {
		return CustomCategory{}, storeError("custom category", err)
	}
	return c, nil
}

func (r *RepositoryImpl) UpdateCustomCategory(ctx context.Context, userId int, c CustomCategory) (bool, error) {
	query := `UPDATE custom_categories SET name = $1, color = $2 WHERE id = $3 AND user_id = $4`
	result, err := r.db.Exec(ctx, query, c.Name, c.Color, c.Id, userId)
	if err != nil {
		return false, storeError("custom category", err)
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) DeleteCustomCategory(ctx context.Context, userId int, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM custom_categories WHERE id = $1 AND user_id = $2`, id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete custom category: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

// storeError maps a unique violation to ErrAlreadyExists.
func storeError(entity string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", entity, ErrAlreadyExists)
	}
	err = fmt.Errorf("could not store %s: %w", entity, err)
	log.Error(err)
	return err
}
