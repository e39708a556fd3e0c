package settings

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

var (
	ErrInvalidSettings = errors.New("invalid settings")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
)

// Settings are the per-user preferences. A nil MonthlyBudget means the
// configured default applies.
type Settings struct {
	MonthlyBudget        *float64
	NotificationsEnabled bool
	BudgetAlertsEnabled  bool
	ReminderEnabled      bool
}

func Defaults() Settings {
	return Settings{
		MonthlyBudget:        nil,
		NotificationsEnabled: true,
		BudgetAlertsEnabled:  true,
		ReminderEnabled:      false,
	}
}

// AlertsEnabled reports whether budget alerts may be sent to the user.
func (s Settings) AlertsEnabled() bool {
	return s.NotificationsEnabled && s.BudgetAlertsEnabled
}

type CategoryBudget struct {
	Id           int
	CategoryName string
	BudgetLimit  float64
}

type CustomCategory struct {
	Id    int
	Name  string
	Color string
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func (s Settings) Validate() error {
	if s.MonthlyBudget != nil && !validAmount(*s.MonthlyBudget) {
		return fmt.Errorf("%w: monthly budget must be a non-negative number", ErrInvalidSettings)
	}
	return nil
}

func (b CategoryBudget) Validate() error {
	if strings.TrimSpace(b.CategoryName) == "" {
		return fmt.Errorf("%w: category name must not be empty", ErrInvalidSettings)
	}
	if !validAmount(b.BudgetLimit) {
		return fmt.Errorf("%w: budget limit must be a non-negative number", ErrInvalidSettings)
	}
	return nil
}

func (c CustomCategory) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: category name must not be empty", ErrInvalidSettings)
	}
	if !colorPattern.MatchString(c.Color) {
		return fmt.Errorf("%w: color must be formatted as #RRGGBB", ErrInvalidSettings)
	}
	return nil
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
