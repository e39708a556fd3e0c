package transaction

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	Income  Type = "income"
	Expense Type = "expense"
)

const DateLayout = "2006-01-02"

// Transaction is a single recorded financial event. Value is never negative,
// the direction is carried by Type.
type Transaction struct {
	Id          string
	Type        Type
	Description string
	Category    string
	Value       float64
	// Date is a calendar date at midnight UTC.
	Date time.Time
}

func (t Type) Valid() bool {
	return t == Income || t == Expense
}

// FieldError describes a single failed shape check.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

var ErrInvalidTransaction = errors.New("invalid transaction")

// Validate runs the shape checks required before a transaction is stored.
func (t Transaction) Validate() error {
	var problems []error
	if t.Id != "" && !validId(t.Id) {
		problems = append(problems, FieldError{"id", "must be a UUID"})
	}
	if !t.Type.Valid() {
		problems = append(problems, FieldError{"type", fmt.Sprintf("must be %q or %q", Income, Expense)})
	}
	if strings.TrimSpace(t.Description) == "" {
		problems = append(problems, FieldError{"description", "must not be empty"})
	}
	if strings.TrimSpace(t.Category) == "" {
		problems = append(problems, FieldError{"category", "must not be empty"})
	}
	if t.Value < 0 || math.IsNaN(t.Value) || math.IsInf(t.Value, 0) {
		problems = append(problems, FieldError{"value", "must be a non-negative number"})
	}
	if t.Date.IsZero() {
		problems = append(problems, FieldError{"date", "must be a valid date"})
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidTransaction, errors.Join(problems...))
}

// validId accepts only the canonical 36 character UUID form.
func validId(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}
