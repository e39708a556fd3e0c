package transaction

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransaction() Transaction {
	return Transaction{
		Id:          "0b6f7c1e-3c52-4c4e-9f3a-2f1d5b7a9e10",
		Type:        Expense,
		Description: "Supermercado Extra",
		Category:    "Alimentação",
		Value:       450,
		Date:        time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Transaction)
		field  string
	}{
		{"id not a uuid", func(t *Transaction) { t.Id = "abc" }, "id"},
		{"id longer than a uuid", func(t *Transaction) { t.Id = "{0b6f7c1e-3c52-4c4e-9f3a-2f1d5b7a9e10}" }, "id"},
		{"unknown type", func(t *Transaction) { t.Type = "transfer" }, "type"},
		{"blank description", func(t *Transaction) { t.Description = "   " }, "description"},
		{"empty category", func(t *Transaction) { t.Category = "" }, "category"},
		{"negative value", func(t *Transaction) { t.Value = -0.01 }, "value"},
		{"NaN value", func(t *Transaction) { t.Value = math.NaN() }, "value"},
		{"missing date", func(t *Transaction) { t.Date = time.Time{} }, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := validTransaction()
			tt.modify(&txn)

			err := txn.Validate()

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTransaction)
			var fieldErr FieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}

	t.Run("valid transaction", func(t *testing.T) {
		assert.NoError(t, validTransaction().Validate())
	})

	t.Run("empty id is accepted", func(t *testing.T) {
		txn := validTransaction()
		txn.Id = ""
		assert.NoError(t, txn.Validate())
	})

	t.Run("zero value is accepted", func(t *testing.T) {
		txn := validTransaction()
		txn.Value = 0
		assert.NoError(t, txn.Validate())
	})
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-11-30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.November, 30, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("30/11/2024")
	assert.Error(t, err)
}
