package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransactionExists   = errors.New("transaction already exists")
)

const uniqueViolation = "23505"

type Repository interface {
	// ListAll returns every transaction of the user ordered by date descending.
	ListAll(ctx context.Context, userId int) ([]Transaction, error)
	Store(ctx context.Context, userId int, t Transaction) (Transaction, error)
	// Delete reports false when no row of the user had the given id.
	Delete(ctx context.Context, userId int, id string) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) ListAll(ctx context.Context, userId int) ([]Transaction, error) {
	query := `SELECT id, type, description, category, value, date
			  FROM transactions
			  WHERE user_id = $1
			  ORDER BY date DESC, created_at DESC`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	transactions := make([]Transaction, 0)
	for rows.Next() {
		var t Transaction
		var txType string
		if err := rows.Scan(&t.Id, &txType, &t.Description, &t.Category, &t.Value, &t.Date); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		t.Type = Type(txType)
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return transactions, nil
}

func (r *RepositoryImpl) Store(ctx context.Context, userId int, t Transaction) (Transaction, error) {
	query := `INSERT INTO transactions (id, user_id, type, description, category, value, date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		t.Id,
		userId,
		string(t.Type),
		t.Description,
		t.Category,
		t.Value,
		t.Date,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Transaction{}, fmt.Errorf("transaction %s: %w", t.Id, ErrTransactionExists)
		}
		err := fmt.Errorf("could not store transaction: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	return t, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userId int, id string) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userId)
	if err != nil {
		err := fmt.Errorf("could not delete transaction: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}
