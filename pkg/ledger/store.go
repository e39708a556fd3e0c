// Package ledger keeps an in-memory snapshot of one user's transactions in
// sync with the transaction repository and serves the derived views from it.
package ledger

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klokku/moneypro/internal/clock"
	"github.com/klokku/moneypro/internal/event_bus"
	"github.com/klokku/moneypro/pkg/finance"
	"github.com/klokku/moneypro/pkg/transaction"
	log "github.com/sirupsen/logrus"
)

type viewsKey struct {
	year    int
	month   time.Month
	ceiling float64
	palette finance.Palette
}

func (k viewsKey) matches(now time.Time, ceiling float64, palette finance.Palette) bool {
	year, month, _ := now.Date()
	return k.year == year && k.month == month && k.ceiling == ceiling && maps.Equal(k.palette, palette)
}

// Store is the snapshot of a single user's ledger. Operations are serialised:
// the lock is held across repository calls, so a mutation is visible to the
// next operation only once the repository accepted it.
type Store struct {
	mu           sync.Mutex
	userId       int
	repo         transaction.Repository
	eventBus     *event_bus.EventBus
	transactions []transaction.Transaction
	loaded       bool

	dirty        bool
	cacheKey     viewsKey
	cached       finance.Views
	computations int
}

func NewStore(userId int, repo transaction.Repository, eventBus *event_bus.EventBus) *Store {
	return &Store{
		userId:       userId,
		repo:         repo,
		eventBus:     eventBus,
		transactions: make([]transaction.Transaction, 0),
		dirty:        true,
	}
}

func (s *Store) UserId() int {
	return s.userId
}

// Load replaces the snapshot with every transaction of the user, newest first.
// On failure the previous snapshot is kept.
func (s *Store) Load(ctx context.Context) ([]transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(s.transactions), nil
}

func (s *Store) load(ctx context.Context) error {
	transactions, err := s.repo.ListAll(ctx, s.userId)
	if err != nil {
		err := &FetchError{UserId: s.userId, Err: err}
		log.Error(err)
		return err
	}
	if transactions == nil {
		transactions = make([]transaction.Transaction, 0)
	}
	s.transactions = transactions
	s.loaded = true
	s.dirty = true
	return nil
}

func (s *Store) ensureLoaded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	return s.load(ctx)
}

// Append validates t, assigns an id when it has none, persists it and puts it
// at the front of the snapshot.
func (s *Store) Append(ctx context.Context, t transaction.Transaction) (transaction.Transaction, error) {
	if err := t.Validate(); err != nil {
		return transaction.Transaction{}, &ValidationError{Err: err}
	}
	if t.Id == "" {
		t.Id = uuid.NewString()
	}
	t.Date = clock.Date(t.Date)

	s.mu.Lock()
	year, month, _ := t.Date.Date()
	monthExpensesBefore := finance.MonthExpenses(s.transactions, year, month)
	stored, err := s.repo.Store(ctx, s.userId, t)
	if err != nil {
		s.mu.Unlock()
		err := &WriteError{Op: opAppend, TransactionId: t.Id, Err: err}
		log.Error(err)
		return transaction.Transaction{}, err
	}
	s.transactions = slices.Insert(s.transactions, 0, stored)
	s.dirty = true
	s.mu.Unlock()

	s.publish(ctx, event_bus.TransactionAddedEvent, event_bus.TransactionAdded{
		UserId:        s.userId,
		TransactionId: stored.Id,
		Type:          string(stored.Type),
		Category:      stored.Category,
		Value:         stored.Value,
		Date:          stored.Date,

		MonthExpensesBefore: monthExpensesBefore,
	})
	return stored, nil
}

// Remove deletes the transaction with the given id. An id the repository does
// not know for this user fails with a WriteError wrapping
// transaction.ErrTransactionNotFound and leaves the snapshot untouched.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	deleted, err := s.repo.Delete(ctx, s.userId, id)
	if err == nil && !deleted {
		err = transaction.ErrTransactionNotFound
	}
	if err != nil {
		s.mu.Unlock()
		err := &WriteError{Op: opRemove, TransactionId: id, Err: err}
		log.Error(err)
		return err
	}
	s.transactions = slices.DeleteFunc(s.transactions, func(t transaction.Transaction) bool { return t.Id == id })
	s.dirty = true
	s.mu.Unlock()
	return nil
}

// Transactions returns a copy of the snapshot, newest first.
func (s *Store) Transactions() []transaction.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.transactions)
}

// Views returns the derived views of the snapshot. They are recomputed only
// after a mutation or when one of the inputs changed since the last call.
func (s *Store) Views(now time.Time, budgetCeiling float64, palette finance.Palette) finance.Views {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views(now, budgetCeiling, palette)
}

// Snapshot returns the transactions together with the views derived from
// them. Both are read under one lock, so they describe the same ledger state.
func (s *Store) Snapshot(now time.Time, budgetCeiling float64, palette finance.Palette) ([]transaction.Transaction, finance.Views) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.transactions), s.views(now, budgetCeiling, palette)
}

func (s *Store) views(now time.Time, budgetCeiling float64, palette finance.Palette) finance.Views {
	if !s.dirty && s.cacheKey.matches(now, budgetCeiling, palette) {
		return cloneViews(s.cached)
	}

	s.cached = finance.Compute(s.transactions, now, budgetCeiling, palette)
	year, month, _ := now.Date()
	s.cacheKey = viewsKey{year: year, month: month, ceiling: budgetCeiling, palette: maps.Clone(palette)}
	s.dirty = false
	s.computations++
	return cloneViews(s.cached)
}

func cloneViews(v finance.Views) finance.Views {
	v.Categories = slices.Clone(v.Categories)
	return v
}

func (s *Store) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Errorf("failed to publish %s for user %d: %v", eventType, s.userId, err)
	}
}
