package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/klokku/moneypro/internal/event_bus"
	"github.com/klokku/moneypro/pkg/transaction"
	"github.com/klokku/moneypro/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Registry owns one Store per user. A store is loaded on first use and lives
// until it is discarded.
type Registry struct {
	mu       sync.Mutex
	stores   map[int]*Store
	repo     transaction.Repository
	eventBus *event_bus.EventBus
}

func NewRegistry(repo transaction.Repository, eventBus *event_bus.EventBus) *Registry {
	return &Registry{
		stores:   make(map[int]*Store),
		repo:     repo,
		eventBus: eventBus,
	}
}

// Get returns the loaded store of the user in ctx.
func (r *Registry) Get(ctx context.Context) (*Store, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return r.ForUser(ctx, userId)
}

// ForUser returns the loaded store of userId. A failed first load leaves the
// store unloaded so the next call retries.
func (r *Registry) ForUser(ctx context.Context, userId int) (*Store, error) {
	r.mu.Lock()
	store, ok := r.stores[userId]
	if !ok {
		store = NewStore(userId, r.repo, r.eventBus)
		r.stores[userId] = store
	}
	r.mu.Unlock()

	if err := store.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Discard drops the store of userId, if any.
func (r *Registry) Discard(userId int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stores[userId]; ok {
		log.Debugf("Discarding ledger store of user %d", userId)
		delete(r.stores, userId)
	}
}
