package transaction

import (
	"context"
	"sort"
	"sync"
)

// RepositoryStub keeps transactions in memory, per user. Errors set on the
// stub are returned by the next calls of the matching operation.
type RepositoryStub struct {
	mu          sync.Mutex
	byUser      map[int][]Transaction
	ListErr     error
	StoreErr    error
	DeleteErr   error
	ListCalls   int
	StoreCalls  int
	DeleteCalls int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{byUser: map[int][]Transaction{}}
}

func (s *RepositoryStub) ListAll(ctx context.Context, userId int) ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	result := make([]Transaction, len(s.byUser[userId]))
	copy(result, s.byUser[userId])
	sort.SliceStable(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	return result, nil
}

func (s *RepositoryStub) Store(ctx context.Context, userId int, t Transaction) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StoreCalls++
	if s.StoreErr != nil {
		return Transaction{}, s.StoreErr
	}
	for _, existing := range s.byUser[userId] {
		if existing.Id == t.Id {
			return Transaction{}, ErrTransactionExists
		}
	}
	s.byUser[userId] = append([]Transaction{t}, s.byUser[userId]...)
	return t, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, userId int, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeleteCalls++
	if s.DeleteErr != nil {
		return false, s.DeleteErr
	}
	for i, t := range s.byUser[userId] {
		if t.Id == id {
			s.byUser[userId] = append(s.byUser[userId][:i], s.byUser[userId][i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Seed stores transactions for a user without counting calls.
func (s *RepositoryStub) Seed(userId int, transactions ...Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[userId] = append(s.byUser[userId], transactions...)
}

func (s *RepositoryStub) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser = map[int][]Transaction{}
	s.ListErr, s.StoreErr, s.DeleteErr = nil, nil, nil
	s.ListCalls, s.StoreCalls, s.DeleteCalls = 0, 0, 0
}
