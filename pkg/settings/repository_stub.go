package settings

import (
	"context"
	"slices"
	"strings"
	"sync"
)

type RepositoryStub struct {
	mu               sync.Mutex
	nextId           int
	settings         map[int]Settings
	categoryBudgets  map[int][]CategoryBudget
	customCategories map[int][]CustomCategory
	GetErr           error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		settings:         map[int]Settings{},
		categoryBudgets:  map[int][]CategoryBudget{},
		customCategories: map[int][]CustomCategory{},
	}
}

func (s *RepositoryStub) Get(ctx context.Context, userId int) (Settings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return Settings{}, false, s.GetErr
	}
	stored, ok := s.settings[userId]
	return stored, ok, nil
}

func (s *RepositoryStub) Upsert(ctx context.Context, userId int, settings Settings) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[userId] = settings
	return settings, nil
}

func (s *RepositoryStub) ListCategoryBudgets(ctx context.Context, userId int) ([]CategoryBudget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	budgets := slices.Clone(s.categoryBudgets[userId])
	slices.SortFunc(budgets, func(a, b CategoryBudget) int { return strings.Compare(a.CategoryName, b.CategoryName) })
	if budgets == nil {
		budgets = []CategoryBudget{}
	}
	return budgets, nil
}

func (s *RepositoryStub) StoreCategoryBudget(ctx context.Context, userId int, b CategoryBudget) (CategoryBudget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categoryBudgets[userId] {
		if existing.CategoryName == b.CategoryName {
			return CategoryBudget{}, ErrAlreadyExists
		}
	}
	s.nextId++
	b.Id = s.nextId
	s.categoryBudgets[userId] = append(s.categoryBudgets[userId], b)
	return b, nil
}

func (s *RepositoryStub) UpdateCategoryBudget(ctx context.Context, userId int, b CategoryBudget) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.categoryBudgets[userId] {
		if existing.Id == b.Id {
			s.categoryBudgets[userId][i] = b
			return true, nil
		}
	}
	return false, nil
}

func (s *RepositoryStub) DeleteCategoryBudget(ctx context.Context, userId int, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.categoryBudgets[userId])
	s.categoryBudgets[userId] = slices.DeleteFunc(s.categoryBudgets[userId], func(b CategoryBudget) bool { return b.Id == id })
	return len(s.categoryBudgets[userId]) < before, nil
}

func (s *RepositoryStub) ListCustomCategories(ctx context.Context, userId int) ([]CustomCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	categories := slices.Clone(s.customCategories[userId])
	slices.SortFunc(categories, func(a, b CustomCategory) int { return strings.Compare(a.Name, b.Name) })
	if categories == nil {
		categories = []CustomCategory{}
	}
	return categories, nil
}

func (s *RepositoryStub) StoreCustomCategory(ctx context.Context, userId int, c CustomCategory) (CustomCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.customCategories[userId] {
		if existing.Name == c.Name {
			return CustomCategory{}, ErrAlreadyExists
		}
	}
	s.nextId++
	c.Id = s.nextId
	s.customCategories[userId] = append(s.customCategories[userId], c)
	return c, nil
}

func (s *RepositoryStub) UpdateCustomCategory(ctx context.Context, userId int, c CustomCategory) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.customCategories[userId] {
		if existing.Id == c.Id {
			s.customCategories[userId][i] = c
			return true, nil
		}
	}
	return false, nil
}

func (s *RepositoryStub) DeleteCustomCategory(ctx context.Context, userId int, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.customCategories[userId])
	s.customCategories[userId] = slices.DeleteFunc(s.customCategories[userId], func(c CustomCategory) bool { return c.Id == id })
	return len(s.customCategories[userId]) < before, nil
}

func (s *RepositoryStub) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId = 0
	s.settings = map[int]Settings{}
	s.categoryBudgets = map[int][]CategoryBudget{}
	s.customCategories = map[int][]CustomCategory{}
	s.GetErr = nil
}
