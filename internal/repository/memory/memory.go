// Package memory is a process-local backend used by tests and by STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"fin-ledger/internal/models"
	"fin-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type db struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]models.User
	categories   map[uuid.UUID]models.Category
	transactions map[uuid.UUID]models.Transaction
	suggestions  map[uuid.UUID]models.Suggestion
}

// New returns a Store whose collections share one lock.
func New() *repository.Store {
	d := &db{
		users:        make(map[uuid.UUID]models.User),
		categories:   make(map[uuid.UUID]models.Category),
		transactions: make(map[uuid.UUID]models.Transaction),
		suggestions:  make(map[uuid.UUID]models.Suggestion),
	}
	return &repository.Store{
		Users:        &userStore{d},
		Categories:   &categoryStore{d},
		Transactions: &transactionStore{d},
		Suggestions:  &suggestionStore{d},
	}
}

type userStore struct{ *db }

func (s *userStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	return nil
}

func (s *userStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *userStore) UpdateAverageIncome(_ context.Context, id uuid.UUID, income *decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if income != nil {
		v := *income
		income = &v
	}
	u.AverageIncome = income
	s.users[id] = u
	return nil
}

type categoryStore struct{ *db }

func (s *categoryStore) Create(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = *c
	return nil
}

func (s *categoryStore) GetByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s *categoryStore) ListVisible(_ context.Context, ownerID uuid.UUID) ([]*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var global, owned []*models.Category
	for _, c := range s.categories {
		c := c
		switch {
		case c.IsGlobal():
			global = append(global, &c)
		case c.OwnedBy(ownerID):
			owned = append(owned, &c)
		}
	}
	sortCategories(global)
	sortCategories(owned)
	return append(global, owned...), nil
}

func (s *categoryStore) ListGlobal(_ context.Context) ([]*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var global []*models.Category
	for _, c := range s.categories {
		c := c
		if c.IsGlobal() {
			global = append(global, &c)
		}
	}
	sortCategories(global)
	return global, nil
}

func (s *categoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func sortCategories(list []*models.Category) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID.String() < list[j].ID.String()
	})
}

type transactionStore struct{ *db }

func (s *transactionStore) Create(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.ID] = *tx
	return nil
}

func (s *transactionStore) GetByID(_ context.Context, id uuid.UUID) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.transactions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &tx, nil
}

func (s *transactionStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []*models.Transaction
	for _, tx := range s.transactions {
		tx := tx
		if tx.OwnerID == ownerID {
			list = append(list, &tx)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Date.After(list[j].Date)
	})
	return list, nil
}

func (s *transactionStore) Update(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.transactions[tx.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := *tx
	updated.OwnerID = stored.OwnerID
	updated.CreatedAt = stored.CreatedAt
	s.transactions[tx.ID] = updated
	return nil
}

func (s *transactionStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

type suggestionStore struct{ *db }

func (s *suggestionStore) Create(_ context.Context, sg *models.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions[sg.ID] = *sg
	return nil
}

func (s *suggestionStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*models.Suggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []*models.Suggestion
	for _, sg := range s.suggestions {
		sg := sg
		if sg.OwnerID == ownerID {
			list = append(list, &sg)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID.String() > list[j].ID.String()
	})
	return list, nil
}
