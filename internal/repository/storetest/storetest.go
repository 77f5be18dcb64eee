// Package storetest holds the behaviour every repository.Store backend must share.
package storetest

import (
	"context"
	"time"

	"fin-ledger/internal/models"
	"fin-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// Suite is embedded by backend tests. Open is called before each test and must return an empty store.
type Suite struct {
	suite.Suite
	Open  func() (*repository.Store, func())
	store *repository.Store
	close func()
	ctx   context.Context
}

func (s *Suite) SetupTest() {
	s.ctx = context.Background()
	s.store, s.close = s.Open()
}

func (s *Suite) TearDownTest() {
	if s.close != nil {
		s.close()
	}
}

func at(day int) time.Time {
	return time.Date(2024, time.March, day, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) newTransaction(owner, category uuid.UUID, amount string, day int) *models.Transaction {
	tx := &models.Transaction{
		ID:          uuid.New(),
		OwnerID:     owner,
		Amount:      decimal.RequireFromString(amount),
		Kind:        models.KindExpense,
		Date:        at(day),
		Description: "groceries",
		CategoryID:  category,
		CreatedAt:   at(day),
		UpdatedAt:   at(day),
	}
	s.Require().NoError(s.store.Transactions.Create(s.ctx, tx))
	return tx
}

func (s *Suite) TestUserRoundTrip() {
	u := &models.User{
		ID:        uuid.New(),
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "hash",
		Name:      "Alice",
		CreatedAt: at(1),
		UpdatedAt: at(1),
	}
	s.Require().NoError(s.store.Users.Create(s.ctx, u))

	got, err := s.store.Users.GetByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, got.ID)
	s.Nil(got.AverageIncome)

	income := decimal.RequireFromString("4200.50")
	s.Require().NoError(s.store.Users.UpdateAverageIncome(s.ctx, u.ID, &income))

	got, err = s.store.Users.GetByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.AverageIncome)
	s.True(income.Equal(*got.AverageIncome))

	_, err = s.store.Users.GetByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, repository.ErrNotFound)
	s.ErrorIs(s.store.Users.UpdateAverageIncome(s.ctx, uuid.New(), &income), repository.ErrNotFound)
}

func (s *Suite) TestCategoryVisibility() {
	alice, bob := uuid.New(), uuid.New()

	global := &models.Category{ID: uuid.New(), Name: "Food", CreatedAt: at(1)}
	mine := &models.Category{ID: uuid.New(), Name: "Hobby", OwnerID: &alice, CreatedAt: at(1)}
	theirs := &models.Category{ID: uuid.New(), Name: "Cars", OwnerID: &bob, CreatedAt: at(1)}
	for _, c := range []*models.Category{global, mine, theirs} {
		s.Require().NoError(s.store.Categories.Create(s.ctx, c))
	}

	visible, err := s.store.Categories.ListVisible(s.ctx, alice)
	s.Require().NoError(err)
	s.Require().Len(visible, 2)
	s.Equal(global.ID, visible[0].ID)
	s.Nil(visible[0].OwnerID)
	s.Equal(mine.ID, visible[1].ID)
	s.Require().NotNil(visible[1].OwnerID)
	s.Equal(alice, *visible[1].OwnerID)

	globals, err := s.store.Categories.ListGlobal(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(globals, 1)
	s.Equal("Food", globals[0].Name)

	s.Require().NoError(s.store.Categories.Delete(s.ctx, mine.ID))
	_, err = s.store.Categories.GetByID(s.ctx, mine.ID)
	s.ErrorIs(err, repository.ErrNotFound)
	s.ErrorIs(s.store.Categories.Delete(s.ctx, mine.ID), repository.ErrNotFound)
}

func (s *Suite) TestTransactionLifecycle() {
	owner, category := uuid.New(), uuid.New()
	tx := s.newTransaction(owner, category, "12.34", 5)

	got, err := s.store.Transactions.GetByID(s.ctx, tx.ID)
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("12.34").Equal(got.Amount))
	s.Equal(models.KindExpense, got.Kind)
	s.True(tx.Date.Equal(got.Date))
	s.Equal(category, got.CategoryID)

	got.Amount = decimal.RequireFromString("99.99")
	got.Kind = models.KindIncome
	got.Description = "refund"
	got.UpdatedAt = at(6)
	s.Require().NoError(s.store.Transactions.Update(s.ctx, got))

	updated, err := s.store.Transactions.GetByID(s.ctx, tx.ID)
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("99.99").Equal(updated.Amount))
	s.Equal(models.KindIncome, updated.Kind)
	s.Equal("refund", updated.Description)
	s.Equal(owner, updated.OwnerID)

	s.Require().NoError(s.store.Transactions.Delete(s.ctx, tx.ID))
	_, err = s.store.Transactions.GetByID(s.ctx, tx.ID)
	s.ErrorIs(err, repository.ErrNotFound)
	s.ErrorIs(s.store.Transactions.Delete(s.ctx, tx.ID), repository.ErrNotFound)
	s.ErrorIs(s.store.Transactions.Update(s.ctx, tx), repository.ErrNotFound)
}

func (s *Suite) TestAmountsKeepFullPrecision() {
	owner, category := uuid.New(), uuid.New()
	for _, amount := range []string{"10.005", "1000000000000.125", "0.0001"} {
		tx := s.newTransaction(owner, category, amount, 7)

		got, err := s.store.Transactions.GetByID(s.ctx, tx.ID)
		s.Require().NoError(err)
		s.True(tx.Amount.Equal(got.Amount), "stored %s, read back %s", amount, got.Amount)
	}

	u := &models.User{
		ID:        uuid.New(),
		Username:  "carol",
		Email:     "carol@example.com",
		Password:  "hash",
		CreatedAt: at(1),
		UpdatedAt: at(1),
	}
	income := decimal.RequireFromString("3333.333")
	u.AverageIncome = &income
	s.Require().NoError(s.store.Users.Create(s.ctx, u))

	got, err := s.store.Users.GetByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.AverageIncome)
	s.True(income.Equal(*got.AverageIncome))
}

func (s *Suite) TestTransactionsListedPerOwnerNewestFirst() {
	alice, bob, category := uuid.New(), uuid.New(), uuid.New()
	s.newTransaction(alice, category, "1", 3)
	latest := s.newTransaction(alice, category, "2", 20)
	s.newTransaction(alice, category, "3", 10)
	s.newTransaction(bob, category, "4", 11)

	list, err := s.store.Transactions.ListByOwner(s.ctx, alice)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal(latest.ID, list[0].ID)
	for _, tx := range list {
		s.Equal(alice, tx.OwnerID)
	}

	none, err := s.store.Transactions.ListByOwner(s.ctx, uuid.New())
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *Suite) TestSuggestionsNewestFirst() {
	owner := uuid.New()
	for i, day := range []int{1, 3, 2} {
		s.Require().NoError(s.store.Suggestions.Create(s.ctx, &models.Suggestion{
			ID:        uuid.New(),
			OwnerID:   owner,
			Prompt:    "prompt",
			Response:  []string{"first", "third", "second"}[i],
			CreatedAt: at(day),
		}))
	}
	s.Require().NoError(s.store.Suggestions.Create(s.ctx, &models.Suggestion{
		ID: uuid.New(), OwnerID: uuid.New(), Prompt: "p", Response: "other", CreatedAt: at(9),
	}))

	list, err := s.store.Suggestions.ListByOwner(s.ctx, owner)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal("third", list[0].Response)
	s.Equal("second", list[1].Response)
	s.Equal("first", list[2].Response)
}
