package service

import (
	"errors"
	"testing"
	"time"

	"fin-ledger/internal/events"
	"fin-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTransaction_Validation(t *testing.T) {
	f := newFixture(t)
	bobsCategory := f.category(t, f.bob, "Bob only")

	valid := func() TransactionInput {
		return TransactionInput{
			Amount:     decp("10"),
			Kind:       models.KindExpense,
			Date:       day(2025, time.July, 3),
			CategoryID: f.food,
		}
	}

	tests := []struct {
		name   string
		owner  uuid.UUID
		mutate func(*TransactionInput)
	}{
		{name: "missing owner", owner: uuid.Nil, mutate: func(*TransactionInput) {}},
		{name: "missing amount", owner: f.alice, mutate: func(in *TransactionInput) { in.Amount = nil }},
		{name: "negative amount", owner: f.alice, mutate: func(in *TransactionInput) { in.Amount = decp("-1") }},
		{name: "unknown kind", owner: f.alice, mutate: func(in *TransactionInput) { in.Kind = "transfer" }},
		{name: "missing date", owner: f.alice, mutate: func(in *TransactionInput) { in.Date = time.Time{} }},
		{name: "missing category", owner: f.alice, mutate: func(in *TransactionInput) { in.CategoryID = uuid.Nil }},
		{name: "unknown category", owner: f.alice, mutate: func(in *TransactionInput) { in.CategoryID = uuid.New() }},
		{name: "someone else's category", owner: f.alice, mutate: func(in *TransactionInput) { in.CategoryID = bobsCategory }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			_, err := f.ledger.CreateTransaction(f.ctx, tt.owner, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	list, err := f.ledger.ListTransactions(f.ctx, f.alice)
	require.NoError(t, err)
	assert.Empty(t, list, "rejected input must not be stored")
}

func TestCreateTransaction_StoresRecord(t *testing.T) {
	f := newFixture(t)
	own := f.category(t, f.alice, "Hobby")

	tx, err := f.ledger.CreateTransaction(f.ctx, f.alice, TransactionInput{
		Amount:      decp("0"),
		Kind:        models.KindIncome,
		Date:        day(2025, time.July, 3),
		Description: "  gift  ",
		CategoryID:  own,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.Equal(t, f.alice, tx.OwnerID)
	assert.Equal(t, "gift", tx.Description)

	stored, err := f.ledger.GetTransaction(f.ctx, f.alice, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, stored.ID)
	assert.Equal(t, []string{events.TransactionCreated}, f.events.Types())
}

func TestListTransactions_OnlyOwners(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.alice, models.KindExpense, "5", day(2025, time.July, 1), f.food)
	f.add(t, f.alice, models.KindIncome, "50", day(2025, time.July, 2), f.food)
	bobs := f.add(t, f.bob, models.KindExpense, "7", day(2025, time.July, 3), f.food)

	list, err := f.ledger.ListTransactions(f.ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, tx := range list {
		assert.Equal(t, f.alice, tx.OwnerID)
		assert.NotEqual(t, bobs.ID, tx.ID)
	}
}

func TestUpdateTransaction_ForeignOwnerIsRejected(t *testing.T) {
	f := newFixture(t)
	tx := f.add(t, f.alice, models.KindExpense, "42", day(2025, time.July, 3), f.food)

	_, err := f.ledger.UpdateTransaction(f.ctx, f.bob, tx.ID, TransactionInput{
		Amount:     decp("1"),
		Kind:       models.KindIncome,
		Date:       day(2025, time.July, 4),
		CategoryID: f.food,
	})
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)

	_, err = f.ledger.UpdateTransaction(f.ctx, f.bob, uuid.New(), TransactionInput{})
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden, "missing and foreign look the same")

	_, err = f.ledger.GetTransaction(f.ctx, f.bob, tx.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)

	unchanged, err := f.ledger.GetTransaction(f.ctx, f.alice, tx.ID)
	require.NoError(t, err)
	assertDecimal(t, "42", unchanged.Amount)
	assert.Equal(t, models.KindExpense, unchanged.Kind)
}

func TestUpdateTransaction_ReplacesFields(t *testing.T) {
	f := newFixture(t)
	rent := f.category(t, f.alice, "Rent")
	tx := f.add(t, f.alice, models.KindExpense, "42", day(2025, time.July, 3), f.food)

	updated, err := f.ledger.UpdateTransaction(f.ctx, f.alice, tx.ID, TransactionInput{
		Amount:      decp("900"),
		Kind:        models.KindExpense,
		Date:        day(2025, time.July, 5),
		Description: "july rent",
		CategoryID:  rent,
	})
	require.NoError(t, err)
	assert.Equal(t, tx.ID, updated.ID)
	assert.Equal(t, f.alice, updated.OwnerID)
	assert.Equal(t, tx.CreatedAt, updated.CreatedAt)

	stored, err := f.ledger.GetTransaction(f.ctx, f.alice, tx.ID)
	require.NoError(t, err)
	assertDecimal(t, "900", stored.Amount)
	assert.Equal(t, rent, stored.CategoryID)
	assert.Equal(t, "july rent", stored.Description)
	assert.True(t, stored.Date.Equal(day(2025, time.July, 5)))

	_, err = f.ledger.UpdateTransaction(f.ctx, f.alice, tx.ID, TransactionInput{
		Amount:     decp("-5"),
		Kind:       models.KindExpense,
		Date:       day(2025, time.July, 5),
		CategoryID: rent,
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, []string{events.TransactionCreated, events.TransactionUpdated}, f.events.Types())
}

func TestUpdateTransaction_KeepsDeletedCategory(t *testing.T) {
	f := newFixture(t)
	hobby := f.category(t, f.alice, "Hobby")
	tx := f.add(t, f.alice, models.KindExpense, "30", day(2025, time.July, 3), hobby)
	require.NoError(t, f.ledger.DeleteCategory(f.ctx, f.alice, hobby))

	_, err := f.ledger.UpdateTransaction(f.ctx, f.alice, tx.ID, TransactionInput{
		Amount:     decp("35"),
		Kind:       models.KindExpense,
		Date:       day(2025, time.July, 3),
		CategoryID: hobby,
	})
	assert.NoError(t, err)
}

func TestDeleteTransaction_IsNotRepeatable(t *testing.T) {
	f := newFixture(t)
	tx := f.add(t, f.alice, models.KindExpense, "42", day(2025, time.July, 3), f.food)

	assert.ErrorIs(t, f.ledger.DeleteTransaction(f.ctx, f.bob, tx.ID), ErrNotFoundOrForbidden)
	require.NoError(t, f.ledger.DeleteTransaction(f.ctx, f.alice, tx.ID))
	assert.ErrorIs(t, f.ledger.DeleteTransaction(f.ctx, f.alice, tx.ID), ErrNotFoundOrForbidden)

	list, err := f.ledger.ListTransactions(f.ctx, f.alice)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLedger_PublishFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	f.events.Err = errors.New("broker unavailable")

	tx := f.add(t, f.alice, models.KindExpense, "42", day(2025, time.July, 3), f.food)
	require.NoError(t, f.ledger.DeleteTransaction(f.ctx, f.alice, tx.ID))
	assert.Empty(t, f.events.Types())
}

func TestCategories(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.CreateCategory(f.ctx, f.alice, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	mine := f.category(t, f.alice, "Hobby")
	theirs := f.category(t, f.bob, "Cars")

	list, err := f.ledger.ListCategories(f.ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].IsGlobal())
	assert.Equal(t, f.food, list[0].ID)
	assert.Equal(t, mine, list[1].ID)
	assert.True(t, list[1].OwnedBy(f.alice))

	assert.ErrorIs(t, f.ledger.DeleteCategory(f.ctx, f.alice, uuid.New()), ErrNotFound)
	assert.ErrorIs(t, f.ledger.DeleteCategory(f.ctx, f.alice, theirs), ErrForbidden)
	assert.ErrorIs(t, f.ledger.DeleteCategory(f.ctx, f.alice, f.food), ErrForbidden, "global categories are not deletable by users")

	require.NoError(t, f.ledger.DeleteCategory(f.ctx, f.alice, mine))
	assert.ErrorIs(t, f.ledger.DeleteCategory(f.ctx, f.alice, mine), ErrNotFound)
}

func TestDeleteCategory_LeavesTransactions(t *testing.T) {
	f := newFixture(t)
	hobby := f.category(t, f.alice, "Hobby")
	tx := f.add(t, f.alice, models.KindExpense, "30", day(2025, time.July, 3), hobby)

	require.NoError(t, f.ledger.DeleteCategory(f.ctx, f.alice, hobby))

	stored, err := f.ledger.GetTransaction(f.ctx, f.alice, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, hobby, stored.CategoryID)
	assertDecimal(t, "30", stored.Amount)
}
