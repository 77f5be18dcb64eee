package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

func (k TransactionKind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction amounts are non-negative magnitudes; the sign lives in Kind.
type Transaction struct {
	ID          uuid.UUID       `db:"id"`
	OwnerID     uuid.UUID       `db:"owner_id"`
	Amount      decimal.Decimal `db:"amount"`
	Kind        TransactionKind `db:"kind"`
	Date        time.Time       `db:"date"`
	Description string          `db:"description"`
	CategoryID  uuid.UUID       `db:"category_id"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}
