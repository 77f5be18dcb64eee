package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID            uuid.UUID        `db:"id"`
	Username      string           `db:"username"`
	Email         string           `db:"email"`
	Password      string           `db:"password"`
	Name          string           `db:"name"`
	AverageIncome *decimal.Decimal `db:"average_income"` // nil when the user never set it
	CreatedAt     time.Time        `db:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at"`
}
