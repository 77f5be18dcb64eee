package models

import (
	"time"

	"github.com/google/uuid"
)

// Suggestion is append-only: it is written once after a successful generation and never updated.
type Suggestion struct {
	ID        uuid.UUID `db:"id"`
	OwnerID   uuid.UUID `db:"owner_id"`
	Prompt    string    `db:"prompt"`
	Response  string    `db:"response"`
	CreatedAt time.Time `db:"created_at"`
}
