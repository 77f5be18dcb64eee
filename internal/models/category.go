package models

import (
	"time"

	"github.com/google/uuid"
)

// UncategorizedLabel is reported for transactions whose category cannot be resolved.
const UncategorizedLabel = "Uncategorized"

type Category struct {
	ID        uuid.UUID  `db:"id"`
	Name      string     `db:"name"`
	OwnerID   *uuid.UUID `db:"owner_id"` // nil: global category visible to every user
	CreatedAt time.Time  `db:"created_at"`
}

// IsGlobal reports whether the category is shared by all users.
func (c *Category) IsGlobal() bool {
	return c.OwnerID == nil
}

// VisibleTo reports whether ownerID may see the category.
func (c *Category) VisibleTo(ownerID uuid.UUID) bool {
	return c.OwnerID == nil || *c.OwnerID == ownerID
}

// OwnedBy reports whether the category belongs to ownerID. Global categories belong to nobody.
func (c *Category) OwnedBy(ownerID uuid.UUID) bool {
	return c.OwnerID != nil && *c.OwnerID == ownerID
}
