package entity

import (
	"github.com/google/uuid"
)

type Comment struct {
	BaseNoDelete
	PropertyID uuid.UUID `db:"property_id"`
	UserID     uuid.UUID `db:"user_id"`
	Text       string    `db:"text"`
	Rating     int       `db:"rating"` // 1-5

	// filled by joins, not persisted
	Username string `db:"-"`
}
