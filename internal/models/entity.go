package models

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base of every persisted record: identity plus lifecycle
// timestamps. DeletedAt is the soft-delete marker; nil means live.
type Entity struct {
	ID        uuid.UUID  `db:"id"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

// Stamp assigns identity and creation timestamps. An already-set ID is kept
// so callers may pre-generate identifiers.
func (e *Entity) Stamp() {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	e.DeletedAt = nil
}
