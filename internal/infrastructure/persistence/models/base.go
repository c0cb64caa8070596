package models

import (
	"time"

	"github.com/facture/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EntityColumns holds the identity and audit columns shared by the
// clients and manufacturer_profile tables.
type EntityColumns struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (c *EntityColumns) entity() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func entityColumnsFrom(e shared.BaseEntity) EntityColumns {
	return EntityColumns{
		ID:        e.ID,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
