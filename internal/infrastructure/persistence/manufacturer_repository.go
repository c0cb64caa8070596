package persistence

import (
	"context"
	"errors"

	"github.com/facture/backend/internal/domain/directory"
	"github.com/facture/backend/internal/domain/shared"
	"github.com/facture/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormManufacturerRepository implements ManufacturerRepository using GORM.
// The profile table holds a single row; Get reads it, Upsert writes it.
type GormManufacturerRepository struct {
	db *gorm.DB
}

// NewGormManufacturerRepository creates a new GormManufacturerRepository
func NewGormManufacturerRepository(db *gorm.DB) *GormManufacturerRepository {
	return &GormManufacturerRepository{db: db}
}

// Get retrieves the manufacturer profile
func (r *GormManufacturerRepository) Get(ctx context.Context) (*directory.Manufacturer, error) {
	var model models.ManufacturerModel
	if err := r.db.WithContext(ctx).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert creates or replaces the manufacturer profile
func (r *GormManufacturerRepository) Upsert(ctx context.Context, manufacturer *directory.Manufacturer) error {
	model := models.ManufacturerModelFromDomain(manufacturer)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormManufacturerRepository implements ManufacturerRepository
var _ directory.ManufacturerRepository = (*GormManufacturerRepository)(nil)
