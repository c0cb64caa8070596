package persistence

import (
	"context"
	"errors"

	"github.com/facture/backend/internal/domain/directory"
	"github.com/facture/backend/internal/domain/shared"
	"github.com/facture/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// clientSortFields contains allowed sort fields for clients
var clientSortFields = map[string]bool{
	"name":       true,
	"created_at": true,
	"updated_at": true,
}

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds clients matching the filter, returning the page and the
// total count before pagination
func (r *GormClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]directory.Client, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.ClientModel{})
	base = r.applySearch(base, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clientModels []models.ClientModel
	query := r.applyPagination(base, filter)
	if err := query.Find(&clientModels).Error; err != nil {
		return nil, 0, err
	}

	clients := make([]directory.Client, len(clientModels))
	for i, model := range clientModels {
		clients[i] = *model.ToDomain()
	}
	return clients, total, nil
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *directory.Client) error {
	model := models.ClientModelFromDomain(client)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a client
func (r *GormClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ClientModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormClientRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR given_name ILIKE ? OR brand ILIKE ? OR phone ILIKE ? OR email ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern, searchPattern)
	}
	return query
}

func (r *GormClientRepository) applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, clientSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// Ensure GormClientRepository implements ClientRepository
var _ directory.ClientRepository = (*GormClientRepository)(nil)
