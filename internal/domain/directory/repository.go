package directory

import (
	"context"

	"github.com/facture/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository persists client records.
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, int64, error)
	Save(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ManufacturerRepository persists the singleton issuer profile.
type ManufacturerRepository interface {
	// Get returns the profile, or shared.ErrNotFound when none has been
	// saved yet.
	Get(ctx context.Context) (*Manufacturer, error)
	Upsert(ctx context.Context, m *Manufacturer) error
}
