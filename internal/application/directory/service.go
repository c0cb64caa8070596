package directory

import (
	"context"
	"errors"

	"github.com/facture/backend/internal/domain/directory"
	"github.com/facture/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Service handles client directory and manufacturer profile operations
type Service struct {
	clients       directory.ClientRepository
	manufacturers directory.ManufacturerRepository
}

// NewService creates a new directory Service
func NewService(clients directory.ClientRepository, manufacturers directory.ManufacturerRepository) *Service {
	return &Service{
		clients:       clients,
		manufacturers: manufacturers,
	}
}

// ListClients retrieves clients with pagination and search
func (s *Service) ListClients(ctx context.Context, query ListClientsQuery) (*shared.Paginated[PartyResponse], error) {
	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.OrderBy != "" {
		filter.OrderBy = query.OrderBy
	}
	if query.OrderDir != "" {
		filter.OrderDir = query.OrderDir
	}
	filter.Search = query.Search

	clients, total, err := s.clients.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]PartyResponse, 0, len(clients))
	for i := range clients {
		items = append(items, clientResponse(&clients[i]))
	}

	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetClient retrieves a single client by ID
func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*PartyResponse, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := clientResponse(client)
	return &response, nil
}

// CreateClient creates a new client record
func (s *Service) CreateClient(ctx context.Context, req CreateClientRequest) (*PartyResponse, error) {
	client, err := directory.NewClient(req.toParty())
	if err != nil {
		return nil, err
	}

	if err := s.clients.Save(ctx, client); err != nil {
		return nil, err
	}

	response := clientResponse(client)
	return &response, nil
}

// UpdateClient applies a partial update to an existing client
func (s *Service) UpdateClient(ctx context.Context, id uuid.UUID, req UpdatePartyRequest) (*PartyResponse, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := client.Update(req.apply(client.Party)); err != nil {
		return nil, err
	}

	if err := s.clients.Save(ctx, client); err != nil {
		return nil, err
	}

	response := clientResponse(client)
	return &response, nil
}

// DeleteClient removes a client from the directory
func (s *Service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	// Verify the client exists so callers get NOT_FOUND instead of a no-op
	if _, err := s.clients.FindByID(ctx, id); err != nil {
		return err
	}

	return s.clients.Delete(ctx, id)
}

// GetManufacturer retrieves the manufacturer profile
func (s *Service) GetManufacturer(ctx context.Context) (*PartyResponse, error) {
	manufacturer, err := s.manufacturers.Get(ctx)
	if err != nil {
		return nil, err
	}

	response := manufacturerResponse(manufacturer)
	return &response, nil
}

// UpsertManufacturer creates the manufacturer profile on first call and
// applies a partial update on subsequent ones
func (s *Service) UpsertManufacturer(ctx context.Context, req UpdatePartyRequest) (*PartyResponse, error) {
	existing, err := s.manufacturers.Get(ctx)
	switch {
	case err == nil:
		if err := existing.Update(req.apply(existing.Party)); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		existing, err = directory.NewManufacturer(req.apply(directory.Party{}))
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.manufacturers.Upsert(ctx, existing); err != nil {
		return nil, err
	}

	response := manufacturerResponse(existing)
	return &response, nil
}
