package directory

import (
	"github.com/facture/backend/internal/domain/shared"
)

// Client is a persisted invoice recipient.
type Client struct {
	shared.BaseEntity
	Party
}

// NewClient creates a client record after validating the party fields.
func NewClient(p Party) (*Client, error) {
	p = p.normalize()
	if verr := validateParty(p); verr.HasErrors() {
		return nil, verr
	}
	return &Client{
		BaseEntity: shared.NewBaseEntity(),
		Party:      p,
	}, nil
}

// Update replaces the party fields of an existing client.
func (c *Client) Update(p Party) error {
	p = p.normalize()
	if verr := validateParty(p); verr.HasErrors() {
		return verr
	}
	c.Party = p
	return nil
}

func validateParty(p Party) *shared.ValidationError {
	verr := shared.NewValidationError()
	if p.Name == "" {
		verr.Add("name", "is required")
	}
	return verr
}
