package directory

import (
	"github.com/facture/backend/internal/domain/shared"
)

// Manufacturer is the single issuer profile. At most one instance exists;
// writes go through an upsert so the profile is created on first save.
type Manufacturer struct {
	shared.BaseEntity
	Party
}

// NewManufacturer creates the issuer profile after validating the party
// fields.
func NewManufacturer(p Party) (*Manufacturer, error) {
	p = p.normalize()
	if verr := validateParty(p); verr.HasErrors() {
		return nil, verr
	}
	return &Manufacturer{
		BaseEntity: shared.NewBaseEntity(),
		Party:      p,
	}, nil
}

// Update replaces the party fields of the profile.
func (m *Manufacturer) Update(p Party) error {
	p = p.normalize()
	if verr := validateParty(p); verr.HasErrors() {
		return verr
	}
	m.Party = p
	return nil
}
