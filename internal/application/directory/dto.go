package directory

import (
	"time"

	"github.com/facture/backend/internal/domain/directory"
	"github.com/google/uuid"
)

// CreateClientRequest carries the fields for a new client record
type CreateClientRequest struct {
	Name                string `json:"name" binding:"required,max=200"`
	GivenName           string `json:"given_name" binding:"max=200"`
	TradeRegisterNumber string `json:"trade_register_number" binding:"max=50"`
	TaxID               string `json:"tax_id" binding:"max=50"`
	StatisticalID       string `json:"statistical_id" binding:"max=50"`
	ArticleID           string `json:"article_id" binding:"max=50"`
	Phone               string `json:"phone" binding:"max=50"`
	Email               string `json:"email" binding:"omitempty,email"`
	PhysicalAddress     string `json:"physical_address" binding:"max=500"`
	LogoImage           string `json:"logo_image"`
	Brand               string `json:"brand" binding:"max=200"`
}

// UpdatePartyRequest carries a partial update; nil fields keep their
// current value. Used for client updates and the manufacturer upsert.
type UpdatePartyRequest struct {
	Name                *string `json:"name" binding:"omitempty,max=200"`
	GivenName           *string `json:"given_name" binding:"omitempty,max=200"`
	TradeRegisterNumber *string `json:"trade_register_number" binding:"omitempty,max=50"`
	TaxID               *string `json:"tax_id" binding:"omitempty,max=50"`
	StatisticalID       *string `json:"statistical_id" binding:"omitempty,max=50"`
	ArticleID           *string `json:"article_id" binding:"omitempty,max=50"`
	Phone               *string `json:"phone" binding:"omitempty,max=50"`
	Email               *string `json:"email" binding:"omitempty,email"`
	PhysicalAddress     *string `json:"physical_address" binding:"omitempty,max=500"`
	LogoImage           *string `json:"logo_image"`
	Brand               *string `json:"brand" binding:"omitempty,max=200"`
}

// apply overlays the non-nil fields onto an existing party
func (r *UpdatePartyRequest) apply(p directory.Party) directory.Party {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.GivenName != nil {
		p.GivenName = *r.GivenName
	}
	if r.TradeRegisterNumber != nil {
		p.TradeRegisterNumber = *r.TradeRegisterNumber
	}
	if r.TaxID != nil {
		p.TaxID = *r.TaxID
	}
	if r.StatisticalID != nil {
		p.StatisticalID = *r.StatisticalID
	}
	if r.ArticleID != nil {
		p.ArticleID = *r.ArticleID
	}
	if r.Phone != nil {
		p.Phone = *r.Phone
	}
	if r.Email != nil {
		p.Email = *r.Email
	}
	if r.PhysicalAddress != nil {
		p.PhysicalAddress = *r.PhysicalAddress
	}
	if r.LogoImage != nil {
		p.LogoImage = *r.LogoImage
	}
	if r.Brand != nil {
		p.Brand = *r.Brand
	}
	return p
}

func (r *CreateClientRequest) toParty() directory.Party {
	return directory.Party{
		Name:                r.Name,
		GivenName:           r.GivenName,
		TradeRegisterNumber: r.TradeRegisterNumber,
		TaxID:               r.TaxID,
		StatisticalID:       r.StatisticalID,
		ArticleID:           r.ArticleID,
		Phone:               r.Phone,
		Email:               r.Email,
		PhysicalAddress:     r.PhysicalAddress,
		LogoImage:           r.LogoImage,
		Brand:               r.Brand,
	}
}

// PartyResponse is the API shape of a directory record
type PartyResponse struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	GivenName           string    `json:"given_name,omitempty"`
	TradeRegisterNumber string    `json:"trade_register_number,omitempty"`
	TaxID               string    `json:"tax_id,omitempty"`
	StatisticalID       string    `json:"statistical_id,omitempty"`
	ArticleID           string    `json:"article_id,omitempty"`
	Phone               string    `json:"phone,omitempty"`
	Email               string    `json:"email,omitempty"`
	PhysicalAddress     string    `json:"physical_address,omitempty"`
	LogoImage           string    `json:"logo_image,omitempty"`
	Brand               string    `json:"brand,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func clientResponse(c *directory.Client) PartyResponse {
	return partyResponse(c.ID, c.Party, c.CreatedAt, c.UpdatedAt)
}

func manufacturerResponse(m *directory.Manufacturer) PartyResponse {
	return partyResponse(m.ID, m.Party, m.CreatedAt, m.UpdatedAt)
}

func partyResponse(id uuid.UUID, p directory.Party, createdAt, updatedAt time.Time) PartyResponse {
	return PartyResponse{
		ID:                  id,
		Name:                p.Name,
		GivenName:           p.GivenName,
		TradeRegisterNumber: p.TradeRegisterNumber,
		TaxID:               p.TaxID,
		StatisticalID:       p.StatisticalID,
		ArticleID:           p.ArticleID,
		Phone:               p.Phone,
		Email:               p.Email,
		PhysicalAddress:     p.PhysicalAddress,
		LogoImage:           p.LogoImage,
		Brand:               p.Brand,
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
	}
}

// ListClientsQuery carries pagination and search parameters
type ListClientsQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"omitempty,max=200"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name created_at updated_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
