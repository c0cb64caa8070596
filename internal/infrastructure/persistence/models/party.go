package models

import (
	"github.com/facture/backend/internal/domain/directory"
)

// PartyFields holds the identity columns shared by clients and the
// manufacturer profile
type PartyFields struct {
	Name                string `gorm:"size:200;not null"`
	GivenName           string `gorm:"size:200"`
	TradeRegisterNumber string `gorm:"size:50"`
	TaxID               string `gorm:"size:50"`
	StatisticalID       string `gorm:"size:50"`
	ArticleID           string `gorm:"size:50"`
	Phone               string `gorm:"size:50"`
	Email               string `gorm:"size:255"`
	PhysicalAddress     string `gorm:"size:500"`
	LogoImage           string `gorm:"type:text"`
	Brand               string `gorm:"size:200"`
}

func (f *PartyFields) toDomain() directory.Party {
	return directory.Party{
		Name:                f.Name,
		GivenName:           f.GivenName,
		TradeRegisterNumber: f.TradeRegisterNumber,
		TaxID:               f.TaxID,
		StatisticalID:       f.StatisticalID,
		ArticleID:           f.ArticleID,
		Phone:               f.Phone,
		Email:               f.Email,
		PhysicalAddress:     f.PhysicalAddress,
		LogoImage:           f.LogoImage,
		Brand:               f.Brand,
	}
}

func partyFieldsFromDomain(p directory.Party) PartyFields {
	return PartyFields{
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
	}
}

// ClientModel is the persistence model for invoice recipients
type ClientModel struct {
	EntityColumns
	PartyFields
}

// TableName specifies the table name for ClientModel
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts ClientModel to domain Client
func (m *ClientModel) ToDomain() *directory.Client {
	return &directory.Client{
		BaseEntity: m.entity(),
		Party:      m.PartyFields.toDomain(),
	}
}

// ClientModelFromDomain converts domain Client to ClientModel
func ClientModelFromDomain(c *directory.Client) *ClientModel {
	return &ClientModel{
		EntityColumns: entityColumnsFrom(c.BaseEntity),
		PartyFields:   partyFieldsFromDomain(c.Party),
	}
}

// ManufacturerModel is the persistence model for the issuer profile.
// The table holds at most one row.
type ManufacturerModel struct {
	EntityColumns
	PartyFields
}

// TableName specifies the table name for ManufacturerModel
func (ManufacturerModel) TableName() string {
	return "manufacturer_profile"
}

// ToDomain converts ManufacturerModel to domain Manufacturer
func (m *ManufacturerModel) ToDomain() *directory.Manufacturer {
	return &directory.Manufacturer{
		BaseEntity: m.entity(),
		Party:      m.PartyFields.toDomain(),
	}
}

// ManufacturerModelFromDomain converts domain Manufacturer to ManufacturerModel
func ManufacturerModelFromDomain(p *directory.Manufacturer) *ManufacturerModel {
	return &ManufacturerModel{
		EntityColumns: entityColumnsFrom(p.BaseEntity),
		PartyFields:   partyFieldsFromDomain(p.Party),
	}
}
