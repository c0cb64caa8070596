// Package directory holds the issuer profile and client records that
// invoices are built from.
package directory

import "strings"

// Party identifies one side of an invoice: the manufacturer profile or a
// client record. Registration identifiers follow the Algerian commercial
// register conventions (RC, NIF, NIS, ART).
type Party struct {
	Name                string `json:"name"`
	GivenName           string `json:"given_name"`
	TradeRegisterNumber string `json:"trade_register_number"`
	TaxID               string `json:"tax_id"`
	StatisticalID       string `json:"statistical_id"`
	ArticleID           string `json:"article_id"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	PhysicalAddress     string `json:"physical_address"`
	LogoImage           string `json:"logo_image"`
	Brand               string `json:"brand"`
}

// DisplayName returns the name used on rendered documents: the brand when
// set, otherwise "Name GivenName".
func (p Party) DisplayName() string {
	if p.Brand != "" {
		return p.Brand
	}
	full := strings.TrimSpace(p.Name + " " + p.GivenName)
	return full
}

// normalize trims surrounding whitespace from all free-text fields.
func (p Party) normalize() Party {
	p.Name = strings.TrimSpace(p.Name)
	p.GivenName = strings.TrimSpace(p.GivenName)
	p.TradeRegisterNumber = strings.TrimSpace(p.TradeRegisterNumber)
	p.TaxID = strings.TrimSpace(p.TaxID)
	p.StatisticalID = strings.TrimSpace(p.StatisticalID)
	p.ArticleID = strings.TrimSpace(p.ArticleID)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.TrimSpace(p.Email)
	p.PhysicalAddress = strings.TrimSpace(p.PhysicalAddress)
	p.Brand = strings.TrimSpace(p.Brand)
	return p
}
