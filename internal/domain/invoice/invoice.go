// Package invoice defines the normalized invoice record and the totals
// engine. An Invoice is a value object: it is built once per generation
// and never mutated afterwards; every rendering backend consumes the same
// record so the numbers cannot drift between outputs.
package invoice

import (
	"fmt"
	"time"

	"github.com/facture/backend/internal/domain/directory"
	"github.com/facture/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// DefaultTaxRate is the TVA rate applied when the caller does not supply
// one (19%).
var DefaultTaxRate = decimal.NewFromFloat(0.19)

// LineItem is one product or service row. Amounts are derived, never
// stored.
type LineItem struct {
	Description string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// Amount returns unit price times quantity at full precision.
func (li LineItem) Amount() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Invoice is the central value object handed to the rendering backends.
// Build it with New; rebuild to change.
type Invoice struct {
	Number       string
	Date         time.Time
	DueDate      *time.Time
	Manufacturer directory.Party
	Client       directory.Party
	Items        []LineItem
	TaxRate      decimal.Decimal
	Discount     decimal.Decimal
	PaymentType  string
	Language     language.Tag
}

// Params carries the raw inputs for building an Invoice.
type Params struct {
	Number       string
	Date         time.Time
	DueDate      *time.Time
	Manufacturer directory.Party
	Client       directory.Party
	Items        []LineItem
	// TaxRate defaults to DefaultTaxRate when nil.
	TaxRate *decimal.Decimal
	// Discount is a flat currency amount, clamped to the subtotal when
	// totals are computed. Defaults to zero.
	Discount    decimal.Decimal
	PaymentType string
	// Language defaults to French.
	Language language.Tag
}

// New validates the params and builds an immutable Invoice. Structurally
// invalid input (empty item list, non-positive price or quantity, missing
// invoice number) is rejected here with field-specific errors; the totals
// engine assumes its input already passed this gate.
func New(p Params) (*Invoice, error) {
	verr := shared.NewValidationError()

	if p.Number == "" {
		verr.Add("invoice_number", "is required")
	}
	if p.Date.IsZero() {
		verr.Add("invoice_date", "is required")
	}
	if p.Manufacturer.Name == "" {
		verr.Add("manufacturer.name", "is required")
	}
	if p.Client.Name == "" {
		verr.Add("client.name", "is required")
	}
	if len(p.Items) == 0 {
		verr.Add("line_items", "at least one line item is required")
	}
	for i, it := range p.Items {
		if it.Description == "" {
			verr.Add(fmt.Sprintf("line_items[%d].description", i), "is required")
		}
		if !it.UnitPrice.IsPositive() {
			verr.Add(fmt.Sprintf("line_items[%d].unit_price", i), "must be greater than zero")
		}
		if it.Quantity <= 0 {
			verr.Add(fmt.Sprintf("line_items[%d].quantity", i), "must be greater than zero")
		}
	}

	taxRate := DefaultTaxRate
	if p.TaxRate != nil {
		taxRate = *p.TaxRate
		if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
			verr.Add("tax_rate", "must be between 0 and 1")
		}
	}
	if p.Discount.IsNegative() {
		verr.Add("discount", "must not be negative")
	}

	if verr.HasErrors() {
		return nil, verr
	}

	lang := p.Language
	if lang == language.Und {
		lang = language.French
	}

	items := make([]LineItem, len(p.Items))
	copy(items, p.Items)

	return &Invoice{
		Number:       p.Number,
		Date:         p.Date,
		DueDate:      p.DueDate,
		Manufacturer: p.Manufacturer,
		Client:       p.Client,
		Items:        items,
		TaxRate:      taxRate,
		Discount:     p.Discount,
		PaymentType:  p.PaymentType,
		Language:     lang,
	}, nil
}
