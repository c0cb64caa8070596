package invoice

import (
	"errors"
	"testing"
	"time"

	"github.com/facture/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func validParams() Params {
	manufacturer, client := testParties()
	return Params{
		Number:       "2026-0001",
		Date:         time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Manufacturer: manufacturer,
		Client:       client,
		Items:        []LineItem{item("Prestation de service", "1500.00", 2)},
	}
}

func TestNew_Defaults(t *testing.T) {
	inv, err := New(validParams())
	require.NoError(t, err)

	assert.True(t, inv.TaxRate.Equal(DefaultTaxRate))
	assert.True(t, inv.Discount.IsZero())
	assert.Equal(t, language.French, inv.Language)
	assert.Nil(t, inv.DueDate)
}

func TestNew_CopiesItems(t *testing.T) {
	p := validParams()
	inv, err := New(p)
	require.NoError(t, err)

	p.Items[0].Quantity = 99
	assert.Equal(t, 2, inv.Items[0].Quantity, "invoice must hold its own copy of the items")
}

func TestNew_EmptyLineItemsRejected(t *testing.T) {
	p := validParams()
	p.Items = nil

	_, err := New(p)

	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "line_items", verr.Fields[0].Field)
}

func TestNew_ZeroQuantityRejectedWithFieldError(t *testing.T) {
	p := validParams()
	p.Items = append(p.Items, LineItem{
		Description: "Transport",
		UnitPrice:   decimal.RequireFromString("200"),
		Quantity:    0,
	})

	_, err := New(p)

	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "line_items[1].quantity", verr.Fields[0].Field)
	assert.Contains(t, verr.Fields[0].Message, "greater than zero")
}

func TestNew_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{"missing number", func(p *Params) { p.Number = "" }, "invoice_number"},
		{"zero date", func(p *Params) { p.Date = time.Time{} }, "invoice_date"},
		{"missing manufacturer name", func(p *Params) { p.Manufacturer.Name = "" }, "manufacturer.name"},
		{"missing client name", func(p *Params) { p.Client.Name = "" }, "client.name"},
		{"empty description", func(p *Params) { p.Items[0].Description = "" }, "line_items[0].description"},
		{"zero unit price", func(p *Params) { p.Items[0].UnitPrice = decimal.Zero }, "line_items[0].unit_price"},
		{"negative unit price", func(p *Params) { p.Items[0].UnitPrice = decimal.RequireFromString("-1") }, "line_items[0].unit_price"},
		{"negative quantity", func(p *Params) { p.Items[0].Quantity = -3 }, "line_items[0].quantity"},
		{"negative discount", func(p *Params) { p.Discount = decimal.RequireFromString("-5") }, "discount"},
		{"tax rate above one", func(p *Params) {
			rate := decimal.RequireFromString("1.5")
			p.TaxRate = &rate
		}, "tax_rate"},
		{"negative tax rate", func(p *Params) {
			rate := decimal.RequireFromString("-0.1")
			p.TaxRate = &rate
		}, "tax_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)

			_, err := New(p)

			var verr *shared.ValidationError
			require.ErrorAs(t, err, &verr)
			fields := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestNew_ValidationErrorIsNotDomainError(t *testing.T) {
	p := validParams()
	p.Number = ""

	_, err := New(p)

	var derr *shared.DomainError
	assert.False(t, errors.As(err, &derr))
}

func TestLineItem_Amount(t *testing.T) {
	li := item("Widget", "10.50", 3)
	assert.Equal(t, "31.50", li.Amount().StringFixed(2))
}
