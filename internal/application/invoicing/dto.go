package invoicing

import (
	"fmt"
	"time"

	"github.com/facture/backend/internal/domain/directory"
	"github.com/facture/backend/internal/domain/invoice"
	"github.com/facture/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// LineItemInput is one billed line of a render request
type LineItemInput struct {
	Description string `json:"description" binding:"required,max=500"`
	UnitPrice   string `json:"unit_price" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

// GenerateDocumentRequest carries everything needed to render one invoice.
// Monetary fields arrive as strings so the API never loses precision to
// float parsing.
type GenerateDocumentRequest struct {
	InvoiceNumber string          `json:"invoice_number" binding:"required,max=50"`
	InvoiceDate   string          `json:"invoice_date" binding:"required"`
	DueDate       string          `json:"due_date"`
	ClientID      string          `json:"client_id" binding:"required,uuid"`
	LineItems     []LineItemInput `json:"line_items" binding:"required,min=1,dive"`
	TaxRate       *string         `json:"tax_rate"`
	Discount      string          `json:"discount"`
	PaymentType   string          `json:"payment_type" binding:"max=100"`
	Language      string          `json:"language"`
	Backend       string          `json:"backend"`
}

const dateLayout = "2006-01-02"

// toParams converts the request into invoice parameters, collecting every
// malformed field instead of stopping at the first one.
func (r *GenerateDocumentRequest) toParams(manufacturer, client directory.Party) (invoice.Params, error) {
	verr := shared.NewValidationError()

	params := invoice.Params{
		Number:       r.InvoiceNumber,
		Manufacturer: manufacturer,
		Client:       client,
		PaymentType:  r.PaymentType,
	}

	date, err := time.Parse(dateLayout, r.InvoiceDate)
	if err != nil {
		verr.Add("invoice_date", "must be a date in YYYY-MM-DD format")
	} else {
		params.Date = date
	}

	if r.DueDate != "" {
		due, err := time.Parse(dateLayout, r.DueDate)
		if err != nil {
			verr.Add("due_date", "must be a date in YYYY-MM-DD format")
		} else {
			params.DueDate = &due
		}
	}

	params.Items = make([]invoice.LineItem, 0, len(r.LineItems))
	for i, item := range r.LineItems {
		price, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			verr.Add(lineItemField(i, "unit_price"), "must be a decimal number")
			continue
		}
		params.Items = append(params.Items, invoice.LineItem{
			Description: item.Description,
			UnitPrice:   price,
			Quantity:    item.Quantity,
		})
	}

	if r.TaxRate != nil {
		rate, err := decimal.NewFromString(*r.TaxRate)
		if err != nil {
			verr.Add("tax_rate", "must be a decimal number")
		} else {
			params.TaxRate = &rate
		}
	}

	if r.Discount != "" {
		discount, err := decimal.NewFromString(r.Discount)
		if err != nil {
			verr.Add("discount", "must be a decimal number")
		} else {
			params.Discount = discount
		}
	}

	if r.Language != "" {
		tag, err := language.Parse(r.Language)
		if err != nil {
			verr.Add("language", "must be a BCP 47 language tag")
		} else {
			params.Language = tag
		}
	}

	if verr.HasErrors() {
		return invoice.Params{}, verr
	}
	return params, nil
}

func lineItemField(index int, name string) string {
	return fmt.Sprintf("line_items[%d].%s", index, name)
}

// TotalsResponse reports the computed amounts of a rendered invoice
type TotalsResponse struct {
	SubtotalHT     string `json:"subtotal_ht"`
	DiscountAmount string `json:"discount_amount"`
	TaxAmount      string `json:"tax_amount"`
	TotalTTC       string `json:"total_ttc"`
	TotalInWords   string `json:"total_in_words,omitempty"`
}

// DocumentResponse is the outcome of a render: the document bytes plus
// where the archived copy lives
type DocumentResponse struct {
	Data           []byte         `json:"-"`
	Filename       string         `json:"filename"`
	MIMEType       string         `json:"mime_type"`
	Backend        string         `json:"backend"`
	FromCache      bool           `json:"from_cache"`
	ArtifactPath   string         `json:"artifact_path,omitempty"`
	ArtifactURL    string         `json:"artifact_url,omitempty"`
	Totals         TotalsResponse `json:"totals"`
	RenderDuration time.Duration  `json:"-"`
}

// BackendInfo describes one render backend for the discovery endpoint
type BackendInfo struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
	MIMEType  string `json:"mime_type"`
	Default   bool   `json:"default"`
}

// parseClientID is split out so the service returns a field error rather
// than a transport-level 400 when the ID is not a UUID.
func parseClientID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		verr := shared.NewValidationError()
		verr.Add("client_id", "must be a valid UUID")
		return uuid.Nil, verr
	}
	return id, nil
}
