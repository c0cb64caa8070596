package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Page geometry. All backends render the same A4 canvas: 595 x 842 points,
// 20mm top/bottom and 15mm side margins.
const (
	PageWidthPt  = 595.0
	PageHeightPt = 842.0

	MarginTopMM    = 20.0
	MarginBottomMM = 20.0
	MarginSideMM   = 15.0

	// RasterScale is the device pixel ratio used by the raster backend.
	RasterScale = 3.0
)

// DensityThreshold is the line-item count above which the compact layout
// profile kicks in. Six or more items shrink the font and row padding
// instead of overflowing or truncating the table.
const DensityThreshold = 5

// LayoutProfile holds the type sizes and spacing shared by all backends.
// Values are in points.
type LayoutProfile struct {
	Compact      bool
	BaseFontPt   float64
	TableFontPt  float64
	RowPaddingPt float64
	TableRowPt   float64
	HeaderFontPt float64
	TotalsFontPt float64
	SectionGapPt float64
}

// ProfileFor returns the layout profile for an item count.
func ProfileFor(itemCount int) LayoutProfile {
	if itemCount > DensityThreshold {
		return LayoutProfile{
			Compact:      true,
			BaseFontPt:   8.5,
			TableFontPt:  8,
			RowPaddingPt: 3,
			TableRowPt:   16,
			HeaderFontPt: 16,
			TotalsFontPt: 10,
			SectionGapPt: 10,
		}
	}
	return LayoutProfile{
		BaseFontPt:   10,
		TableFontPt:  10,
		RowPaddingPt: 6,
		TableRowPt:   24,
		HeaderFontPt: 18,
		TotalsFontPt: 11,
		SectionGapPt: 16,
	}
}

// MMToPt converts millimeters to points
func MMToPt(mm float64) float64 {
	return mm * 72.0 / 25.4
}

// MMToInches converts millimeters to inches (Chrome paper sizes)
func MMToInches(mm float64) float64 {
	return mm / 25.4
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SuggestedFilename builds "invoice-<number>.<ext>" with the invoice
// number stripped of path-unsafe characters. The number is caller-chosen
// and opaque, so it must never be trusted as a path component.
func SuggestedFilename(invoiceNumber, ext string) string {
	safe := unsafeFilenameChars.ReplaceAllString(invoiceNumber, "-")
	safe = strings.Trim(safe, "-.")
	if safe == "" {
		safe = "document"
	}
	return fmt.Sprintf("invoice-%s.%s", safe, ext)
}

// FormatMoney renders a currency amount with two decimals for display.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatDate renders a calendar date as DD/MM/YYYY, zero-padded.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// documentLine is one row of the rendered item table, preformatted.
type documentLine struct {
	Description string
	UnitPrice   string
	Quantity    string
	Amount      string
}

// documentFields is the single source of every string that appears on a
// rendered document. Both the HTML layout (print-pdf, raster-png) and the
// vector backend consume it, which is what guarantees numeric parity
// between formats.
type documentFields struct {
	Title        string
	Number       string
	Date         string
	DueDate      string
	PaymentType  string
	IssuerName   string
	IssuerLines  []string
	ClientName   string
	ClientLines  []string
	LogoImage    string
	Lines        []documentLine
	SubtotalHT   string
	TaxLabel     string
	TaxAmount    string
	Discount     string
	HasDiscount  bool
	TotalTTC     string
	TotalInWords string
	FooterLine   string
	Profile      LayoutProfile
}

// footerLine joins the issuer's phone and address into the single line
// both PDF backends print at the bottom of the page.
func footerLine(phone, address string) string {
	parts := make([]string, 0, 2)
	if phone != "" {
		parts = append(parts, "Tél : "+phone)
	}
	if address != "" {
		parts = append(parts, address)
	}
	return strings.Join(parts, " — ")
}

func partyLines(p partyView) []string {
	lines := make([]string, 0, 4)
	if p.TradeRegisterNumber != "" {
		lines = append(lines, "R.C. "+p.TradeRegisterNumber)
	}
	if p.TaxID != "" {
		lines = append(lines, "N.I.F. "+p.TaxID)
	}
	if p.StatisticalID != "" {
		lines = append(lines, "N.I.S. "+p.StatisticalID)
	}
	if p.ArticleID != "" {
		lines = append(lines, "A.R.T. "+p.ArticleID)
	}
	return lines
}

// partyView narrows directory.Party to the fields a document shows.
type partyView struct {
	TradeRegisterNumber string
	TaxID               string
	StatisticalID       string
	ArticleID           string
}

// buildDocumentFields preformats every value shown on the document.
func buildDocumentFields(req *RenderRequest) documentFields {
	inv := req.Invoice
	totals := req.Totals

	lines := make([]documentLine, 0, len(inv.Items))
	for _, it := range inv.Items {
		lines = append(lines, documentLine{
			Description: it.Description,
			UnitPrice:   FormatMoney(it.UnitPrice),
			Quantity:    fmt.Sprintf("%d", it.Quantity),
			Amount:      FormatMoney(it.Amount()),
		})
	}

	taxPercent := inv.TaxRate.Mul(decimal.NewFromInt(100))

	f := documentFields{
		Title:       "FACTURE",
		Number:      inv.Number,
		Date:        FormatDate(inv.Date),
		PaymentType: inv.PaymentType,
		IssuerName:  inv.Manufacturer.DisplayName(),
		IssuerLines: partyLines(partyView{
			TradeRegisterNumber: inv.Manufacturer.TradeRegisterNumber,
			TaxID:               inv.Manufacturer.TaxID,
			StatisticalID:       inv.Manufacturer.StatisticalID,
			ArticleID:           inv.Manufacturer.ArticleID,
		}),
		ClientName: inv.Client.DisplayName(),
		ClientLines: partyLines(partyView{
			TradeRegisterNumber: inv.Client.TradeRegisterNumber,
			TaxID:               inv.Client.TaxID,
			StatisticalID:       inv.Client.StatisticalID,
			ArticleID:           inv.Client.ArticleID,
		}),
		LogoImage:     inv.Manufacturer.LogoImage,
		Lines:         lines,
		SubtotalHT:    FormatMoney(totals.SubtotalHT.Round(2)),
		TaxLabel:      fmt.Sprintf("TVA %s%%", taxPercent.String()),
		TaxAmount:     FormatMoney(totals.TaxAmount),
		Discount:      FormatMoney(totals.DiscountAmount),
		HasDiscount:   totals.DiscountAmount.IsPositive(),
		TotalTTC:     FormatMoney(totals.TotalTTC),
		TotalInWords: req.TotalInWords,
		FooterLine:   footerLine(inv.Manufacturer.Phone, inv.Manufacturer.PhysicalAddress),
		Profile:      ProfileFor(len(inv.Items)),
	}
	if inv.DueDate != nil {
		f.DueDate = FormatDate(*inv.DueDate)
	}
	return f
}
