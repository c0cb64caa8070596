package render

import (
	"bytes"
	"context"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// VectorPDFRenderer draws the invoice directly onto a PDF canvas. No
// layout engine is available on this path, so every element is placed by
// explicit coordinate math in points. Before the item table is drawn its
// required height is computed; when it cannot fit on the remaining page
// the renderer switches to continuation pages (repeating the table
// header) instead of clipping rows.
type VectorPDFRenderer struct {
	logger *zap.Logger
}

// NewVectorPDFRenderer creates the vector-pdf backend
func NewVectorPDFRenderer(logger *zap.Logger) *VectorPDFRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VectorPDFRenderer{logger: logger}
}

// Backend identifies the implementation
func (r *VectorPDFRenderer) Backend() Backend {
	return BackendVectorPDF
}

const fontFamily = "Helvetica"

// table column widths as fractions of the content width
var columnFractions = [4]float64{0.46, 0.20, 0.12, 0.22}

type vectorPage struct {
	pdf          *fpdf.Fpdf
	tr           func(string) string
	profile      LayoutProfile
	marginSide   float64
	marginTop    float64
	bottomLimit  float64 // lowest Y the table may reach
	contentWidth float64
	colWidths    [4]float64
}

// Render draws the invoice
func (r *VectorPDFRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeEngineUnavailable, "rendering was cancelled", err)
	}

	start := time.Now()
	fields := buildDocumentFields(req)

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(fields.Title+" "+fields.Number, true)

	marginSide := MMToPt(MarginSideMM)
	marginTop := MMToPt(MarginTopMM)
	marginBottom := MMToPt(MarginBottomMM)
	pdf.SetMargins(marginSide, marginTop, marginSide)
	pdf.SetAutoPageBreak(false, marginBottom)

	pageWidth, pageHeight := pdf.GetPageSize()
	contentWidth := pageWidth - 2*marginSide

	p := &vectorPage{
		pdf:     pdf,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
		profile: fields.Profile,
		// Keep the table clear of the footer strip at the page bottom.
		bottomLimit:  pageHeight - marginBottom - 30,
		marginSide:   marginSide,
		marginTop:    marginTop,
		contentWidth: contentWidth,
	}
	for i, f := range columnFractions {
		p.colWidths[i] = contentWidth * f
	}

	pdf.AddPage()
	p.drawHeader(fields)
	p.drawMeta(fields)
	p.drawParties(fields)
	if err := p.drawItemTable(fields); err != nil {
		return nil, err
	}
	p.drawTotals(fields)
	p.drawSignature(fields)
	p.drawFooter(fields)

	if pdf.Err() {
		return nil, NewRenderError(ErrCodeEncodingFailure, "PDF drawing failed", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeEncodingFailure, "failed to encode PDF", err)
	}

	duration := time.Since(start)
	r.logger.Info("invoice drawn to PDF",
		zap.String("invoice_number", req.Invoice.Number),
		zap.Int("bytes", buf.Len()),
		zap.Int("pages", pdf.PageCount()),
		zap.Duration("duration", duration))

	return &RenderResult{
		Bytes:          buf.Bytes(),
		Filename:       SuggestedFilename(req.Invoice.Number, r.Backend().Extension()),
		MIMEType:       r.Backend().MIMEType(),
		Backend:        r.Backend(),
		RenderDuration: duration,
	}, nil
}

// Close releases resources held by the renderer
func (r *VectorPDFRenderer) Close() error {
	return nil
}

func (p *vectorPage) drawHeader(f documentFields) {
	pdf := p.pdf
	pdf.SetFont(fontFamily, "B", p.profile.HeaderFontPt)
	pdf.SetXY(p.marginSide, p.marginTop)
	half := p.contentWidth / 2
	pdf.CellFormat(half, p.profile.HeaderFontPt+4, p.tr(f.IssuerName), "", 0, "L", false, 0, "")
	pdf.CellFormat(half, p.profile.HeaderFontPt+4, p.tr(f.Title), "", 1, "R", false, 0, "")
}

func (p *vectorPage) drawMeta(f documentFields) {
	pdf := p.pdf
	pdf.Ln(p.profile.SectionGapPt / 2)
	lineH := p.profile.BaseFontPt + 3

	metaLine := func(label, value string) {
		pdf.SetFont(fontFamily, "B", p.profile.BaseFontPt)
		labelW := pdf.GetStringWidth(p.tr(label)) + 4
		pdf.CellFormat(labelW, lineH, p.tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", p.profile.BaseFontPt)
		pdf.CellFormat(0, lineH, p.tr(value), "", 1, "L", false, 0, "")
	}

	metaLine("N° :", f.Number)
	metaLine("Date :", f.Date)
	if f.DueDate != "" {
		metaLine("Échéance :", f.DueDate)
	}
	if f.PaymentType != "" {
		metaLine("Mode de paiement :", f.PaymentType)
	}
}

func (p *vectorPage) drawParties(f documentFields) {
	pdf := p.pdf
	pdf.Ln(p.profile.SectionGapPt / 2)

	lineH := p.profile.BaseFontPt + 3
	pad := p.profile.RowPaddingPt
	boxWidth := p.contentWidth * 0.47
	gap := p.contentWidth - 2*boxWidth

	issuerLines := append([]string{f.IssuerName}, f.IssuerLines...)
	clientLines := append([]string{f.ClientName}, f.ClientLines...)
	lineCount := max(len(issuerLines), len(clientLines))
	boxHeight := 2*pad + lineH*float64(lineCount+1)

	top := pdf.GetY()
	pdf.SetDrawColor(153, 153, 153)
	pdf.Rect(p.marginSide, top, boxWidth, boxHeight, "D")
	pdf.Rect(p.marginSide+boxWidth+gap, top, boxWidth, boxHeight, "D")

	drawBox := func(x float64, title string, lines []string) {
		y := top + pad
		pdf.SetFont(fontFamily, "B", p.profile.BaseFontPt)
		pdf.SetXY(x+pad, y)
		pdf.CellFormat(boxWidth-2*pad, lineH, p.tr(title), "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", p.profile.BaseFontPt)
		for i, line := range lines {
			pdf.SetXY(x+pad, y+lineH*float64(i+1))
			pdf.CellFormat(boxWidth-2*pad, lineH, p.tr(line), "", 0, "L", false, 0, "")
		}
	}
	drawBox(p.marginSide, "Émetteur", issuerLines)
	drawBox(p.marginSide+boxWidth+gap, "Client", clientLines)

	pdf.SetXY(p.marginSide, top+boxHeight)
}

// drawItemTable lays out the line items. The required height is computed
// up front; when it exceeds the remaining page the table runs in
// continuation mode, repeating the header row on each new page.
func (p *vectorPage) drawItemTable(f documentFields) error {
	pdf := p.pdf
	rowH := p.profile.TableRowPt

	usablePerPage := p.bottomLimit - p.marginTop - rowH
	if rowH > usablePerPage {
		return NewRenderError(ErrCodeLayoutOverflow,
			"item row height exceeds the printable page", nil)
	}

	pdf.Ln(p.profile.SectionGapPt / 2)
	top := pdf.GetY()
	required := rowH * float64(len(f.Lines)+1)
	continuation := top+required > p.bottomLimit

	p.drawTableHeader(rowH)
	for _, line := range f.Lines {
		if continuation && pdf.GetY()+rowH > p.bottomLimit {
			pdf.AddPage()
			pdf.SetY(p.marginTop)
			p.drawTableHeader(rowH)
		}
		p.drawTableRow(rowH, line)
	}
	return nil
}

func (p *vectorPage) drawTableHeader(rowH float64) {
	pdf := p.pdf
	pdf.SetFont(fontFamily, "B", p.profile.TableFontPt)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetDrawColor(153, 153, 153)
	pdf.SetX(p.marginSide)
	headers := [4]string{"Désignation", "Prix unitaire", "Quantité", "Montant"}
	aligns := [4]string{"L", "R", "R", "R"}
	for i, h := range headers {
		last := 0
		if i == len(headers)-1 {
			last = 1
		}
		pdf.CellFormat(p.colWidths[i], rowH, p.tr(h), "1", last, aligns[i], true, 0, "")
	}
}

func (p *vectorPage) drawTableRow(rowH float64, line documentLine) {
	pdf := p.pdf
	pdf.SetFont(fontFamily, "", p.profile.TableFontPt)
	pdf.SetX(p.marginSide)
	cells := [4]string{line.Description, line.UnitPrice, line.Quantity, line.Amount}
	aligns := [4]string{"L", "R", "R", "R"}
	for i, cell := range cells {
		last := 0
		if i == len(cells)-1 {
			last = 1
		}
		text := p.truncateToWidth(cell, p.colWidths[i]-2*p.profile.RowPaddingPt)
		pdf.CellFormat(p.colWidths[i], rowH, p.tr(text), "1", last, aligns[i], false, 0, "")
	}
}

// truncateToWidth shortens a cell value with an ellipsis when it would
// spill out of its column.
func (p *vectorPage) truncateToWidth(s string, width float64) string {
	pdf := p.pdf
	if pdf.GetStringWidth(p.tr(s)) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if pdf.GetStringWidth(p.tr(candidate)) <= width {
			return candidate
		}
	}
	return "…"
}

func (p *vectorPage) drawTotals(f documentFields) {
	pdf := p.pdf
	lineH := p.profile.TotalsFontPt + 5
	blockWidth := p.contentWidth * 0.45
	x := p.marginSide + p.contentWidth - blockWidth

	rows := [][2]string{{"Total HT", f.SubtotalHT}}
	if f.HasDiscount {
		rows = append(rows, [2]string{"Remise", "-" + f.Discount})
	}
	rows = append(rows, [2]string{f.TaxLabel, f.TaxAmount})

	needed := lineH*float64(len(rows)+1) + p.profile.SectionGapPt
	if pdf.GetY()+needed > p.bottomLimit {
		pdf.AddPage()
		pdf.SetY(p.marginTop)
	}
	pdf.Ln(p.profile.SectionGapPt / 2)

	pdf.SetFont(fontFamily, "", p.profile.TotalsFontPt)
	for _, row := range rows {
		pdf.SetX(x)
		pdf.CellFormat(blockWidth*0.55, lineH, p.tr(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(blockWidth*0.45, lineH, row[1], "", 1, "R", false, 0, "")
	}

	pdf.SetX(x)
	pdf.SetFont(fontFamily, "B", p.profile.TotalsFontPt+2)
	pdf.SetDrawColor(26, 26, 26)
	pdf.Line(x, pdf.GetY(), x+blockWidth, pdf.GetY())
	pdf.CellFormat(blockWidth*0.55, lineH+2, "Total TTC", "", 0, "L", false, 0, "")
	pdf.CellFormat(blockWidth*0.45, lineH+2, f.TotalTTC, "", 1, "R", false, 0, "")

	if f.TotalInWords != "" {
		pdf.Ln(4)
		pdf.SetX(p.marginSide)
		pdf.SetFont(fontFamily, "I", p.profile.BaseFontPt)
		pdf.MultiCell(p.contentWidth, p.profile.BaseFontPt+3,
			p.tr("Arrêtée la présente facture à la somme de : "+f.TotalInWords), "", "L", false)
	}
}

func (p *vectorPage) drawSignature(f documentFields) {
	pdf := p.pdf
	lineH := p.profile.BaseFontPt + 3
	needed := p.profile.SectionGapPt + lineH + 40
	if pdf.GetY()+needed > p.bottomLimit {
		pdf.AddPage()
		pdf.SetY(p.marginTop)
	}
	pdf.Ln(p.profile.SectionGapPt)

	boxWidth := p.contentWidth * 0.4
	top := pdf.GetY()
	pdf.SetFont(fontFamily, "", p.profile.BaseFontPt)
	pdf.SetDrawColor(153, 153, 153)

	pdf.SetXY(p.marginSide, top)
	pdf.CellFormat(boxWidth, lineH, p.tr("Signature du client"), "", 0, "C", false, 0, "")
	pdf.Line(p.marginSide, top+lineH+36, p.marginSide+boxWidth, top+lineH+36)

	x := p.marginSide + p.contentWidth - boxWidth
	pdf.SetXY(x, top)
	pdf.CellFormat(boxWidth, lineH, p.tr("Signature et cachet"), "", 0, "C", false, 0, "")
	pdf.Line(x, top+lineH+36, x+boxWidth, top+lineH+36)

	pdf.SetXY(p.marginSide, top+lineH+40)
}

func (p *vectorPage) drawFooter(f documentFields) {
	if f.FooterLine == "" {
		return
	}
	pdf := p.pdf
	_, pageHeight := pdf.GetPageSize()

	pdf.SetY(pageHeight - MMToPt(MarginBottomMM) - 12)
	pdf.SetDrawColor(153, 153, 153)
	pdf.Line(p.marginSide, pdf.GetY(), p.marginSide+p.contentWidth, pdf.GetY())
	pdf.SetFont(fontFamily, "", 8)
	pdf.SetTextColor(85, 85, 85)
	pdf.CellFormat(p.contentWidth, 12, p.tr(f.FooterLine), "", 0, "C", false, 0, "")
	pdf.SetTextColor(26, 26, 26)
}

// Ensure VectorPDFRenderer implements DocumentRenderer
var _ DocumentRenderer = (*VectorPDFRenderer)(nil)
