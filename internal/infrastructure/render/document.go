package render

import (
	"bytes"
	"fmt"
	"html/template"
)

// documentHTML is the shared invoice layout used by the print-pdf and
// raster-png backends. The vector backend reproduces the same structure
// with draw commands. Sizing comes from the layout profile so the compact
// switch stays in one place.
const documentHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{ .Title }} {{ .Number }}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  html, body {
    width: {{ pt .PageWidth }};
    font-family: Helvetica, Arial, sans-serif;
    font-size: {{ pt .Profile.BaseFontPt }};
    color: #1a1a1a;
  }
  .page {
    width: {{ pt .PageWidth }};
    min-height: {{ pt .PageHeight }};
    padding: {{ pt .MarginTop }} {{ pt .MarginSide }} {{ pt .MarginBottom }} {{ pt .MarginSide }};
    display: flex;
    flex-direction: column;
  }
  .header { display: flex; justify-content: space-between; align-items: center; }
  .brand { font-size: {{ pt .Profile.HeaderFontPt }}; font-weight: bold; }
  .logo { max-height: 48pt; max-width: 120pt; }
  .title { font-size: {{ pt .Profile.HeaderFontPt }}; font-weight: bold; letter-spacing: 2pt; }
  .meta { margin-top: {{ pt .Profile.SectionGapPt }}; }
  .meta div { margin-bottom: 2pt; }
  .parties { display: flex; justify-content: space-between; margin-top: {{ pt .Profile.SectionGapPt }}; }
  .party { width: 47%; border: 0.5pt solid #999; padding: {{ pt .Profile.RowPaddingPt }}; }
  .party h3 { font-size: {{ pt .Profile.BaseFontPt }}; margin-bottom: 3pt; }
  table.items { width: 100%; border-collapse: collapse; margin-top: {{ pt .Profile.SectionGapPt }}; font-size: {{ pt .Profile.TableFontPt }}; }
  table.items th, table.items td { border: 0.5pt solid #999; padding: {{ pt .Profile.RowPaddingPt }}; }
  table.items th { background: #f0f0f0; text-align: left; }
  td.num, th.num { text-align: right; }
  .totals { margin-top: {{ pt .Profile.SectionGapPt }}; margin-left: auto; width: 45%; font-size: {{ pt .Profile.TotalsFontPt }}; }
  .totals table { width: 100%; border-collapse: collapse; }
  .totals td { padding: 2pt 4pt; }
  .totals td.num { text-align: right; }
  .totals tr.grand td { font-weight: bold; font-size: {{ pt (addPt .Profile.TotalsFontPt 2) }}; border-top: 1pt solid #1a1a1a; }
  .in-words { margin-top: 8pt; font-style: italic; }
  .signature { margin-top: {{ pt .Profile.SectionGapPt }}; display: flex; justify-content: space-between; }
  .signature .box { width: 40%; text-align: center; }
  .signature .line { margin-top: 36pt; border-top: 0.5pt solid #999; }
  .footer { margin-top: auto; padding-top: 8pt; border-top: 0.5pt solid #999; text-align: center; font-size: 8pt; color: #555; }
</style>
</head>
<body>
<div class="page">
  <div class="header">
    <div>
      {{ if .LogoImage }}<img class="logo" src="{{ .LogoImage }}" alt="">{{ end }}
      <div class="brand">{{ .IssuerName }}</div>
    </div>
    <div class="title">{{ .Title }}</div>
  </div>

  <div class="meta">
    <div><strong>N° :</strong> {{ .Number }}</div>
    <div><strong>Date :</strong> {{ .Date }}</div>
    {{ if .DueDate }}<div><strong>Échéance :</strong> {{ .DueDate }}</div>{{ end }}
    {{ if .PaymentType }}<div><strong>Mode de paiement :</strong> {{ .PaymentType }}</div>{{ end }}
  </div>

  <div class="parties">
    <div class="party">
      <h3>Émetteur</h3>
      <div>{{ .IssuerName }}</div>
      {{ range .IssuerLines }}<div>{{ . }}</div>{{ end }}
    </div>
    <div class="party">
      <h3>Client</h3>
      <div>{{ .ClientName }}</div>
      {{ range .ClientLines }}<div>{{ . }}</div>{{ end }}
    </div>
  </div>

  <table class="items">
    <thead>
      <tr>
        <th>Désignation</th>
        <th class="num">Prix unitaire</th>
        <th class="num">Quantité</th>
        <th class="num">Montant</th>
      </tr>
    </thead>
    <tbody>
      {{ range .Lines }}
      <tr>
        <td>{{ .Description }}</td>
        <td class="num">{{ .UnitPrice }}</td>
        <td class="num">{{ .Quantity }}</td>
        <td class="num">{{ .Amount }}</td>
      </tr>
      {{ end }}
    </tbody>
  </table>

  <div class="totals">
    <table>
      <tr><td>Total HT</td><td class="num">{{ .SubtotalHT }}</td></tr>
      {{ if .HasDiscount }}<tr><td>Remise</td><td class="num">-{{ .Discount }}</td></tr>{{ end }}
      <tr><td>{{ .TaxLabel }}</td><td class="num">{{ .TaxAmount }}</td></tr>
      <tr class="grand"><td>Total TTC</td><td class="num">{{ .TotalTTC }}</td></tr>
    </table>
  </div>

  {{ if .TotalInWords }}
  <div class="in-words">Arrêtée la présente facture à la somme de : {{ .TotalInWords }}</div>
  {{ end }}

  <div class="signature">
    <div class="box">Signature du client<div class="line"></div></div>
    <div class="box">Signature et cachet<div class="line"></div></div>
  </div>

  {{ if .FooterLine }}
  <div class="footer">{{ .FooterLine }}</div>
  {{ end }}
</div>
</body>
</html>`

// documentData is documentFields plus the page geometry the template needs.
type documentData struct {
	documentFields
	PageWidth    float64
	PageHeight   float64
	MarginTop    float64
	MarginBottom float64
	MarginSide   float64
}

var documentTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"pt":    func(v float64) template.CSS { return template.CSS(fmt.Sprintf("%.2fpt", v)) },
	"addPt": func(v, delta float64) float64 { return v + delta },
}).Parse(documentHTML))

// BuildDocumentHTML renders the shared invoice layout for a request.
// Used by the print-pdf and raster-png backends.
func BuildDocumentHTML(req *RenderRequest) (string, error) {
	if err := validateRequest(req); err != nil {
		return "", err
	}

	data := documentData{
		documentFields: buildDocumentFields(req),
		PageWidth:      PageWidthPt,
		PageHeight:     PageHeightPt,
		MarginTop:      MMToPt(MarginTopMM),
		MarginBottom:   MMToPt(MarginBottomMM),
		MarginSide:     MMToPt(MarginSideMM),
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeEncodingFailure, "failed to execute document template", err)
	}
	return buf.String(), nil
}
