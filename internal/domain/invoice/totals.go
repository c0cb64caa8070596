package invoice

import "github.com/shopspring/decimal"

// Totals are the derived amounts of an invoice. Computed on demand, never
// persisted, never edited independently of the invoice they came from.
//
// Discount policy: the discount is a flat currency amount, clamped to
// [0, subtotal]. A percentage discount is expressed by the caller as an
// amount before building the invoice.
type Totals struct {
	// SubtotalHT is the pre-tax sum of all line amounts at full
	// precision. Round for display only; the unrounded value feeds the
	// tax and grand-total math.
	SubtotalHT     decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalTTC       decimal.Decimal
}

// ComputeTotals derives the invoice amounts. Pure and deterministic: no
// I/O, no state, safe for concurrent use. Input is assumed to have passed
// the New constructor's validation.
//
// Each line amount is computed at full precision before summation so that
// per-line rounding can never introduce penny drift. Tax is the single
// intermediate rounding point: round2(subtotal * rate). The grand total
// is round2(subtotal - discount + tax).
func ComputeTotals(inv *Invoice) Totals {
	subtotal := decimal.Zero
	for _, it := range inv.Items {
		subtotal = subtotal.Add(it.Amount())
	}

	discount := inv.Discount
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	tax := subtotal.Mul(inv.TaxRate).Round(2)
	total := subtotal.Sub(discount).Add(tax).Round(2)

	return Totals{
		SubtotalHT:     subtotal,
		DiscountAmount: discount,
		TaxAmount:      tax,
		TotalTTC:       total,
	}
}
