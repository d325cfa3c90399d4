package project

import (
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Totals holds the derived estimate figures for a project.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	GrandTotal float64 `json:"grand_total"`
}

// ComputeTotals derives subtotal, tax, and grand total from the pricing
// lines and tax rate.
//
//	subtotal    = sum of qty*unit over all lines
//	taxableBase = sum of qty*unit over lines flagged taxable
//	tax         = taxableBase * taxRate
//	grandTotal  = subtotal + tax
//
// Non-finite quantities, unit prices, and tax rates count as zero, so the
// result never contains NaN or Inf. The totals are recomputed from scratch
// on every call; line-item counts are small and an incremental accumulator
// would only invite drift between cached and true totals.
func ComputeTotals(lines []PricingLine, taxRate float64) Totals {
	var subtotal, taxableBase float64
	for _, line := range lines {
		total := sanitize(float64(line.Qty)) * sanitize(float64(line.Unit))
		subtotal += total
		if line.Taxable {
			taxableBase += total
		}
	}
	tax := taxableBase * sanitize(taxRate)
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal + tax,
	}
}

var moneyPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatMoney renders v as a US-dollar currency string, or the fixed
// "$ 0.00" fallback when v is not finite.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$ 0.00"
	}
	return moneyPrinter.Sprintf("%v", currency.NarrowSymbol(currency.USD.Amount(v)))
}
