// Package money computes invoice amounts. All arithmetic is plain float64
// with no intermediate rounding; rounding to two decimals happens only at
// display time, so many-line invoices do not drift from a single final
// rounding.
package money

import (
	"math"

	"github.com/pabloubeiracarramal/factor-back/internal/models"
)

// TaxLine is the base and tax accumulated for one tax rate.
type TaxLine struct {
	Rate float64 `json:"rate"`
	Base float64 `json:"base"`
	Tax  float64 `json:"tax"`
}

// Totals is the financial summary of an item list.
type Totals struct {
	BaseAmount   float64   `json:"base_amount"`
	TotalTax     float64   `json:"total_tax"`
	TotalWithTax float64   `json:"total_with_tax"`
	TaxBreakdown []TaxLine `json:"tax_breakdown"`
}

// ComputeTotals aggregates line items into base, tax and total amounts and
// a per-rate breakdown. Breakdown entries appear in the order each rate is
// first seen; rates are grouped at two-decimal precision. Items without a
// stored rate use the creation default.
func ComputeTotals(items []models.InvoiceItem) Totals {
	t := Totals{}
	index := map[float64]int{}
	for _, it := range items {
		rate := roundRate(it.Rate())
		subtotal := it.UnitPrice * it.Quantity
		tax := subtotal * rate / 100

		t.BaseAmount += subtotal
		t.TotalTax += tax

		i, ok := index[rate]
		if !ok {
			i = len(t.TaxBreakdown)
			index[rate] = i
			t.TaxBreakdown = append(t.TaxBreakdown, TaxLine{Rate: rate})
		}
		t.TaxBreakdown[i].Base += subtotal
		t.TaxBreakdown[i].Tax += tax
	}
	t.TotalWithTax = t.BaseAmount + t.TotalTax
	return t
}

func roundRate(r float64) float64 {
	return math.Round(r*100) / 100
}
