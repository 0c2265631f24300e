package money

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pabloubeiracarramal/factor-back/internal/models"
)

func rate(v float64) *float64 { return &v }

func TestComputeTotals_Example(t *testing.T) {
	items := []models.InvoiceItem{
		{UnitPrice: 100, Quantity: 2, TaxRate: rate(21)},
		{UnitPrice: 50, Quantity: 1, TaxRate: rate(10)},
	}

	got := ComputeTotals(items)

	assert.InDelta(t, 250.0, got.BaseAmount, 1e-9)
	assert.InDelta(t, 47.0, got.TotalTax, 1e-9)
	assert.InDelta(t, 297.0, got.TotalWithTax, 1e-9)

	if assert.Len(t, got.TaxBreakdown, 2) {
		assert.Equal(t, 21.0, got.TaxBreakdown[0].Rate)
		assert.InDelta(t, 200.0, got.TaxBreakdown[0].Base, 1e-9)
		assert.InDelta(t, 42.0, got.TaxBreakdown[0].Tax, 1e-9)
		assert.Equal(t, 10.0, got.TaxBreakdown[1].Rate)
		assert.InDelta(t, 50.0, got.TaxBreakdown[1].Base, 1e-9)
		assert.InDelta(t, 5.0, got.TaxBreakdown[1].Tax, 1e-9)
	}
}

func TestComputeTotals_Empty(t *testing.T) {
	got := ComputeTotals(nil)
	assert.Zero(t, got.BaseAmount)
	assert.Zero(t, got.TotalTax)
	assert.Zero(t, got.TotalWithTax)
	assert.Empty(t, got.TaxBreakdown)
}

func TestComputeTotals_Additive(t *testing.T) {
	a := []models.InvoiceItem{
		{UnitPrice: 19.99, Quantity: 3, TaxRate: rate(21)},
		{UnitPrice: 7.5, Quantity: 0.5, TaxRate: rate(4)},
	}
	b := []models.InvoiceItem{
		{UnitPrice: 120, Quantity: 1, TaxRate: rate(21)},
		{UnitPrice: 33.33, Quantity: 6, TaxRate: rate(10)},
	}

	ta := ComputeTotals(a)
	tb := ComputeTotals(b)
	both := ComputeTotals(append(append([]models.InvoiceItem{}, a...), b...))

	assert.InDelta(t, ta.BaseAmount+tb.BaseAmount, both.BaseAmount, 1e-9)
	assert.InDelta(t, ta.TotalTax+tb.TotalTax, both.TotalTax, 1e-9)
	assert.InDelta(t, ta.TotalWithTax+tb.TotalWithTax, both.TotalWithTax, 1e-9)
}

func TestComputeTotals_ZeroQuantityContributesNothing(t *testing.T) {
	items := []models.InvoiceItem{
		{Name: "Section heading", UnitPrice: 999, Quantity: 0, TaxRate: rate(21)},
		{UnitPrice: 10, Quantity: 1, TaxRate: rate(21)},
	}

	got := ComputeTotals(items)
	assert.InDelta(t, 10.0, got.BaseAmount, 1e-9)
	assert.InDelta(t, 2.1, got.TotalTax, 1e-9)
}

func TestComputeTotals_MissingRateUsesDefault(t *testing.T) {
	got := ComputeTotals([]models.InvoiceItem{{UnitPrice: 100, Quantity: 1}})
	assert.InDelta(t, 21.0, got.TotalTax, 1e-9)
	if assert.Len(t, got.TaxBreakdown, 1) {
		assert.Equal(t, models.DefaultTaxRate, got.TaxBreakdown[0].Rate)
	}
}

func TestComputeTotals_GroupsRatesAtTwoDecimals(t *testing.T) {
	got := ComputeTotals([]models.InvoiceItem{
		{UnitPrice: 100, Quantity: 1, TaxRate: rate(10.004)},
		{UnitPrice: 100, Quantity: 1, TaxRate: rate(9.996)},
	})
	assert.Len(t, got.TaxBreakdown, 1)
	assert.Equal(t, 10.0, got.TaxBreakdown[0].Rate)
}

func TestComputeTotals_BreakdownKeepsFirstOccurrenceOrder(t *testing.T) {
	got := ComputeTotals([]models.InvoiceItem{
		{UnitPrice: 1, Quantity: 1, TaxRate: rate(4)},
		{UnitPrice: 1, Quantity: 1, TaxRate: rate(21)},
		{UnitPrice: 1, Quantity: 1, TaxRate: rate(4)},
	})
	if assert.Len(t, got.TaxBreakdown, 2) {
		assert.Equal(t, 4.0, got.TaxBreakdown[0].Rate)
		assert.Equal(t, 21.0, got.TaxBreakdown[1].Rate)
	}
}
