package models

import (
	"github.com/google/uuid"
)

// InvoiceItem is a line on an invoice. Items are owned by their invoice:
// they are deleted with it and fully replaced when an update carries items.
// A zero-quantity item is a note/section row; it renders without numeric
// columns and contributes nothing to any total.
type InvoiceItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	InvoiceID   uuid.UUID `json:"invoice_id" db:"invoice_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Quantity    float64   `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	TaxRate     *float64  `json:"tax_rate" db:"tax_rate"`
	Position    int       `json:"position" db:"position"`
}

// Rate returns the item's tax rate, falling back to the creation default
// when none was stored.
func (it *InvoiceItem) Rate() float64 {
	if it.TaxRate == nil {
		return DefaultTaxRate
	}
	return *it.TaxRate
}
