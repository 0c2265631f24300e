package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice statuses. OVERDUE is never stored; it is derived from a PENDING
// invoice whose due date has passed (see DisplayStatus).
const (
	StatusDraft   = "DRAFT"
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
	StatusOverdue = "OVERDUE"
)

// Payment methods accepted on invoices.
const (
	PaymentBankTransfer = "BANK_TRANSFER"
	PaymentCash         = "CASH"
	PaymentCreditCard   = "CREDIT_CARD"
	PaymentPaypal       = "PAYPAL"
	PaymentOther        = "OTHER"
)

// DefaultTaxRate is applied to items created without an explicit rate.
const DefaultTaxRate = 21.0

// DefaultDueDays is the payment term used when none is given.
const DefaultDueDays = 30

type Invoice struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	CompanyID     uuid.UUID  `json:"company_id" db:"company_id"`
	ClientID      uuid.UUID  `json:"client_id" db:"client_id"`
	Series        string     `json:"series" db:"series"`
	Number        string     `json:"number" db:"number"`
	Status        string     `json:"status" db:"status"`
	Currency      string     `json:"currency" db:"currency"`
	EmissionDate  time.Time  `json:"emission_date" db:"emission_date"`
	OperationDate *time.Time `json:"operation_date" db:"operation_date"`
	DueDays       int        `json:"due_days" db:"due_days"`
	DueDate       time.Time  `json:"due_date" db:"due_date"`
	Description   *string    `json:"description" db:"description"`
	Reference     *string    `json:"reference" db:"reference"`
	Observations  *string    `json:"observations" db:"observations"`
	PaymentMethod *string    `json:"payment_method" db:"payment_method"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`

	Items []InvoiceItem `json:"items,omitempty" db:"-"`
}

// DraftEmissionDate is the sentinel emission date a draft carries until it
// is confirmed and the real emission date is locked in.
func DraftEmissionDate() time.Time {
	return time.Unix(0, 0).UTC()
}

// DisplayStatus returns the status to show callers: the stored status,
// except that a pending invoice past its due date reads as OVERDUE.
func (i *Invoice) DisplayStatus(now time.Time) string {
	if i.Status == StatusPending && i.DueDate.Before(now) {
		return StatusOverdue
	}
	return i.Status
}

// ValidStatus reports whether s is a storable invoice status.
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusPending || s == StatusPaid
}

// ValidStatusFilter reports whether s may be used as a list filter.
// OVERDUE is accepted here even though it is never stored.
func ValidStatusFilter(s string) bool {
	return ValidStatus(s) || s == StatusOverdue
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentBankTransfer, PaymentCash, PaymentCreditCard, PaymentPaypal, PaymentOther:
		return true
	}
	return false
}
