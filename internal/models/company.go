package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant: the account that owns invoices, clients and
// users. It is also the issuer printed on every document.
type Company struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Street      string    `json:"street" db:"street"`
	PostalCode  string    `json:"postal_code" db:"postal_code"`
	City        string    `json:"city" db:"city"`
	State       string    `json:"state" db:"state"`
	Country     string    `json:"country" db:"country"`
	Phone       string    `json:"phone" db:"phone"`
	Email       string    `json:"email" db:"email"`
	VATID       string    `json:"vat_id" db:"vat_id"`
	BankAccount string    `json:"bank_account" db:"bank_account"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
