package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a billable counterparty belonging to one company.
type Client struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CompanyID  uuid.UUID `json:"company_id" db:"company_id"`
	Name       string    `json:"name" db:"name"`
	Street     string    `json:"street" db:"street"`
	PostalCode string    `json:"postal_code" db:"postal_code"`
	City       string    `json:"city" db:"city"`
	State      string    `json:"state" db:"state"`
	Country    string    `json:"country" db:"country"`
	Phone      string    `json:"phone" db:"phone"`
	Email      string    `json:"email" db:"email"`
	VATID      string    `json:"vat_id" db:"vat_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
