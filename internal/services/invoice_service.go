package services

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pabloubeiracarramal/factor-back/internal/caching"
	"github.com/pabloubeiracarramal/factor-back/internal/common"
	"github.com/pabloubeiracarramal/factor-back/internal/models"
	"github.com/pabloubeiracarramal/factor-back/internal/money"
	"github.com/pabloubeiracarramal/factor-back/internal/repositories"
)

// ItemInput is one line item as supplied by the caller.
type ItemInput struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unit_price"`
	TaxRate     *float64 `json:"tax_rate"`
}

// CreateInvoiceInput creates an invoice. A non-DRAFT status requests
// immediate confirmation: the number is assigned and the emission date is
// the provided one or now.
type CreateInvoiceInput struct {
	ClientID      uuid.UUID   `json:"client_id"`
	Series        *string     `json:"series"`
	Status        *string     `json:"status"`
	Currency      *string     `json:"currency"`
	EmissionDate  *time.Time  `json:"emission_date"`
	OperationDate *time.Time  `json:"operation_date"`
	DueDays       *int        `json:"due_days"`
	Description   *string     `json:"description"`
	Reference     *string     `json:"reference"`
	Observations  *string     `json:"observations"`
	PaymentMethod *string     `json:"payment_method"`
	Items         []ItemInput `json:"items"`
}

// UpdateInvoiceInput patches an invoice. Nil fields are left untouched.
// Items, when present, fully replace the stored set.
type UpdateInvoiceInput struct {
	ClientID      *uuid.UUID   `json:"client_id"`
	Series        *string      `json:"series"`
	Currency      *string      `json:"currency"`
	EmissionDate  *time.Time   `json:"emission_date"`
	OperationDate *time.Time   `json:"operation_date"`
	DueDays       *int         `json:"due_days"`
	Description   *string      `json:"description"`
	Reference     *string      `json:"reference"`
	Observations  *string      `json:"observations"`
	PaymentMethod *string      `json:"payment_method"`
	Items         *[]ItemInput `json:"items"`
}

// InvoiceQuery composes the stored filters with the in-memory total range
// (total is not a stored column, so the range is applied after computing
// totals).
type InvoiceQuery struct {
	repositories.InvoiceFilter
	MinTotal *float64
	MaxTotal *float64
}

// InvoiceSummary is an invoice with its computed totals and display status.
type InvoiceSummary struct {
	*models.Invoice
	Totals        money.Totals `json:"totals"`
	DisplayStatus string       `json:"display_status"`
}

type InvoiceService interface {
	Create(ctx context.Context, companyID uuid.UUID, in *CreateInvoiceInput) (*models.Invoice, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error)
	Confirm(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error)
	MarkPaid(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error)
	Update(ctx context.Context, companyID, id uuid.UUID, patch *UpdateInvoiceInput) (*models.Invoice, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	FindAll(ctx context.Context, companyID uuid.UUID, query InvoiceQuery) ([]*InvoiceSummary, error)
}

type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	clientRepo  repositories.ClientRepository
	cache       caching.CacheService
}

func NewInvoiceService(invoiceRepo repositories.InvoiceRepository, clientRepo repositories.ClientRepository, cache caching.CacheService) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		cache:       cache,
	}
}

func validateItems(items []ItemInput) error {
	for _, it := range items {
		if it.Name == "" {
			return &common.ValidationError{Field: "items", Message: "item name is required"}
		}
		if it.Quantity < 0 {
			return &common.ValidationError{Field: "items", Message: "item quantity cannot be negative"}
		}
		if it.UnitPrice < 0 {
			return &common.ValidationError{Field: "items", Message: "item unit price cannot be negative"}
		}
		if it.TaxRate != nil && (*it.TaxRate < 0 || *it.TaxRate > 100) {
			return &common.ValidationError{Field: "items", Message: "item tax rate must be between 0 and 100"}
		}
	}
	return nil
}

func buildItems(items []ItemInput) []models.InvoiceItem {
	built := make([]models.InvoiceItem, 0, len(items))
	for _, in := range items {
		rate := in.TaxRate
		if rate == nil {
			def := models.DefaultTaxRate
			rate = &def
		}
		built = append(built, models.InvoiceItem{
			ID:          uuid.New(),
			Name:        in.Name,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			TaxRate:     rate,
		})
	}
	return built
}

func (s *invoiceService) Create(ctx context.Context, companyID uuid.UUID, in *CreateInvoiceInput) (*models.Invoice, error) {
	if in.ClientID == uuid.Nil {
		return nil, &common.ValidationError{Field: "client_id", Message: "client_id is required"}
	}
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}
	if in.Status != nil && !models.ValidStatus(*in.Status) {
		return nil, &common.ValidationError{Field: "status", Message: "status must be DRAFT, PENDING or PAID"}
	}
	if in.PaymentMethod != nil && !models.ValidPaymentMethod(*in.PaymentMethod) {
		return nil, &common.ValidationError{Field: "payment_method", Message: "unknown payment method"}
	}

	client, err := s.clientRepo.GetByID(ctx, companyID, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, &common.NotFoundError{Resource: "client", ID: in.ClientID}
	}

	now := time.Now()

	series := strconv.Itoa(now.Year())
	if in.Series != nil && *in.Series != "" {
		series = *in.Series
	}
	dueDays := models.DefaultDueDays
	if in.DueDays != nil {
		dueDays = *in.DueDays
	}
	currency := "EUR"
	if in.Currency != nil && *in.Currency != "" {
		currency = *in.Currency
	}

	invoice := &models.Invoice{
		ID:            uuid.New(),
		CompanyID:     companyID,
		ClientID:      in.ClientID,
		Series:        series,
		Number:        "",
		Status:        models.StatusDraft,
		Currency:      currency,
		EmissionDate:  models.DraftEmissionDate(),
		OperationDate: in.OperationDate,
		DueDays:       dueDays,
		DueDate:       now.AddDate(0, 0, dueDays),
		Description:   in.Description,
		Reference:     in.Reference,
		Observations:  in.Observations,
		PaymentMethod: in.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
		Items:         buildItems(in.Items),
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	// A non-draft creation consumes a number right away, so drafts created
	// concurrently never collide on one.
	if in.Status != nil && *in.Status != models.StatusDraft {
		emission := now
		if in.EmissionDate != nil {
			emission = *in.EmissionDate
		}
		due := emission.AddDate(0, 0, dueDays)

		number, err := s.invoiceRepo.ConfirmDraft(ctx, companyID, invoice.ID, series, *in.Status, emission, due)
		if err != nil {
			// The caller asked for a confirmed invoice; do not leave the
			// just-inserted draft behind when confirmation fails.
			if delErr := s.invoiceRepo.DeleteItems(ctx, invoice.ID); delErr != nil {
				log.Printf("Failed to remove items of unconfirmable invoice %s: %v", invoice.ID, delErr)
			} else if delErr := s.invoiceRepo.Delete(ctx, companyID, invoice.ID); delErr != nil {
				log.Printf("Failed to remove unconfirmable invoice %s: %v", invoice.ID, delErr)
			}
			return nil, err
		}
		invoice.Number = number
		invoice.Status = *in.Status
		invoice.EmissionDate = emission
		invoice.DueDate = due
	}

	s.invalidateStats(ctx, companyID)
	return invoice, nil
}

// getOwned loads an invoice and enforces the tenant boundary.
func (s *invoiceService) getOwned(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, &common.NotFoundError{Resource: "invoice", ID: id}
	}
	if invoice.CompanyID != companyID {
		return nil, &common.ForbiddenError{Resource: "invoice", ID: id}
	}
	return invoice, nil
}

func (s *invoiceService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error) {
	return s.getOwned(ctx, companyID, id)
}

// Confirm assigns the next number in the invoice's series, locks the
// emission date to now and moves the invoice to PENDING. Legal only from
// DRAFT; the number is assigned exactly once.
func (s *invoiceService) Confirm(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != models.StatusDraft {
		return nil, &common.StateError{
			Rule:      "only draft invoices can be confirmed",
			InvoiceID: id,
			Expected:  models.StatusDraft,
			Actual:    invoice.Status,
		}
	}

	now := time.Now()
	due := now.AddDate(0, 0, invoice.DueDays)

	number, err := s.invoiceRepo.ConfirmDraft(ctx, companyID, id, invoice.Series, models.StatusPending, now, due)
	if err != nil {
		if errors.Is(err, repositories.ErrDraftGone) {
			return nil, &common.StateError{
				Rule:      "only draft invoices can be confirmed",
				InvoiceID: id,
				Expected:  models.StatusDraft,
				Actual:    models.StatusPending,
			}
		}
		return nil, err
	}

	invoice.Number = number
	invoice.Status = models.StatusPending
	invoice.EmissionDate = now
	invoice.DueDate = due
	invoice.UpdatedAt = now

	s.invalidateStats(ctx, companyID)
	return invoice, nil
}

// MarkPaid moves a PENDING invoice to PAID. No other field changes; paying
// an already paid invoice is rejected, not silently accepted.
func (s *invoiceService) MarkPaid(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != models.StatusPending {
		return nil, &common.StateError{
			Rule:      "only pending invoices can be marked paid",
			InvoiceID: id,
			Expected:  models.StatusPending,
			Actual:    invoice.Status,
		}
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, companyID, id, models.StatusPaid); err != nil {
		return nil, err
	}
	invoice.Status = models.StatusPaid
	invoice.UpdatedAt = time.Now()

	s.invalidateStats(ctx, companyID)
	return invoice, nil
}

func (s *invoiceService) Update(ctx context.Context, companyID, id uuid.UUID, patch *UpdateInvoiceInput) (*models.Invoice, error) {
	invoice, err := s.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if patch.Series != nil && invoice.Number != "" && *patch.Series != invoice.Series {
		return nil, &common.StateError{
			Rule:      "series is immutable once a number is assigned",
			InvoiceID: id,
			Expected:  invoice.Series,
			Actual:    *patch.Series,
		}
	}
	if patch.PaymentMethod != nil && !models.ValidPaymentMethod(*patch.PaymentMethod) {
		return nil, &common.ValidationError{Field: "payment_method", Message: "unknown payment method"}
	}
	// A rejected patch must not write anything, items included.
	if patch.Items != nil {
		if err := validateItems(*patch.Items); err != nil {
			return nil, err
		}
	}

	if patch.ClientID != nil {
		client, err := s.clientRepo.GetByID(ctx, companyID, *patch.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, &common.NotFoundError{Resource: "client", ID: *patch.ClientID}
		}
		invoice.ClientID = *patch.ClientID
	}

	if patch.Series != nil {
		invoice.Series = *patch.Series
	}
	if patch.Currency != nil {
		invoice.Currency = *patch.Currency
	}
	if patch.OperationDate != nil {
		invoice.OperationDate = patch.OperationDate
	}
	if patch.Description != nil {
		invoice.Description = patch.Description
	}
	if patch.Reference != nil {
		invoice.Reference = patch.Reference
	}
	if patch.Observations != nil {
		invoice.Observations = patch.Observations
	}
	if patch.PaymentMethod != nil {
		invoice.PaymentMethod = patch.PaymentMethod
	}

	datesChanged := false
	if patch.EmissionDate != nil {
		invoice.EmissionDate = *patch.EmissionDate
		datesChanged = true
	}
	if patch.DueDays != nil {
		invoice.DueDays = *patch.DueDays
		datesChanged = true
	}
	if datesChanged {
		// A draft has no real emission date yet, so its due date runs from
		// today; anything confirmed runs from the (possibly new) emission
		// date.
		base := invoice.EmissionDate
		if invoice.Status == models.StatusDraft {
			base = time.Now()
		}
		invoice.DueDate = base.AddDate(0, 0, invoice.DueDays)
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	if patch.Items != nil {
		items := buildItems(*patch.Items)
		if err := s.invoiceRepo.ReplaceItems(ctx, id, items); err != nil {
			return nil, err
		}
		invoice.Items = items
	}

	invoice.UpdatedAt = time.Now()
	s.invalidateStats(ctx, companyID)
	return invoice, nil
}

// Delete removes the items first, then the invoice, honoring the
// referential dependency explicitly instead of leaning on a cascade.
func (s *invoiceService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, companyID, id); err != nil {
		return err
	}
	if err := s.invoiceRepo.DeleteItems(ctx, id); err != nil {
		return err
	}
	if err := s.invoiceRepo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	s.invalidateStats(ctx, companyID)
	return nil
}

func (s *invoiceService) FindAll(ctx context.Context, companyID uuid.UUID, query InvoiceQuery) ([]*InvoiceSummary, error) {
	if query.Status != nil && !models.ValidStatusFilter(*query.Status) {
		return nil, &common.ValidationError{Field: "status", Message: "status must be DRAFT, PENDING, PAID or OVERDUE"}
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, companyID, query.InvoiceFilter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	summaries := make([]*InvoiceSummary, 0, len(invoices))
	for _, invoice := range invoices {
		totals := money.ComputeTotals(invoice.Items)
		if query.MinTotal != nil && totals.TotalWithTax < *query.MinTotal {
			continue
		}
		if query.MaxTotal != nil && totals.TotalWithTax > *query.MaxTotal {
			continue
		}
		summaries = append(summaries, &InvoiceSummary{
			Invoice:       invoice,
			Totals:        totals,
			DisplayStatus: invoice.DisplayStatus(now),
		})
	}
	return summaries, nil
}

func (s *invoiceService) invalidateStats(ctx context.Context, companyID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDashboardStats(ctx, companyID); err != nil {
		log.Printf("Failed to invalidate dashboard stats for company %s: %v", companyID, err)
	}
}
