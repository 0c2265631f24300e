package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pabloubeiracarramal/factor-back/internal/models"
)

// ErrDraftGone is returned by ConfirmDraft when the targeted row is no
// longer a draft by the time the serialized update runs.
var ErrDraftGone = errors.New("invoice is no longer a draft")

// InvoiceFilter narrows FindAll. All set fields compose conjunctively.
// StatusOverdue translates to pending-with-past-due-date since OVERDUE is
// never stored.
type InvoiceFilter struct {
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Status      *string
	ClientID    *uuid.UUID
	Reference   *string
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	UpdateStatus(ctx context.Context, companyID, id uuid.UUID, status string) error
	ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []models.InvoiceItem) error
	DeleteItems(ctx context.Context, invoiceID uuid.UUID) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	FindAll(ctx context.Context, companyID uuid.UUID, filter InvoiceFilter) ([]*models.Invoice, error)
	CountConfirmed(ctx context.Context, companyID uuid.UUID, series string) (int, error)
	ConfirmDraft(ctx context.Context, companyID, id uuid.UUID, series, status string, emission, due time.Time) (string, error)
}

type invoiceRepo struct {
	db DB
}

func NewInvoiceRepo(db DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, company_id, client_id, series, number, status, currency, emission_date, operation_date, due_days, due_date, description, reference, observations, payment_method, created_at, updated_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	inv := &models.Invoice{}
	err := row.Scan(&inv.ID, &inv.CompanyID, &inv.ClientID, &inv.Series, &inv.Number, &inv.Status, &inv.Currency, &inv.EmissionDate, &inv.OperationDate, &inv.DueDays, &inv.DueDate, &inv.Description, &inv.Reference, &inv.Observations, &inv.PaymentMethod, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO invoices (id, company_id, client_id, series, number, status, currency, emission_date, operation_date, due_days, due_date, description, reference, observations, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, query, invoice.ID, invoice.CompanyID, invoice.ClientID, invoice.Series, invoice.Number, invoice.Status, invoice.Currency, invoice.EmissionDate, invoice.OperationDate, invoice.DueDays, invoice.DueDate, invoice.Description, invoice.Reference, invoice.Observations, invoice.PaymentMethod)
	if err != nil {
		return err
	}

	if err := insertItems(ctx, tx, invoice.ID, invoice.Items); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertItems(ctx context.Context, tx pgx.Tx, invoiceID uuid.UUID, items []models.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, name, description, quantity, unit_price, tax_rate, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i := range items {
		it := &items[i]
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		it.InvoiceID = invoiceID
		it.Position = i
		if _, err := tx.Exec(ctx, query, it.ID, it.InvoiceID, it.Name, it.Description, it.Quantity, it.UnitPrice, it.TaxRate, it.Position); err != nil {
			return err
		}
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	items, err := r.itemsFor(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	inv.Items = items[id]
	return inv, nil
}

func (r *invoiceRepo) itemsFor(ctx context.Context, invoiceIDs []uuid.UUID) (map[uuid.UUID][]models.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, name, description, quantity, unit_price, tax_rate, position
		FROM invoice_items
		WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, position
	`
	rows, err := r.db.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byInvoice := make(map[uuid.UUID][]models.InvoiceItem)
	for rows.Next() {
		var it models.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Name, &it.Description, &it.Quantity, &it.UnitPrice, &it.TaxRate, &it.Position); err != nil {
			return nil, err
		}
		byInvoice[it.InvoiceID] = append(byInvoice[it.InvoiceID], it)
	}
	return byInvoice, rows.Err()
}

func (r *invoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	query := `
		UPDATE invoices
		SET client_id = $1, series = $2, currency = $3, emission_date = $4, operation_date = $5, due_days = $6, due_date = $7, description = $8, reference = $9, observations = $10, payment_method = $11, updated_at = NOW()
		WHERE company_id = $12 AND id = $13
	`
	_, err := r.db.Exec(ctx, query, invoice.ClientID, invoice.Series, invoice.Currency, invoice.EmissionDate, invoice.OperationDate, invoice.DueDays, invoice.DueDate, invoice.Description, invoice.Reference, invoice.Observations, invoice.PaymentMethod, invoice.CompanyID, invoice.ID)
	return err
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, companyID, id uuid.UUID, status string) error {
	query := `UPDATE invoices SET status = $1, updated_at = NOW() WHERE company_id = $2 AND id = $3`
	_, err := r.db.Exec(ctx, query, status, companyID, id)
	return err
}

func (r *invoiceRepo) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []models.InvoiceItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return err
	}
	if err := insertItems(ctx, tx, invoiceID, items); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *invoiceRepo) DeleteItems(ctx context.Context, invoiceID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID)
	return err
}

// Delete removes the invoice row only. Callers delete items first; the
// two-step order holds even where the schema has no cascading delete.
func (r *invoiceRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE company_id = $1 AND id = $2`, companyID, id)
	return err
}

func (r *invoiceRepo) FindAll(ctx context.Context, companyID uuid.UUID, filter InvoiceFilter) ([]*models.Invoice, error) {
	var (
		conds = []string{"company_id = $1"}
		args  = []any{companyID}
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.CreatedFrom != nil {
		add("created_at >= $%d", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		add("created_at <= $%d", *filter.CreatedTo)
	}
	if filter.Status != nil {
		if *filter.Status == models.StatusOverdue {
			conds = append(conds, fmt.Sprintf("status = '%s' AND due_date < NOW()", models.StatusPending))
		} else {
			add("status = $%d", *filter.Status)
		}
	}
	if filter.ClientID != nil {
		add("client_id = $%d", *filter.ClientID)
	}
	if filter.Reference != nil {
		add("reference ILIKE $%d", "%"+*filter.Reference+"%")
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	var ids []uuid.UUID
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return invoices, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		inv.Items = items[inv.ID]
	}
	return invoices, nil
}

func (r *invoiceRepo) CountConfirmed(ctx context.Context, companyID uuid.UUID, series string) (int, error) {
	query := `SELECT COUNT(*) FROM invoices WHERE company_id = $1 AND series = $2 AND status <> 'DRAFT'`
	var count int
	err := r.db.QueryRow(ctx, query, companyID, series).Scan(&count)
	return count, err
}

// ConfirmDraft assigns the next sequential number for (company, series) and
// promotes the draft in one transaction. An advisory lock keyed on the pair
// serializes racing confirmations so the count-then-assign sequence cannot
// hand out duplicates.
func (r *invoiceRepo) ConfirmDraft(ctx context.Context, companyID, id uuid.UUID, series, status string, emission, due time.Time) (string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	lockKey := companyID.String() + "/" + series
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
		return "", err
	}

	var count int
	countQuery := `SELECT COUNT(*) FROM invoices WHERE company_id = $1 AND series = $2 AND status <> 'DRAFT'`
	if err := tx.QueryRow(ctx, countQuery, companyID, series).Scan(&count); err != nil {
		return "", err
	}
	number := fmt.Sprintf("%04d", count+1)

	updateQuery := `
		UPDATE invoices
		SET number = $1, status = $2, emission_date = $3, due_date = $4, updated_at = NOW()
		WHERE company_id = $5 AND id = $6 AND status = 'DRAFT'
	`
	tag, err := tx.Exec(ctx, updateQuery, number, status, emission, due, companyID, id)
	if err != nil {
		return "", err
	}
	if tag.RowsAffected() == 0 {
		return "", ErrDraftGone
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return number, nil
}
