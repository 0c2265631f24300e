package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pabloubeiracarramal/factor-back/internal/models"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

type companyRepo struct {
	db DB
}

func NewCompanyRepo(db DB) CompanyRepository {
	return &companyRepo{db: db}
}

const companyColumns = `id, name, street, postal_code, city, state, country, phone, email, vat_id, bank_account, created_at, updated_at`

func (r *companyRepo) Create(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO companies (id, name, street, postal_code, city, state, country, phone, email, vat_id, bank_account, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, company.ID, company.Name, company.Street, company.PostalCode, company.City, company.State, company.Country, company.Phone, company.Email, company.VATID, company.BankAccount)
	return err
}

func (r *companyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company := &models.Company{}
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&company.ID, &company.Name, &company.Street, &company.PostalCode, &company.City, &company.State, &company.Country, &company.Phone, &company.Email, &company.VATID, &company.BankAccount, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return company, nil
}

func (r *companyRepo) Update(ctx context.Context, company *models.Company) error {
	query := `
		UPDATE companies
		SET name = $1, street = $2, postal_code = $3, city = $4, state = $5, country = $6, phone = $7, email = $8, vat_id = $9, bank_account = $10, updated_at = NOW()
		WHERE id = $11
	`
	_, err := r.db.Exec(ctx, query, company.Name, company.Street, company.PostalCode, company.City, company.State, company.Country, company.Phone, company.Email, company.VATID, company.BankAccount, company.ID)
	return err
}

func (r *companyRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM companies`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
