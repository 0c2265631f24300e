package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pabloubeiracarramal/factor-back/internal/models"
)

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Client, error)
	GetByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Client, error)
}

type clientRepo struct {
	db DB
}

func NewClientRepo(db DB) ClientRepository {
	return &clientRepo{db: db}
}

const clientColumns = `id, company_id, name, street, postal_code, city, state, country, phone, email, vat_id, created_at, updated_at`

func scanClient(row pgx.Row) (*models.Client, error) {
	client := &models.Client{}
	err := row.Scan(&client.ID, &client.CompanyID, &client.Name, &client.Street, &client.PostalCode, &client.City, &client.State, &client.Country, &client.Phone, &client.Email, &client.VATID, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *clientRepo) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (id, company_id, name, street, postal_code, city, state, country, phone, email, vat_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, client.ID, client.CompanyID, client.Name, client.Street, client.PostalCode, client.City, client.State, client.Country, client.Phone, client.Email, client.VATID)
	return err
}

func (r *clientRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE company_id = $1 AND id = $2`
	client, err := scanClient(r.db.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}

func (r *clientRepo) GetByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE company_id = $1 AND id = ANY($2)`
	rows, err := r.db.Query(ctx, query, companyID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*models.Client)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		byID[client.ID] = client
	}
	return byID, rows.Err()
}

func (r *clientRepo) Update(ctx context.Context, client *models.Client) error {
	query := `
		UPDATE clients
		SET name = $1, street = $2, postal_code = $3, city = $4, state = $5, country = $6, phone = $7, email = $8, vat_id = $9, updated_at = NOW()
		WHERE company_id = $10 AND id = $11
	`
	_, err := r.db.Exec(ctx, query, client.Name, client.Street, client.PostalCode, client.City, client.State, client.Country, client.Phone, client.Email, client.VATID, client.CompanyID, client.ID)
	return err
}

func (r *clientRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM clients WHERE company_id = $1 AND id = $2`, companyID, id)
	return err
}

func (r *clientRepo) List(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}
