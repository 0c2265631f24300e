package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/pabloubeiracarramal/factor-back/internal/models"
)

type InvoiceRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      InvoiceRepository
	companyID uuid.UUID
	invoiceID uuid.UUID
	context   context.Context
}

func (suite *InvoiceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewInvoiceRepo(mock)
	suite.companyID = uuid.New()
	suite.invoiceID = uuid.New()
	suite.context = context.Background()
}

func (suite *InvoiceRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestInvoiceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceRepoTestSuite))
}

func (suite *InvoiceRepoTestSuite) TestConfirmDraft_AssignsNextNumber() {
	emission := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	due := emission.AddDate(0, 0, 30)
	lockKey := suite.companyID.String() + "/2026"

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtextextended\(\$1, 0\)\)`).
		WithArgs(lockKey).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM invoices WHERE company_id = \$1 AND series = \$2 AND status <> 'DRAFT'`).
		WithArgs(suite.companyID, "2026").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))
	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs("0005", models.StatusPending, emission, due, suite.companyID, suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	number, err := suite.repo.ConfirmDraft(suite.context, suite.companyID, suite.invoiceID, "2026", models.StatusPending, emission, due)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "0005", number)
}

func (suite *InvoiceRepoTestSuite) TestConfirmDraft_FirstNumberInSeries() {
	emission := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	due := emission.AddDate(0, 0, 15)

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(suite.companyID.String() + "/B").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM invoices`).
		WithArgs(suite.companyID, "B").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs("0001", models.StatusPending, emission, due, suite.companyID, suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	number, err := suite.repo.ConfirmDraft(suite.context, suite.companyID, suite.invoiceID, "B", models.StatusPending, emission, due)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "0001", number)
}

func (suite *InvoiceRepoTestSuite) TestConfirmDraft_RowNoLongerDraft() {
	emission := time.Now()
	due := emission.AddDate(0, 0, 30)

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(suite.companyID.String() + "/2026").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM invoices`).
		WithArgs(suite.companyID, "2026").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))
	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs("0008", models.StatusPending, emission, due, suite.companyID, suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectRollback()

	_, err := suite.repo.ConfirmDraft(suite.context, suite.companyID, suite.invoiceID, "2026", models.StatusPending, emission, due)

	assert.True(suite.T(), errors.Is(err, ErrDraftGone))
}

func (suite *InvoiceRepoTestSuite) TestCountConfirmed() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM invoices WHERE company_id = \$1 AND series = \$2 AND status <> 'DRAFT'`).
		WithArgs(suite.companyID, "2026").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))

	count, err := suite.repo.CountConfirmed(suite.context, suite.companyID, "2026")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 12, count)
}

func (suite *InvoiceRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT .+ FROM invoices WHERE id = \$1`).
		WithArgs(suite.invoiceID).
		WillReturnError(pgx.ErrNoRows)

	invoice, err := suite.repo.GetByID(suite.context, suite.invoiceID)

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), invoice)
}

func (suite *InvoiceRepoTestSuite) TestGetByID_LoadsItemsInOrder() {
	clientID := uuid.New()
	emission := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := emission.AddDate(0, 0, 30)
	created := time.Now()

	suite.mock.ExpectQuery(`SELECT .+ FROM invoices WHERE id = \$1`).
		WithArgs(suite.invoiceID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "company_id", "client_id", "series", "number", "status", "currency",
			"emission_date", "operation_date", "due_days", "due_date",
			"description", "reference", "observations", "payment_method", "created_at", "updated_at",
		}).AddRow(
			suite.invoiceID, suite.companyID, clientID, "2026", "0002", models.StatusPending, "EUR",
			emission, (*time.Time)(nil), 30, due,
			(*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), created, created,
		))

	itemID1 := uuid.New()
	itemID2 := uuid.New()
	suite.mock.ExpectQuery(`SELECT id, invoice_id, name, description, quantity, unit_price, tax_rate, position`).
		WithArgs([]uuid.UUID{suite.invoiceID}).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "invoice_id", "name", "description", "quantity", "unit_price", "tax_rate", "position",
		}).
			AddRow(itemID1, suite.invoiceID, "Consulting", (*string)(nil), 8.0, 90.0, floatRef(21), 0).
			AddRow(itemID2, suite.invoiceID, "Travel", (*string)(nil), 1.0, 120.0, floatRef(10), 1))

	invoice, err := suite.repo.GetByID(suite.context, suite.invoiceID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "0002", invoice.Number)
	assert.Len(suite.T(), invoice.Items, 2)
	assert.Equal(suite.T(), "Consulting", invoice.Items[0].Name)
	assert.Equal(suite.T(), 1, invoice.Items[1].Position)
}

func (suite *InvoiceRepoTestSuite) TestFindAll_OverdueTranslatesToPendingPastDue() {
	status := models.StatusOverdue

	suite.mock.ExpectQuery(`SELECT .+ FROM invoices WHERE company_id = \$1 AND status = 'PENDING' AND due_date < NOW\(\) ORDER BY created_at DESC`).
		WithArgs(suite.companyID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "company_id", "client_id", "series", "number", "status", "currency",
			"emission_date", "operation_date", "due_days", "due_date",
			"description", "reference", "observations", "payment_method", "created_at", "updated_at",
		}))

	invoices, err := suite.repo.FindAll(suite.context, suite.companyID, InvoiceFilter{Status: &status})

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), invoices)
}

func (suite *InvoiceRepoTestSuite) TestUpdateStatus() {
	suite.mock.ExpectExec(`UPDATE invoices SET status = \$1, updated_at = NOW\(\) WHERE company_id = \$2 AND id = \$3`).
		WithArgs(models.StatusPaid, suite.companyID, suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateStatus(suite.context, suite.companyID, suite.invoiceID, models.StatusPaid)

	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRepoTestSuite) TestDelete() {
	suite.mock.ExpectExec(`DELETE FROM invoice_items WHERE invoice_id = \$1`).
		WithArgs(suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	suite.mock.ExpectExec(`DELETE FROM invoices WHERE company_id = \$1 AND id = \$2`).
		WithArgs(suite.companyID, suite.invoiceID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(suite.T(), suite.repo.DeleteItems(suite.context, suite.invoiceID))
	assert.NoError(suite.T(), suite.repo.Delete(suite.context, suite.companyID, suite.invoiceID))
}

func floatRef(f float64) *float64 { return &f }
