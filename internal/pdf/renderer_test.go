package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pabloubeiracarramal/factor-back/internal/models"
)

func stringPtr(s string) *string  { return &s }
func floatPtr(f float64) *float64 { return &f }

func sampleInput() Input {
	emission := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	return Input{
		Invoice: models.Invoice{
			ID:           uuid.New(),
			Series:       "2026",
			Number:       "0012",
			Status:       models.StatusPending,
			Currency:     "EUR",
			EmissionDate: emission,
			DueDays:      30,
			DueDate:      emission.AddDate(0, 0, 30),
			Reference:    stringPtr("PO-4411"),
			Items: []models.InvoiceItem{
				{Name: "Consultoría", Description: stringPtr("Horas de desarrollo"), Quantity: 8, UnitPrice: 90, TaxRate: floatPtr(21)},
				{Name: "Desplazamiento", Quantity: 1, UnitPrice: 120, TaxRate: floatPtr(10)},
			},
		},
		Company: models.Company{
			Name:        "Talleres García S.L.",
			Street:      "Calle Mayor 5",
			PostalCode:  "15001",
			City:        "A Coruña",
			Country:     "España",
			VATID:       "B12345678",
			BankAccount: "ES91 2100 0418 4502 0005 1332",
		},
		Client: models.Client{
			Name:  "Construcciones Pérez",
			City:  "Vigo",
			VATID: "B87654321",
		},
	}
}

func TestRender_ProducesPDF(t *testing.T) {
	r := NewRenderer(DefaultLayout())

	out, err := r.Render(sampleInput())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 1000)
}

func TestRender_DraftWithoutNumber(t *testing.T) {
	r := NewRenderer(DefaultLayout())
	in := sampleInput()
	in.Invoice.Number = ""
	in.Invoice.Status = models.StatusDraft
	in.Invoice.EmissionDate = models.DraftEmissionDate()

	out, err := r.Render(in)

	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRender_ObservationsChangeOutput(t *testing.T) {
	r := NewRenderer(DefaultLayout())

	plain, err := r.Render(sampleInput())
	require.NoError(t, err)

	in := sampleInput()
	in.Invoice.Observations = stringPtr("Pago a 30 días. Recargo por demora según ley.")
	withObs, err := r.Render(in)
	require.NoError(t, err)

	assert.Greater(t, len(withObs), len(plain))
}

func TestItemRowCells(t *testing.T) {
	it := models.InvoiceItem{Name: "Consultoría", Quantity: 8, UnitPrice: 90, TaxRate: floatPtr(21)}

	cells := itemRowCells(it)

	assert.Equal(t, "8", cells[0])
	assert.Equal(t, "", cells[1])
	assert.Equal(t, "Consultoría", cells[2])
	assert.Equal(t, "90.00", cells[3])
	assert.Equal(t, "21.00", cells[4])
	assert.Equal(t, "720.00", cells[5])
	assert.Equal(t, "871.20", cells[6])
}

func TestItemRowCells_ZeroQuantityIsNoteRow(t *testing.T) {
	it := models.InvoiceItem{Name: "Fase 1", Quantity: 0, UnitPrice: 90, TaxRate: floatPtr(21)}

	cells := itemRowCells(it)

	assert.Equal(t, [7]string{"", "", "Fase 1", "", "", "", ""}, cells)
}

func TestItemRowCells_DefaultTaxRate(t *testing.T) {
	it := models.InvoiceItem{Name: "Servicio", Quantity: 1, UnitPrice: 100}

	cells := itemRowCells(it)

	assert.Equal(t, "21.00", cells[4])
	assert.Equal(t, "121.00", cells[6])
}

func TestEffectiveMethod(t *testing.T) {
	assert.Equal(t, models.PaymentBankTransfer, effectiveMethod(nil))
	assert.Equal(t, models.PaymentBankTransfer, effectiveMethod(stringPtr("")))
	assert.Equal(t, models.PaymentCash, effectiveMethod(stringPtr(models.PaymentCash)))
}

func TestPartyLines(t *testing.T) {
	lines := partyLines("Calle Mayor 5", "15001", "A Coruña", "", "España", "", "info@talleres.es", "B12345678")

	assert.Equal(t, []string{
		"Calle Mayor 5",
		"15001, A Coruña",
		"España",
		"info@talleres.es",
		"B12345678",
	}, lines)
}

func TestPartyLines_AllEmpty(t *testing.T) {
	assert.Empty(t, partyLines("", "", "", "", "", "", "", ""))
}

func TestJoinItemNames(t *testing.T) {
	items := []models.InvoiceItem{{Name: "Consultoría"}, {Name: "Desplazamiento"}}
	assert.Equal(t, "Consultoría, Desplazamiento", joinItemNames(items))
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "8", formatQuantity(8))
	assert.Equal(t, "2.50", formatQuantity(2.5))
}
