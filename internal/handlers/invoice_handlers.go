package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pabloubeiracarramal/factor-back/internal/common"
	"github.com/pabloubeiracarramal/factor-back/internal/pdf"
	"github.com/pabloubeiracarramal/factor-back/internal/repositories"
	"github.com/pabloubeiracarramal/factor-back/internal/services"
)

// InvoiceHandlers handles HTTP requests for invoices.
type InvoiceHandlers struct {
	invoiceService services.InvoiceService
	companyRepo    repositories.CompanyRepository
	clientRepo     repositories.ClientRepository
	renderer       *pdf.Renderer
	archive        services.ArchiveService
}

func NewInvoiceHandlers(invoiceService services.InvoiceService, companyRepo repositories.CompanyRepository, clientRepo repositories.ClientRepository, renderer *pdf.Renderer, archive services.ArchiveService) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService: invoiceService,
		companyRepo:    companyRepo,
		clientRepo:     clientRepo,
		renderer:       renderer,
		archive:        archive,
	}
}

// CreateInvoice handles POST /invoices.
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CreateInvoiceInput
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	invoice, err := h.invoiceService.Create(ctx, companyID, &req)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, invoice)
}

// ListInvoices handles GET /invoices with conjunctive filters.
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var query services.InvoiceQuery
	if v := c.QueryParam("created_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return common.SendValidationError(c, "created_from", "must be in YYYY-MM-DD format")
		}
		query.CreatedFrom = &t
	}
	if v := c.QueryParam("created_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return common.SendValidationError(c, "created_to", "must be in YYYY-MM-DD format")
		}
		query.CreatedTo = &t
	}
	if v := c.QueryParam("status"); v != "" {
		query.Status = &v
	}
	if v := c.QueryParam("client_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return common.SendValidationError(c, "client_id", "must be a valid UUID")
		}
		query.ClientID = &id
	}
	if v := c.QueryParam("reference"); v != "" {
		query.Reference = &v
	}
	if v := c.QueryParam("min_total"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return common.SendValidationError(c, "min_total", "must be a number")
		}
		query.MinTotal = &f
	}
	if v := c.QueryParam("max_total"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return common.SendValidationError(c, "max_total", "must be a number")
		}
		query.MaxTotal = &f
	}

	invoices, err := h.invoiceService.FindAll(ctx, companyID, query)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
	})
}

func (h *InvoiceHandlers) invoiceID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// GetInvoice handles GET /invoices/:id.
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := h.invoiceID(c)
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	invoice, err := h.invoiceService.GetByID(ctx, companyID, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// ConfirmInvoice handles POST /invoices/:id/confirm. Confirmation
// irrevocably assigns the legal number and locks the emission date.
func (h *InvoiceHandlers) ConfirmInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := h.invoiceID(c)
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	invoice, err := h.invoiceService.Confirm(ctx, companyID, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// PayInvoice handles POST /invoices/:id/pay.
func (h *InvoiceHandlers) PayInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := h.invoiceID(c)
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	invoice, err := h.invoiceService.MarkPaid(ctx, companyID, id)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// UpdateInvoice handles PUT /invoices/:id.
func (h *InvoiceHandlers) UpdateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := h.invoiceID(c)
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	var patch services.UpdateInvoiceInput
	if err := c.Bind(&patch); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	invoice, err := h.invoiceService.Update(ctx, companyID, id, &patch)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice handles DELETE /invoices/:id.
func (h *InvoiceHandlers) DeleteInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := h.invoiceID(c)
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	if err := h.invoiceService.Delete(ctx, companyID, id); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Invoice deleted successfully",
	})
}

func (h *InvoiceHandlers) renderInvoice(c echo.Context) (*pdf.Input, []byte, error) {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return nil, nil, common.ErrMissingCompany
	}
	id, err := h.invoiceID(c)
	if err != nil {
		return nil, nil, &common.ValidationError{Field: "id", Message: "must be a valid UUID"}
	}

	invoice, err := h.invoiceService.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, nil, err
	}
	company, err := h.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	if company == nil {
		return nil, nil, &common.NotFoundError{Resource: "company", ID: companyID}
	}
	client, err := h.clientRepo.GetByID(ctx, companyID, invoice.ClientID)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return nil, nil, &common.NotFoundError{Resource: "client", ID: invoice.ClientID}
	}

	input := &pdf.Input{Invoice: *invoice, Company: *company, Client: *client}
	data, err := h.renderer.Render(*input)
	if err != nil {
		return nil, nil, err
	}
	return input, data, nil
}

// GetInvoicePDF handles GET /invoices/:id/pdf. Inline by default; with
// ?download=1 the document is served as an attachment named
// "<series>-<number>.pdf".
func (h *InvoiceHandlers) GetInvoicePDF(c echo.Context) error {
	input, data, err := h.renderInvoice(c)
	if err != nil {
		return common.SendDomainError(c, err)
	}

	disposition := "inline"
	if c.QueryParam("download") == "1" {
		disposition = fmt.Sprintf("attachment; filename=%q", documentFilename(input))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition)
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// ArchiveInvoicePDF handles POST /invoices/:id/archive: renders the
// document, stores it in object storage and returns a download URL.
func (h *InvoiceHandlers) ArchiveInvoicePDF(c echo.Context) error {
	ctx := c.Request().Context()

	input, data, err := h.renderInvoice(c)
	if err != nil {
		return common.SendDomainError(c, err)
	}

	filename := documentFilename(input)
	if err := h.archive.StoreInvoicePDF(ctx, input.Company.ID, filename, data); err != nil {
		return common.SendServerError(c, "Failed to archive document: "+err.Error())
	}

	url, err := h.archive.PresignedURL(ctx, input.Company.ID, filename, 24*time.Hour)
	if err != nil {
		return common.SendServerError(c, "Failed to generate download URL: "+err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"filename":   filename,
		"url":        url,
		"expires_in": "24 hours",
	})
}

func documentFilename(input *pdf.Input) string {
	number := input.Invoice.Number
	if number == "" {
		number = "draft"
	}
	return fmt.Sprintf("%s-%s.pdf", input.Invoice.Series, number)
}
