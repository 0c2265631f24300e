package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pabloubeiracarramal/factor-back/internal/common"
	"github.com/pabloubeiracarramal/factor-back/internal/models"
	"github.com/pabloubeiracarramal/factor-back/internal/repositories"
)

type ClientHandlers struct {
	clientRepo repositories.ClientRepository
}

func NewClientHandlers(clientRepo repositories.ClientRepository) *ClientHandlers {
	return &ClientHandlers{clientRepo: clientRepo}
}

type clientRequest struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	VATID      string `json:"vat_id"`
}

// CreateClient handles POST /clients.
func (h *ClientHandlers) CreateClient(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "name", "name is required")
	}

	client := &models.Client{
		ID:         uuid.New(),
		CompanyID:  companyID,
		Name:       req.Name,
		Street:     req.Street,
		PostalCode: req.PostalCode,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		Phone:      req.Phone,
		Email:      req.Email,
		VATID:      req.VATID,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := h.clientRepo.Create(ctx, client); err != nil {
		return common.SendServerError(c, "Failed to create client: "+err.Error())
	}
	return c.JSON(http.StatusCreated, client)
}

// ListClients handles GET /clients.
func (h *ClientHandlers) ListClients(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit := 50
	offset := 0
	if v := c.QueryParam("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 {
			limit = l
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil && o >= 0 {
			offset = o
		}
	}

	clients, err := h.clientRepo.List(ctx, companyID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list clients: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"clients": clients,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetClient handles GET /clients/:id.
func (h *ClientHandlers) GetClient(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	client, err := h.clientRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return common.SendServerError(c, "Failed to retrieve client: "+err.Error())
	}
	if client == nil {
		return common.SendNotFoundError(c, "client")
	}
	return c.JSON(http.StatusOK, client)
}

// UpdateClient handles PUT /clients/:id.
func (h *ClientHandlers) UpdateClient(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	client, err := h.clientRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return common.SendServerError(c, "Failed to retrieve client: "+err.Error())
	}
	if client == nil {
		return common.SendNotFoundError(c, "client")
	}

	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "name", "name is required")
	}

	client.Name = req.Name
	client.Street = req.Street
	client.PostalCode = req.PostalCode
	client.City = req.City
	client.State = req.State
	client.Country = req.Country
	client.Phone = req.Phone
	client.Email = req.Email
	client.VATID = req.VATID

	if err := h.clientRepo.Update(ctx, client); err != nil {
		return common.SendServerError(c, "Failed to update client: "+err.Error())
	}
	return c.JSON(http.StatusOK, client)
}

// DeleteClient handles DELETE /clients/:id.
func (h *ClientHandlers) DeleteClient(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	if err := h.clientRepo.Delete(ctx, companyID, id); err != nil {
		return common.SendServerError(c, "Failed to delete client: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Client deleted successfully",
	})
}
