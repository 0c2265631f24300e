package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pabloubeiracarramal/factor-back/internal/common"
	"github.com/pabloubeiracarramal/factor-back/internal/repositories"
)

type CompanyHandlers struct {
	companyRepo repositories.CompanyRepository
}

func NewCompanyHandlers(companyRepo repositories.CompanyRepository) *CompanyHandlers {
	return &CompanyHandlers{companyRepo: companyRepo}
}

// GetCompany handles GET /company: the caller's own company profile.
func (h *CompanyHandlers) GetCompany(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	company, err := h.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return common.SendServerError(c, "Failed to retrieve company: "+err.Error())
	}
	if company == nil {
		return common.SendNotFoundError(c, "company")
	}
	return c.JSON(http.StatusOK, company)
}

type companyRequest struct {
	Name        string `json:"name"`
	Street      string `json:"street"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	VATID       string `json:"vat_id"`
	BankAccount string `json:"bank_account"`
}

// UpdateCompany handles PUT /company.
func (h *CompanyHandlers) UpdateCompany(c echo.Context) error {
	ctx := c.Request().Context()

	companyID, ok := common.GetCompanyIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	company, err := h.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return common.SendServerError(c, "Failed to retrieve company: "+err.Error())
	}
	if company == nil {
		return common.SendNotFoundError(c, "company")
	}

	var req companyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "name", "name is required")
	}

	company.Name = req.Name
	company.Street = req.Street
	company.PostalCode = req.PostalCode
	company.City = req.City
	company.State = req.State
	company.Country = req.Country
	company.Phone = req.Phone
	company.Email = req.Email
	company.VATID = req.VATID
	company.BankAccount = req.BankAccount

	if err := h.companyRepo.Update(ctx, company); err != nil {
		return common.SendServerError(c, "Failed to update company: "+err.Error())
	}
	return c.JSON(http.StatusOK, company)
}
