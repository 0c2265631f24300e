package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func sendDomainError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	assert.NoError(t, SendDomainError(c, err))
	return rec
}

func TestSendDomainError_MissingCompanyIsUnauthorized(t *testing.T) {
	rec := sendDomainError(t, ErrMissingCompany)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestSendDomainError_WrappedMissingCompany(t *testing.T) {
	rec := sendDomainError(t, errors.Join(errors.New("render"), ErrMissingCompany))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSendDomainError_StatusMapping(t *testing.T) {
	id := uuid.New()

	assert.Equal(t, http.StatusNotFound, sendDomainError(t, &NotFoundError{Resource: "invoice", ID: id}).Code)
	assert.Equal(t, http.StatusForbidden, sendDomainError(t, &ForbiddenError{Resource: "invoice", ID: id}).Code)
	assert.Equal(t, http.StatusConflict, sendDomainError(t, &StateError{Rule: "only draft invoices can be confirmed", InvoiceID: id, Expected: "DRAFT", Actual: "PENDING"}).Code)
	assert.Equal(t, http.StatusBadRequest, sendDomainError(t, &ValidationError{Field: "items", Message: "item name is required"}).Code)
	assert.Equal(t, http.StatusInternalServerError, sendDomainError(t, errors.New("boom")).Code)
}
