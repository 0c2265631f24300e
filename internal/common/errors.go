package common

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrMissingCompany is returned when a tenant-scoped operation is invoked
// without a company id in the caller's context.
var ErrMissingCompany = errors.New("missing company id")

// NotFoundError marks a referenced entity that does not exist.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ForbiddenError marks a cross-tenant access attempt.
type ForbiddenError struct {
	Resource string
	ID       uuid.UUID
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s does not belong to your company (%s %s)", e.Resource, e.Resource, e.ID)
}

// StateError marks an illegal lifecycle transition. It carries the invoice
// id and the expected versus actual status so the caller can react without
// re-querying.
type StateError struct {
	Rule      string
	InvoiceID uuid.UUID
	Expected  string
	Actual    string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: invoice %s has status %s, expected %s", e.Rule, e.InvoiceID, e.Actual, e.Expected)
}

// ValidationError marks malformed caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsForbidden reports whether err is a ForbiddenError.
func IsForbidden(err error) bool {
	var f *ForbiddenError
	return errors.As(err, &f)
}

// IsStateError reports whether err is a StateError.
func IsStateError(err error) bool {
	var s *StateError
	return errors.As(err, &s)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
