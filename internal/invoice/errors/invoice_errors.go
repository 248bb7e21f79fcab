package invoiceerrors

import (
	"net/http"

	"go-fieldtime/internal/shared/apperror"
)

var (
	ErrInvoiceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Invoice not found",
		http.StatusNotFound,
	)

	ErrNoEntries = apperror.New(
		apperror.CodeValidation,
		"entry_ids must contain at least one id",
		http.StatusBadRequest,
	)

	ErrTooManyEntries = apperror.New(
		apperror.CodeValidation,
		"An invoice can bundle at most 500 entries",
		http.StatusBadRequest,
	)

	ErrInvalidRate = apperror.New(
		apperror.CodeValidation,
		"hourly_rate_cents must not be negative",
		http.StatusBadRequest,
	)

	ErrEntriesNotFound = apperror.New(
		apperror.CodeNotFound,
		"One or more entries were not found",
		http.StatusNotFound,
	)

	ErrEntriesNotInvoiceable = apperror.New(
		apperror.CodePreconditionFailed,
		"One or more entries cannot be invoiced",
		http.StatusPreconditionFailed,
	)

	ErrMixedCustomers = apperror.New(
		apperror.CodeValidation,
		"Entries belong to more than one customer",
		http.StatusBadRequest,
	)

	ErrAlreadyCancelled = apperror.New(
		apperror.CodePreconditionFailed,
		"Invoice is already cancelled",
		http.StatusPreconditionFailed,
	)

	ErrReasonRequired = apperror.New(
		apperror.CodeValidation,
		"reason is required",
		http.StatusBadRequest,
	)
)
