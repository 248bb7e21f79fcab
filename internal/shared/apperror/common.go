package apperror

import "net/http"

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrPermissionDenied = New(
		CodePermissionDenied,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrTenantMismatch = New(
		CodePermissionDenied,
		"company_id does not match the authenticated company",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeValidation,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	ErrUnavailable = New(
		CodeUnavailable,
		"Service temporarily unavailable, retry later",
		http.StatusServiceUnavailable,
	)

	ErrIdempotencyKeyRequired = New(
		CodeValidation,
		"Idempotency-Key header is required",
		http.StatusBadRequest,
	)
)

func RequiredField(field string) *AppError {
	return New(CodeValidation, field+" is required", http.StatusBadRequest)
}

func InvalidField(field string) *AppError {
	return New(CodeValidation, field+" is invalid", http.StatusBadRequest)
}
