package apperror

const (
	// Client errors (4xx)
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodePermissionDenied   = "PERMISSION_DENIED"
	CodeNotFound           = "NOT_FOUND"
	CodeNotAssigned        = "NOT_ASSIGNED"
	CodeAlreadyActive      = "ALREADY_ACTIVE"
	CodePreconditionFailed = "PRECONDITION_FAILED"

	// Server errors (5xx)
	CodeInternalError = "INTERNAL_ERROR"
	CodeUnavailable   = "UNAVAILABLE"
)
