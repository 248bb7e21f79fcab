package companyerrors

import (
	"net/http"

	"go-fieldtime/internal/shared/apperror"
)

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"Company not found",
		http.StatusNotFound,
	)

	ErrInvalidTimezone = apperror.New(
		apperror.CodeValidation,
		"Timezone must be a valid IANA zone name",
		http.StatusBadRequest,
	)

	ErrInvalidShiftLimits = apperror.New(
		apperror.CodeValidation,
		"max_shift_hours and exceed_threshold_hours must be between 1 and 24",
		http.StatusBadRequest,
	)
)
