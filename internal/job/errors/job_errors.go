package joberrors

import (
	"net/http"

	"go-fieldtime/internal/shared/apperror"
)

var (
	ErrJobNotFound = apperror.New(
		apperror.CodeNotFound,
		"Job not found",
		http.StatusNotFound,
	)

	ErrAssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Assignment not found",
		http.StatusNotFound,
	)

	ErrJobNotActive = apperror.New(
		apperror.CodePreconditionFailed,
		"Job is not active",
		http.StatusPreconditionFailed,
	)

	ErrInvalidWindow = apperror.New(
		apperror.CodeValidation,
		"end_at must be after start_at",
		http.StatusBadRequest,
	)

	ErrInvalidSite = apperror.New(
		apperror.CodeValidation,
		"Job site coordinates or radius are invalid",
		http.StatusBadRequest,
	)
)
