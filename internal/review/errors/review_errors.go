package reviewerrors

import (
	"net/http"

	"go-fieldtime/internal/shared/apperror"
)

var (
	ErrNoEntries = apperror.New(
		apperror.CodeValidation,
		"entry_ids must not be empty",
		http.StatusBadRequest,
	)

	ErrTooManyEntries = apperror.New(
		apperror.CodeValidation,
		"Too many entries in one request; use the bulk endpoint",
		http.StatusBadRequest,
	)

	ErrEntriesNotFound = apperror.New(
		apperror.CodeNotFound,
		"Some entries were not found",
		http.StatusNotFound,
	)

	ErrEntriesNotReviewable = apperror.New(
		apperror.CodePreconditionFailed,
		"Some entries are not pending review",
		http.StatusPreconditionFailed,
	)

	ErrReasonRequired = apperror.New(
		apperror.CodeValidation,
		"reason is required",
		http.StatusBadRequest,
	)

	ErrInvalidFilter = apperror.New(
		apperror.CodeValidation,
		"Unknown exception filter",
		http.StatusBadRequest,
	)

	ErrInvalidRange = apperror.New(
		apperror.CodeValidation,
		"from must be before to",
		http.StatusBadRequest,
	)

	ErrNothingToEdit = apperror.New(
		apperror.CodeValidation,
		"clock_in_at or clock_out_at is required",
		http.StatusBadRequest,
	)

	ErrInvalidWindow = apperror.New(
		apperror.CodeValidation,
		"clock_out_at must be after clock_in_at",
		http.StatusBadRequest,
	)

	ErrFutureWindow = apperror.New(
		apperror.CodeValidation,
		"Edited times cannot be in the future",
		http.StatusBadRequest,
	)

	ErrWindowTooLong = apperror.New(
		apperror.CodeValidation,
		"An edited entry cannot span more than 24 hours",
		http.StatusBadRequest,
	)

	ErrEditOverlap = apperror.New(
		apperror.CodeValidation,
		"Edited window overlaps another entry of this worker",
		http.StatusBadRequest,
	)

	ErrNotEditable = apperror.New(
		apperror.CodePreconditionFailed,
		"Only pending or rejected entries can be edited",
		http.StatusPreconditionFailed,
	)

	ErrNotResubmittable = apperror.New(
		apperror.CodePreconditionFailed,
		"Only rejected entries can be resubmitted",
		http.StatusPreconditionFailed,
	)
)
