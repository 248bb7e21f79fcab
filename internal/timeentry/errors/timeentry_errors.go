package timeentryerrors

import (
	"net/http"

	"go-fieldtime/internal/shared/apperror"
)

var (
	ErrEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"Time entry not found",
		http.StatusNotFound,
	)

	ErrNotAssigned = apperror.New(
		apperror.CodeNotAssigned,
		"No job assigned today",
		http.StatusUnprocessableEntity,
	)

	ErrAmbiguousJob = apperror.New(
		apperror.CodeValidation,
		"Several jobs are assigned today; job_id is required",
		http.StatusBadRequest,
	)

	ErrAlreadyActive = apperror.New(
		apperror.CodeAlreadyActive,
		"Already clocked in elsewhere",
		http.StatusConflict,
	)

	ErrAlreadyClosed = apperror.New(
		apperror.CodePreconditionFailed,
		"Entry is already clocked out",
		http.StatusPreconditionFailed,
	)

	ErrInvalidTransition = apperror.New(
		apperror.CodePreconditionFailed,
		"Entry is not in a state that allows this action",
		http.StatusPreconditionFailed,
	)

	ErrEntryInvoiced = apperror.New(
		apperror.CodePreconditionFailed,
		"Entry is invoiced and can no longer change",
		http.StatusPreconditionFailed,
	)

	ErrOutsideGeofence = apperror.New(
		apperror.CodePreconditionFailed,
		"You are outside the job site",
		http.StatusPreconditionFailed,
	)

	ErrLocationRequired = apperror.New(
		apperror.CodePreconditionFailed,
		"A location fix is required to clock in",
		http.StatusPreconditionFailed,
	)

	ErrInvalidLocation = apperror.New(
		apperror.CodeValidation,
		"Location fix is invalid",
		http.StatusBadRequest,
	)

	ErrEventIDRequired = apperror.New(
		apperror.CodeValidation,
		"client_event_id is required",
		http.StatusBadRequest,
	)

	ErrEntryReferenceRequired = apperror.New(
		apperror.CodeValidation,
		"entry_id or clock_in_event_id is required",
		http.StatusBadRequest,
	)

	ErrWorkerRequired = apperror.New(
		apperror.CodePermissionDenied,
		"Only workers can clock in or out",
		http.StatusForbidden,
	)

	ErrNoteRequired = apperror.New(
		apperror.CodeValidation,
		"note is required",
		http.StatusBadRequest,
	)
)
