package timeentry

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	timeentryerrors "go-fieldtime/internal/timeentry/errors"
)

// errEventRecorded means the (worker, event key) pair already exists: the
// caller re-reads and answers with the original entry.
var errEventRecorded = errors.New("event already recorded")

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_time_entries_active_worker":
			return timeentryerrors.ErrAlreadyActive
		case "uq_time_entries_worker_event", "uq_time_entries_worker_out_event":
			return errEventRecorded
		}
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "uq_time_entries_active_worker"):
		return timeentryerrors.ErrAlreadyActive
	case strings.Contains(errMsg, "uq_time_entries_worker_event"),
		strings.Contains(errMsg, "uq_time_entries_worker_out_event"):
		return errEventRecorded
	case strings.Contains(errMsg, "unique constraint failed"):
		// sqlite names columns, not indexes
		if strings.Contains(errMsg, "client_event_id") || strings.Contains(errMsg, "clock_out_event_id") {
			return errEventRecorded
		}
		if strings.Contains(errMsg, "time_entries.worker_id") {
			return timeentryerrors.ErrAlreadyActive
		}
	}

	return err
}
