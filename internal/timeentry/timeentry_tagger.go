package timeentry

import (
	"context"
	"time"
)

// Tagger annotates entries with exception tags inside the write transaction.
// Tags only accumulate on creation and closure; Edit recomputes the
// threshold and overlap tags of the edited entry.
type Tagger struct{}

// OnOpen tags a fresh ACTIVE entry.
func (Tagger) OnOpen(e *TimeEntry) {
	if !e.GeofenceIn {
		e.TagGeofenceOut = true
	}
}

// OnClose tags a closed entry and returns the neighbor ids that overlap it.
// Auto-closed entries have no clock-out fix, so only the clock-in flag
// counts for geofence_out.
func (t Tagger) OnClose(ctx context.Context, repo Repository, e *TimeEntry, thresholdHours int, now time.Time) ([]string, error) {
	outsideAtOut := !e.GeofenceOut && !e.TagAutoClockout
	if !e.GeofenceIn || outsideAtOut {
		e.TagGeofenceOut = true
	}
	t.threshold(e, thresholdHours)

	neighbors, err := t.overlapping(ctx, repo, e, now)
	if err != nil {
		return nil, err
	}
	if len(neighbors) > 0 {
		e.TagOverlap = true
	}
	return neighbors, nil
}

// Retag re-evaluates threshold and overlap for an edited window.
func (t Tagger) Retag(ctx context.Context, repo Repository, e *TimeEntry, thresholdHours int, now time.Time) ([]string, error) {
	t.threshold(e, thresholdHours)
	neighbors, err := t.overlapping(ctx, repo, e, now)
	if err != nil {
		return nil, err
	}
	e.TagOverlap = len(neighbors) > 0
	return neighbors, nil
}

func (Tagger) threshold(e *TimeEntry, thresholdHours int) {
	if e.ClockOutAt != nil && e.Duration() > time.Duration(thresholdHours)*time.Hour {
		e.TagExceedsHours = thresholdHours
	} else {
		e.TagExceedsHours = 0
	}
}

// overlapping finds other entries of the worker whose window intersects e.
// Open neighbors extend to now.
func (Tagger) overlapping(ctx context.Context, repo Repository, e *TimeEntry, now time.Time) ([]string, error) {
	end := now
	if e.ClockOutAt != nil {
		end = *e.ClockOutAt
	}

	rows, err := repo.Neighbors(ctx, e.CompanyID, e.WorkerID, e.ID, end)
	if err != nil {
		return nil, err
	}

	var ids []string
	for i := range rows {
		if Overlaps(e.ClockInAt, end, rows[i].ClockInAt, windowEnd(&rows[i], now)) {
			ids = append(ids, rows[i].ID)
		}
	}
	return ids, nil
}

func windowEnd(e *TimeEntry, now time.Time) time.Time {
	if e.ClockOutAt != nil {
		return *e.ClockOutAt
	}
	return now
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching windows do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
