package timeentry

import timeentryerrors "go-fieldtime/internal/timeentry/errors"

type Action string

const (
	ActionClockOut  Action = "clock_out"
	ActionAutoClose Action = "auto_close"
	ActionApprove   Action = "approve"
	ActionReject    Action = "reject"
	ActionResubmit  Action = "resubmit"
	ActionEdit      Action = "edit"
	ActionInvoice   Action = "invoice"
	ActionRelease   Action = "release"
)

// Clock-in is the only transition out of NoSession and has no row to check;
// it is guarded by the active-entry lock instead.
type transition struct {
	from []string
	to   string
}

var transitions = map[Action]transition{
	ActionClockOut:  {from: []string{StatusActive}, to: StatusPendingReview},
	ActionAutoClose: {from: []string{StatusActive}, to: StatusPendingReview},
	ActionApprove:   {from: []string{StatusPendingReview}, to: StatusApproved},
	ActionReject:    {from: []string{StatusPendingReview}, to: StatusRejected},
	ActionResubmit:  {from: []string{StatusRejected}, to: StatusPendingReview},
	ActionInvoice:   {from: []string{StatusApproved}, to: StatusInvoiced},
	ActionRelease:   {from: []string{StatusInvoiced}, to: StatusApproved},
	// edit keeps the status it found
	ActionEdit: {from: []string{StatusPendingReview, StatusRejected}},
}

// Next returns the status an entry in from moves to under a, or
// ErrInvalidTransition. For ActionEdit the status is unchanged.
func Next(from string, a Action) (string, error) {
	t, ok := transitions[a]
	if !ok {
		return "", timeentryerrors.ErrInvalidTransition
	}
	for _, s := range t.from {
		if s == from {
			if t.to == "" {
				return from, nil
			}
			return t.to, nil
		}
	}
	return "", timeentryerrors.ErrInvalidTransition
}

// Allowed lists the statuses a may start from.
func Allowed(a Action) []string {
	return transitions[a].from
}
