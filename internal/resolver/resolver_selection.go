package resolver

import (
	"time"

	"go-fieldtime/internal/geofence"
)

const (
	KindAlreadyClockedIn      = "already_clocked_in"
	KindNoJobsAssigned        = "no_jobs_assigned"
	KindSingleJobSelected     = "single_job_selected"
	KindMultipleJobsAvailable = "multiple_jobs_available"
)

// Selection is the outcome of Resolve. The variants are AlreadyClockedIn,
// NoJobsAssigned, SingleJobSelected and MultipleJobsAvailable; no other
// package can add one.
type Selection interface {
	Kind() string
	isSelection()
}

type AlreadyClockedIn struct {
	EntryID   string
	JobID     string
	ClockInAt time.Time
}

type NoJobsAssigned struct{}

type SingleJobSelected struct {
	Candidate Candidate
}

// MultipleJobsAvailable lists candidates in ranked order.
type MultipleJobsAvailable struct {
	Candidates []Candidate
}

func (AlreadyClockedIn) Kind() string      { return KindAlreadyClockedIn }
func (NoJobsAssigned) Kind() string        { return KindNoJobsAssigned }
func (SingleJobSelected) Kind() string     { return KindSingleJobSelected }
func (MultipleJobsAvailable) Kind() string { return KindMultipleJobsAvailable }

func (AlreadyClockedIn) isSelection()      {}
func (NoJobsAssigned) isSelection()        {}
func (SingleJobSelected) isSelection()     {}
func (MultipleJobsAvailable) isSelection() {}

// Candidate is one of today's assignments. The distance fields are nil when
// no location fix was available.
type Candidate struct {
	AssignmentID          string
	JobID                 string
	JobName               string
	CustomerID            string
	Site                  geofence.Point
	RadiusMeters          float64
	StartAt               time.Time
	EndAt                 *time.Time
	DistanceMeters        *float64
	EffectiveRadiusMeters *float64
	WithinGeofence        bool
}
