package resolver

import (
	"time"

	"go-fieldtime/internal/geofence"
)

type ResolveQuery struct {
	Latitude  *float64 `form:"lat" binding:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `form:"lng" binding:"omitempty,gte=-180,lte=180"`
	Accuracy  float64  `form:"accuracy" binding:"omitempty,gte=0"`
}

func (q ResolveQuery) Fix() *geofence.Fix {
	if q.Latitude == nil || q.Longitude == nil {
		return nil
	}
	return &geofence.Fix{
		Point:          geofence.Point{Latitude: *q.Latitude, Longitude: *q.Longitude},
		AccuracyMeters: q.Accuracy,
	}
}

type CandidateResponse struct {
	AssignmentID          string   `json:"assignment_id"`
	JobID                 string   `json:"job_id"`
	JobName               string   `json:"job_name"`
	CustomerID            string   `json:"customer_id"`
	Latitude              float64  `json:"latitude"`
	Longitude             float64  `json:"longitude"`
	RadiusMeters          float64  `json:"radius_meters"`
	DistanceMeters        *float64 `json:"distance_meters,omitempty"`
	EffectiveRadiusMeters *float64 `json:"effective_radius_meters,omitempty"`
	WithinGeofence        bool     `json:"within_geofence"`
}

type SelectionResponse struct {
	Kind       string              `json:"kind"`
	EntryID    string              `json:"entry_id,omitempty"`
	JobID      string              `json:"job_id,omitempty"`
	ClockInAt  *time.Time          `json:"clock_in_at,omitempty"`
	Candidates []CandidateResponse `json:"candidates"`
}

func toCandidateResponse(c Candidate) CandidateResponse {
	return CandidateResponse{
		AssignmentID:          c.AssignmentID,
		JobID:                 c.JobID,
		JobName:               c.JobName,
		CustomerID:            c.CustomerID,
		Latitude:              c.Site.Latitude,
		Longitude:             c.Site.Longitude,
		RadiusMeters:          c.RadiusMeters,
		DistanceMeters:        c.DistanceMeters,
		EffectiveRadiusMeters: c.EffectiveRadiusMeters,
		WithinGeofence:        c.WithinGeofence,
	}
}

func ToResponse(sel Selection) SelectionResponse {
	resp := SelectionResponse{Kind: sel.Kind(), Candidates: []CandidateResponse{}}
	switch s := sel.(type) {
	case AlreadyClockedIn:
		at := s.ClockInAt
		resp.EntryID = s.EntryID
		resp.JobID = s.JobID
		resp.ClockInAt = &at
	case SingleJobSelected:
		resp.JobID = s.Candidate.JobID
		resp.Candidates = append(resp.Candidates, toCandidateResponse(s.Candidate))
	case MultipleJobsAvailable:
		for _, c := range s.Candidates {
			resp.Candidates = append(resp.Candidates, toCandidateResponse(c))
		}
	}
	return resp
}
