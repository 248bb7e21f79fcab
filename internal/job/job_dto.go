package job

import "time"

type CreateJobRequest struct {
	CompanyID            string  `json:"company_id"`
	CustomerID           string  `json:"customer_id" binding:"required,uuid"`
	Name                 string  `json:"name" binding:"required,max=200"`
	Latitude             float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude            float64 `json:"longitude" binding:"gte=-180,lte=180"`
	GeofenceRadiusMeters float64 `json:"geofence_radius_meters" binding:"omitempty,gt=0,lte=10000"`
}

type AssignRequest struct {
	CompanyID string     `json:"company_id"`
	WorkerID  string     `json:"worker_id" binding:"required,uuid"`
	StartAt   time.Time  `json:"start_at" binding:"required"`
	EndAt     *time.Time `json:"end_at"`
}

type JobResponse struct {
	ID                   string  `json:"id"`
	CustomerID           string  `json:"customer_id"`
	Name                 string  `json:"name"`
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	GeofenceRadiusMeters float64 `json:"geofence_radius_meters"`
	Status               string  `json:"status"`
}

type AssignmentResponse struct {
	ID            string     `json:"id"`
	JobID         string     `json:"job_id"`
	WorkerID      string     `json:"worker_id"`
	StartAt       time.Time  `json:"start_at"`
	EndAt         *time.Time `json:"end_at,omitempty"`
	IsActive      bool       `json:"is_active"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
}

func toJobResponse(j *Job) JobResponse {
	return JobResponse{
		ID:                   j.ID,
		CustomerID:           j.CustomerID,
		Name:                 j.Name,
		Latitude:             j.Latitude,
		Longitude:            j.Longitude,
		GeofenceRadiusMeters: j.GeofenceRadiusMeters,
		Status:               j.Status,
	}
}

func toAssignmentResponse(a *Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:            a.ID,
		JobID:         a.JobID,
		WorkerID:      a.WorkerID,
		StartAt:       a.StartAt,
		EndAt:         a.EndAt,
		IsActive:      a.IsActive,
		DeactivatedAt: a.DeactivatedAt,
	}
}
