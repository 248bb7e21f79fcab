package job

import "time"

const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"

	DefaultGeofenceRadiusMeters = 150
)

type Job struct {
	ID                   string    `gorm:"type:uuid;primaryKey"`
	CompanyID            string    `gorm:"type:uuid;not null;index:idx_jobs_company"`
	CustomerID           string    `gorm:"type:uuid;not null"`
	Name                 string    `gorm:"type:varchar(200);not null"`
	Latitude             float64   `gorm:"not null"`
	Longitude            float64   `gorm:"not null"`
	GeofenceRadiusMeters float64   `gorm:"not null;default:150"`
	Status               string    `gorm:"type:varchar(20);not null;default:ACTIVE"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
}

func (Job) TableName() string {
	return "jobs"
}

// Assignment links a worker to a job for [StartAt, EndAt). A nil EndAt is
// open-ended. Assignments are deactivated, never deleted.
type Assignment struct {
	ID            string     `gorm:"type:uuid;primaryKey"`
	CompanyID     string     `gorm:"type:uuid;not null"`
	WorkerID      string     `gorm:"type:uuid;not null;index:idx_assignments_worker,priority:1"`
	JobID         string     `gorm:"type:uuid;not null;index"`
	StartAt       time.Time  `gorm:"not null;index:idx_assignments_worker,priority:2"`
	EndAt         *time.Time
	IsActive      bool       `gorm:"not null;default:true"`
	DeactivatedAt *time.Time
	CreatedAt     time.Time  `gorm:"not null"`
}

func (Assignment) TableName() string {
	return "job_assignments"
}

// AssignedJob is an active assignment joined with its job site.
type AssignedJob struct {
	AssignmentID         string
	JobID                string
	JobName              string
	CustomerID           string
	Latitude             float64
	Longitude            float64
	GeofenceRadiusMeters float64
	StartAt              time.Time
	EndAt                *time.Time
}
