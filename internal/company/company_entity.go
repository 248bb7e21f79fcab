package company

import (
	"time"
)

const (
	DefaultTimezone             = "UTC"
	DefaultMaxShiftHours        = 12
	DefaultExceedThresholdHours = 10
)

type Company struct {
	ID                   string    `gorm:"type:uuid;primaryKey"`
	Name                 string    `gorm:"type:varchar(150);not null"`
	Timezone             string    `gorm:"type:varchar(64);not null;default:UTC"`
	RequireGeofence      bool      `gorm:"not null;default:false"`
	MaxShiftHours        int       `gorm:"not null;default:12"`
	AutoApproveDays      int       `gorm:"not null;default:0"`
	ExceedThresholdHours int       `gorm:"not null;default:10"`
	IsActive             bool      `gorm:"not null;default:true"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
}

func (Company) TableName() string {
	return "companies"
}
