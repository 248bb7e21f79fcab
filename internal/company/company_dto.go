package company

type CompanyResponse struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Timezone             string `json:"timezone"`
	RequireGeofence      bool   `json:"require_geofence"`
	MaxShiftHours        int    `json:"max_shift_hours"`
	AutoApproveDays      int    `json:"auto_approve_days"`
	ExceedThresholdHours int    `json:"exceed_threshold_hours"`
	IsActive             bool   `json:"is_active"`
}

type UpdateCompanyRequest struct {
	CompanyID            string  `json:"company_id"`
	Name                 *string `json:"name" binding:"omitempty,min=1,max=150"`
	Timezone             *string `json:"timezone"`
	RequireGeofence      *bool   `json:"require_geofence"`
	MaxShiftHours        *int    `json:"max_shift_hours"`
	AutoApproveDays      *int    `json:"auto_approve_days" binding:"omitempty,min=0,max=90"`
	ExceedThresholdHours *int    `json:"exceed_threshold_hours"`
}
