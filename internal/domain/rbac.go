package domain

const (
	RoleWorker     = "WORKER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

type EnforceRequest struct {
	Role      string
	CompanyID string
	Resource  string
	Action    string
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
