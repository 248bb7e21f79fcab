package domain

import "go-fieldtime/internal/shared/apperror"

// Caller is the verified identity attached to every request by the auth
// middleware. Services trust it; request bodies are checked against it.
type Caller struct {
	UserID    string
	CompanyID string
	WorkerID  string
	Role      string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin || c.Role == RoleSuperAdmin
}

// ActorID is the id recorded in approved_by / edited_by style columns.
func (c Caller) ActorID() string {
	if c.WorkerID != "" {
		return c.WorkerID
	}
	return c.UserID
}

// EnsureTenant rejects a request whose company_id differs from the caller's.
// An empty requested id means "the caller's company".
func (c Caller) EnsureTenant(requestedCompanyID string) error {
	if c.CompanyID == "" {
		return apperror.ErrUnauthorized
	}
	if requestedCompanyID != "" && requestedCompanyID != c.CompanyID {
		return apperror.ErrTenantMismatch
	}
	return nil
}

func (c Caller) RequireAdmin() error {
	if !c.IsAdmin() {
		return apperror.ErrPermissionDenied
	}
	return nil
}

// CallerContextKey is the gin context key holding the request's Caller.
const CallerContextKey = "caller"
