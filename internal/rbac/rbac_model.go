package rbac

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"go-fieldtime/internal/domain"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && (r.act == p.act || p.act == "*")
`

// Resources and actions guarded by RBACAuthorize.
const (
	ResourceClock     = "clock"
	ResourceTimeEntry = "time_entry"
	ResourceReview    = "review"
	ResourceInvoice   = "invoice"
	ResourceCompany   = "company"
	ResourceJob       = "job"

	ActionRead   = "read"
	ActionWrite  = "write"
	ActionUpdate = "update"
)

// DefaultPolicies grants workers the clock flow and admins review/invoicing.
// ADMIN inherits WORKER, SUPER_ADMIN inherits ADMIN.
var DefaultPolicies = [][]string{
	{domain.RoleWorker, ResourceClock, ActionRead},
	{domain.RoleWorker, ResourceClock, ActionWrite},
	{domain.RoleWorker, ResourceTimeEntry, ActionRead},
	{domain.RoleWorker, ResourceTimeEntry, ActionWrite},
	{domain.RoleWorker, ResourceCompany, ActionRead},
	{domain.RoleAdmin, ResourceReview, "*"},
	{domain.RoleAdmin, ResourceInvoice, "*"},
	{domain.RoleAdmin, ResourceJob, "*"},
	{domain.RoleAdmin, ResourceCompany, ActionUpdate},
}

var DefaultGroupings = [][]string{
	{domain.RoleAdmin, domain.RoleWorker},
	{domain.RoleSuperAdmin, domain.RoleAdmin},
}

// NewEnforcer builds an in-memory synced enforcer loaded with the default
// role policy.
func NewEnforcer() (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("rbac model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("rbac enforcer: %w", err)
	}
	if _, err := e.AddPolicies(DefaultPolicies); err != nil {
		return nil, fmt.Errorf("rbac policies: %w", err)
	}
	if _, err := e.AddGroupingPolicies(DefaultGroupings); err != nil {
		return nil, fmt.Errorf("rbac groupings: %w", err)
	}
	return e, nil
}
