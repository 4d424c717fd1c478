package domain

import (
	"strings"
	"time"
)

// SystemRole enumerates the fixed, organization-independent roles.
type SystemRole string

const (
	RoleEndUser     SystemRole = "END_USER"
	RoleAgent       SystemRole = "AGENT"
	RoleITManager   SystemRole = "IT_MANAGER"
	RoleAdmin       SystemRole = "ADMIN"
	RoleGlobalAdmin SystemRole = "GLOBAL_ADMIN"
)

var systemRoles = []SystemRole{RoleEndUser, RoleAgent, RoleITManager, RoleAdmin, RoleGlobalAdmin}

// SystemRoles returns the full catalog in declaration order.
func SystemRoles() []SystemRole {
	return append([]SystemRole(nil), systemRoles...)
}

// Valid reports whether r is part of the catalog.
func (r SystemRole) Valid() bool {
	for _, candidate := range systemRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseSystemRole normalizes and validates a role name.
func ParseSystemRole(name string) (SystemRole, bool) {
	role := SystemRole(strings.ToUpper(strings.TrimSpace(name)))
	return role, role.Valid()
}

// RoleRef points at either a system role or an organization custom role.
// The unexported marker keeps the set of implementations closed.
type RoleRef interface {
	roleRef()
	// Key is a stable identifier used for set membership.
	Key() string
}

// SystemRoleRef references a SystemRole.
type SystemRoleRef struct {
	Role SystemRole
}

func (SystemRoleRef) roleRef() {}

func (r SystemRoleRef) Key() string { return "system:" + string(r.Role) }

// CustomRoleRef references an organization-defined CustomRole.
type CustomRoleRef struct {
	ID   string
	Name string
}

func (CustomRoleRef) roleRef() {}

func (r CustomRoleRef) Key() string { return "custom:" + r.ID }

// UserRoleAssignment links a user to exactly one role.
type UserRoleAssignment struct {
	ID        string
	UserID    string
	Role      RoleRef
	CreatedAt time.Time
}

// CustomRole is an organization-scoped role used for escalation targeting.
type CustomRole struct {
	ID             string
	OrganizationID string
	Name           string
	DisplayName    string
	Description    string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
