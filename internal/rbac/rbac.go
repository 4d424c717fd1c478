// Package rbac resolves effective roles and answers permission questions
// over an already-loaded user graph. Every predicate is pure and fails
// closed: a nil, inactive or deleted user holds no permissions.
package rbac

import "github.com/spec-kit/itsm-routing/internal/domain"

var (
	// RoutableRoles may receive automatically routed tickets.
	RoutableRoles = []domain.SystemRole{domain.RoleAgent, domain.RoleITManager}

	// EscalationTargetRoles may be named as a system-role escalation target.
	EscalationTargetRoles = []domain.SystemRole{domain.RoleAgent, domain.RoleITManager}

	// EscalatorRoles may escalate tickets.
	EscalatorRoles = []domain.SystemRole{domain.RoleAgent, domain.RoleITManager, domain.RoleAdmin}

	managerRoles = []domain.SystemRole{domain.RoleITManager, domain.RoleAdmin}
)

func usable(user *domain.User) bool {
	return user != nil && user.IsActive && user.DeletedAt == nil
}

// EffectiveRoles returns the user's distinct role references in assignment order.
func EffectiveRoles(user *domain.User) []domain.RoleRef {
	if !usable(user) {
		return nil
	}
	seen := make(map[string]struct{}, len(user.Roles))
	roles := make([]domain.RoleRef, 0, len(user.Roles))
	for _, assignment := range user.Roles {
		if assignment.Role == nil {
			continue
		}
		key := assignment.Role.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		roles = append(roles, assignment.Role)
	}
	return roles
}

// HasSystemRole reports whether any assignment is the given system role.
func HasSystemRole(user *domain.User, role domain.SystemRole) bool {
	for _, ref := range EffectiveRoles(user) {
		if sys, ok := ref.(domain.SystemRoleRef); ok && sys.Role == role {
			return true
		}
	}
	return false
}

// HasAnySystemRole is the OR of HasSystemRole over roles.
func HasAnySystemRole(user *domain.User, roles ...domain.SystemRole) bool {
	for _, role := range roles {
		if HasSystemRole(user, role) {
			return true
		}
	}
	return false
}

// HasCustomRole reports whether the user holds the custom role id.
func HasCustomRole(user *domain.User, customRoleID string) bool {
	for _, ref := range EffectiveRoles(user) {
		if custom, ok := ref.(domain.CustomRoleRef); ok && custom.ID == customRoleID {
			return true
		}
	}
	return false
}

// HasAnyCustomRole reports whether the user holds at least one custom role.
func HasAnyCustomRole(user *domain.User) bool {
	for _, ref := range EffectiveRoles(user) {
		if _, ok := ref.(domain.CustomRoleRef); ok {
			return true
		}
	}
	return false
}

// IsGlobalAdmin covers both the user flag and the GLOBAL_ADMIN system role.
func IsGlobalAdmin(user *domain.User) bool {
	if !usable(user) {
		return false
	}
	return user.IsGlobalAdmin || HasSystemRole(user, domain.RoleGlobalAdmin)
}

// IsAdmin is true for global admins and organization ADMINs.
func IsAdmin(user *domain.User) bool {
	return IsGlobalAdmin(user) || HasSystemRole(user, domain.RoleAdmin)
}

// IsManager is true for IT_MANAGERs and admins.
func IsManager(user *domain.User) bool {
	return IsGlobalAdmin(user) || HasAnySystemRole(user, managerRoles...)
}

// CanManageOrganization reports whether user administers orgID.
func CanManageOrganization(user *domain.User, orgID string) bool {
	if IsGlobalAdmin(user) {
		return true
	}
	return IsAdmin(user) && user.InOrganization(orgID)
}

// CanManageAgent reports whether actor may manage target. Global admins
// always may; otherwise actor must be a manager in target's organization.
func CanManageAgent(actor, target *domain.User) bool {
	if target == nil || target.DeletedAt != nil {
		return false
	}
	if IsGlobalAdmin(actor) {
		return true
	}
	if !IsManager(actor) || target.OrganizationID == nil {
		return false
	}
	return actor.InOrganization(*target.OrganizationID)
}

// CanEscalate reports whether user holds a role allowed to escalate.
func CanEscalate(user *domain.User) bool {
	return IsGlobalAdmin(user) || HasAnySystemRole(user, EscalatorRoles...)
}

// IsRoutable reports whether user may receive automatically routed tickets.
func IsRoutable(user *domain.User) bool {
	return HasAnySystemRole(user, RoutableRoles...)
}

// IsEscalationTargetRole reports whether role may be named as an escalation target.
func IsEscalationTargetRole(role domain.SystemRole) bool {
	for _, candidate := range EscalationTargetRoles {
		if candidate == role {
			return true
		}
	}
	return false
}

// CanReceiveEscalation reports whether user holds a role that makes them
// a listed escalation target: a target system role or any custom role.
func CanReceiveEscalation(user *domain.User) bool {
	return HasAnySystemRole(user, EscalationTargetRoles...) || HasAnyCustomRole(user)
}
