package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/itsm-routing/internal/domain"
	"github.com/spec-kit/itsm-routing/internal/rbac"
	apperrors "github.com/spec-kit/itsm-routing/pkg/util/errorutil"
)

// RequireAnyRole ensures the caller is authenticated.
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireSystemRole ensures the caller holds one of the allowed system
// roles. Global administrators always pass.
func RequireSystemRole(allowed ...domain.SystemRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if rbac.IsGlobalAdmin(user) || rbac.HasAnySystemRole(user, allowed...) {
			return c.Next()
		}
		return apperrors.NewForbidden("insufficient role")
	}
}

// RequireStaff admits roles allowed to work tickets.
func RequireStaff() fiber.Handler {
	return RequireSystemRole(rbac.EscalatorRoles...)
}

// RequireManager admits IT managers and administrators.
func RequireManager() fiber.Handler {
	return RequireSystemRole(domain.RoleITManager, domain.RoleAdmin)
}
