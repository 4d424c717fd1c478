package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/itsm-routing/internal/api/dto"
	"github.com/spec-kit/itsm-routing/internal/rbac"
	"github.com/spec-kit/itsm-routing/internal/service"
)

// AccessHandler exposes role resolution and management checks.
type AccessHandler struct {
	access *service.AccessService
}

// NewAccessHandler constructs handler.
func NewAccessHandler(access *service.AccessService) *AccessHandler {
	return &AccessHandler{access: access}
}

// MyRoles GET /me/roles.
func (h *AccessHandler) MyRoles(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.EffectiveRolesResponse{
		UserID:        user.ID,
		IsGlobalAdmin: rbac.IsGlobalAdmin(user),
		Roles:         dto.NewRoleRefResponses(h.access.ResolveEffectiveRoles(user)),
	}})
}

// UserManageable GET /users/:id/manageable.
func (h *AccessHandler) UserManageable(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	ok, err := h.access.CanManageAgentInOrganization(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ManageableResponse{TargetID: c.Params("id"), Manageable: ok}})
}

// TenantManageable GET /tenants/:id/manageable.
func (h *AccessHandler) TenantManageable(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	ok, err := h.access.CanManageTenant(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ManageableResponse{TargetID: c.Params("id"), Manageable: ok}})
}
