package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/itsm-routing/internal/api/dto"
	"github.com/spec-kit/itsm-routing/internal/domain"
	"github.com/spec-kit/itsm-routing/internal/service"
	apperrors "github.com/spec-kit/itsm-routing/pkg/util/errorutil"
)

// CustomRolesHandler manages organization-defined roles.
type CustomRolesHandler struct {
	access *service.AccessService
	audit  *service.AuditLogger
}

// NewCustomRolesHandler constructs handler.
func NewCustomRolesHandler(access *service.AccessService, audit *service.AuditLogger) *CustomRolesHandler {
	return &CustomRolesHandler{access: access, audit: audit}
}

// List GET /custom-roles?organization_id=.
func (h *CustomRolesHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	roles, err := h.access.ListCustomRoles(c.UserContext(), user, c.Query("organization_id"))
	if err != nil {
		return err
	}
	items := make([]dto.CustomRoleResponse, 0, len(roles))
	for i := range roles {
		items = append(items, dto.NewCustomRoleResponse(&roles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /custom-roles/:id.
func (h *CustomRolesHandler) Get(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	role, err := h.access.GetCustomRole(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomRoleResponse(role)})
}

// Create POST /custom-roles.
func (h *CustomRolesHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	input, err := parseRoleInput(c)
	if err != nil {
		return err
	}
	role, err := h.access.CreateCustomRole(c.UserContext(), user, input)
	if err != nil {
		return err
	}
	h.audit.Record(c.UserContext(), role.OrganizationID, domain.AuditEventCustomRoleCreated, user.ID,
		zap.String("custom_role_id", role.ID), zap.String("name", role.Name))
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCustomRoleResponse(role)})
}

// Update PATCH /custom-roles/:id.
func (h *CustomRolesHandler) Update(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	input, err := parseRoleInput(c)
	if err != nil {
		return err
	}
	role, err := h.access.UpdateCustomRole(c.UserContext(), user, c.Params("id"), input)
	if err != nil {
		return err
	}
	h.audit.Record(c.UserContext(), role.OrganizationID, domain.AuditEventCustomRoleUpdated, user.ID,
		zap.String("custom_role_id", role.ID))
	return c.JSON(fiber.Map{"data": dto.NewCustomRoleResponse(role)})
}

// Delete DELETE /custom-roles/:id.
func (h *CustomRolesHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	role, err := h.access.DeleteCustomRole(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	h.audit.Record(c.UserContext(), role.OrganizationID, domain.AuditEventCustomRoleDeleted, user.ID,
		zap.String("custom_role_id", role.ID))
	return c.SendStatus(http.StatusNoContent)
}

func parseRoleInput(c *fiber.Ctx) (service.CustomRoleInput, error) {
	var req dto.CustomRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return service.CustomRoleInput{}, apperrors.NewBadRequest("invalid payload", nil)
	}
	return service.CustomRoleInput{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		DisplayName:    req.DisplayName,
		Description:    req.Description,
		IsActive:       req.IsActive,
	}, nil
}
