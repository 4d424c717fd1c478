package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/itsm-routing/internal/api/dto"
	"github.com/spec-kit/itsm-routing/internal/domain"
	"github.com/spec-kit/itsm-routing/internal/service"
	apperrors "github.com/spec-kit/itsm-routing/pkg/util/errorutil"
)

// TicketsHandler exposes routing and escalation for tickets.
type TicketsHandler struct {
	routing    *service.RoutingService
	escalation *service.EscalationService
	audit      *service.AuditLogger
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(routing *service.RoutingService, escalation *service.EscalationService, audit *service.AuditLogger) *TicketsHandler {
	return &TicketsHandler{routing: routing, escalation: escalation, audit: audit}
}

// Route POST /tickets/:id/route.
func (h *TicketsHandler) Route(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	ticket, err := h.routing.RouteTicket(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	if ticket.AssigneeID != nil {
		h.audit.Record(c.UserContext(), ticket.OrganizationID, domain.AuditEventTicketAssigned, user.ID,
			zap.String("ticket_id", ticket.ID),
			zap.String("assignee_id", *ticket.AssigneeID))
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Escalate POST /tickets/:id/escalate.
func (h *TicketsHandler) Escalate(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.EscalateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload", nil)
	}
	target, err := parseTarget(req)
	if err != nil {
		return err
	}
	ticket, err := h.escalation.Escalate(c.UserContext(), user, c.Params("id"), target)
	if err != nil {
		return err
	}
	h.audit.Record(c.UserContext(), ticket.OrganizationID, domain.AuditEventTicketEscalated, user.ID,
		zap.String("ticket_id", ticket.ID),
		zap.String("target_type", string(target.Type())),
		zap.String("target", target.Value()))
	return c.Status(http.StatusOK).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// EscalationTargets GET /tickets/:id/escalation-targets.
func (h *TicketsHandler) EscalationTargets(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	targets, err := h.escalation.AvailableEscalationTargets(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	resp := dto.EscalationTargetsResponse{
		Roles:       targets.Roles,
		CustomRoles: make([]dto.CustomRoleResponse, 0, len(targets.CustomRoles)),
		Users:       make([]dto.UserSummary, 0, len(targets.Users)),
	}
	for i := range targets.CustomRoles {
		resp.CustomRoles = append(resp.CustomRoles, dto.NewCustomRoleResponse(&targets.CustomRoles[i]))
	}
	for i := range targets.Users {
		resp.Users = append(resp.Users, dto.NewUserSummary(&targets.Users[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// History GET /tickets/:id/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	entries, err := h.escalation.History(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.TicketHistoryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.NewTicketHistoryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// parseTarget maps the wire target and rejects ids that are not UUIDs
// before any lookup.
func parseTarget(req dto.EscalateRequest) (domain.EscalationTarget, error) {
	target, err := domain.ParseEscalationTarget(req.Type, req.Value)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidEscalationTarget) {
			return nil, apperrors.NewBadRequest(err.Error(), nil)
		}
		return nil, err
	}
	if target.Type() != domain.EscalationTargetSystemRole {
		if err := uuid.Validate(target.Value()); err != nil {
			return nil, apperrors.NewBadRequest("target value must be a UUID", map[string]any{"value": target.Value()})
		}
	}
	return target, nil
}
