package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/itsm-routing/internal/domain"
	"github.com/spec-kit/itsm-routing/internal/events"
	"github.com/spec-kit/itsm-routing/internal/observability"
	"github.com/spec-kit/itsm-routing/internal/rbac"
	"github.com/spec-kit/itsm-routing/internal/repository"
	apperrors "github.com/spec-kit/itsm-routing/pkg/util/errorutil"
)

// EscalationService hands tickets to a system role, custom role or user.
type EscalationService struct {
	tickets     repository.TicketRepository
	users       repository.UserRepository
	customRoles repository.CustomRoleRepository
	tenants     repository.TenantRepository
	history     repository.TicketHistoryRepository
	index       *TenantIndex
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// EscalationDependencies bundles collaborators.
type EscalationDependencies struct {
	TicketRepo     repository.TicketRepository
	UserRepo       repository.UserRepository
	CustomRoleRepo repository.CustomRoleRepository
	TenantRepo     repository.TenantRepository
	HistoryRepo    repository.TicketHistoryRepository
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// EscalationTargets lists who a ticket may be escalated to.
type EscalationTargets struct {
	Roles       []domain.SystemRole
	CustomRoles []domain.CustomRole
	Users       []domain.User
}

// NewEscalationService creates the service.
func NewEscalationService(deps EscalationDependencies) *EscalationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EscalationService{
		tickets:     deps.TicketRepo,
		users:       deps.UserRepo,
		customRoles: deps.CustomRoleRepo,
		tenants:     deps.TenantRepo,
		history:     deps.HistoryRepo,
		index:       NewTenantIndex(deps.TenantRepo),
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      logger,
	}
}

// Escalate replaces the ticket's escalation target in a single write.
func (s *EscalationService) Escalate(ctx context.Context, actor *domain.User, ticketID string, target domain.EscalationTarget) (ticket *domain.Ticket, err error) {
	targetType := "unknown"
	if target != nil {
		targetType = string(target.Type())
	}
	defer func() {
		result := "ok"
		if err != nil {
			result = "rejected"
			if apperrors.HasCode(err, "INTERNAL_ERROR") {
				result = "error"
			}
		}
		s.metrics.RecordEscalation(targetType, result)
	}()

	if err := s.authorizeActor(actor); err != nil {
		return nil, err
	}
	if err := checkTargetShape(target); err != nil {
		return nil, err
	}
	current, err := s.loadTicketFor(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.validateTarget(ctx, current, target); err != nil {
		return nil, err
	}

	update := repository.EscalationUpdate{
		TicketID:       current.ID,
		OrganizationID: current.OrganizationID,
		Target:         target,
		ByUserID:       actor.ID,
	}
	if user, ok := target.(domain.UserTarget); ok {
		update.AssigneeID = &user.ID
	}
	updated, err := s.tickets.ApplyEscalation(ctx, update)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	s.recordEscalation(ctx, actor.ID, current, target)
	s.publishEscalated(ctx, actor.ID, current, updated, target)
	s.logger.Info("ticket escalated",
		zap.String("ticket_id", updated.ID),
		zap.String("actor_id", actor.ID),
		zap.String("target_type", string(target.Type())),
		zap.String("target", target.Value()))
	return updated, nil
}

// AvailableEscalationTargets enumerates eligible roles, active custom
// roles and users for the ticket. With a tenant on the ticket, users are
// limited to tenant-eligible staff plus staff without any tenant scope.
func (s *EscalationService) AvailableEscalationTargets(ctx context.Context, actor *domain.User, ticketID string) (*EscalationTargets, error) {
	if err := s.authorizeActor(actor); err != nil {
		return nil, err
	}
	ticket, err := s.loadTicketFor(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	customRoles, err := s.customRoles.ListByOrganization(ctx, ticket.OrganizationID, true)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	candidates, err := s.candidateUsers(ctx, ticket)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(candidates))
	for i := range candidates {
		user := &candidates[i]
		if user.InOrganization(ticket.OrganizationID) && rbac.CanReceiveEscalation(user) {
			users = append(users, *user)
		}
	}
	return &EscalationTargets{
		Roles:       append([]domain.SystemRole(nil), rbac.EscalationTargetRoles...),
		CustomRoles: customRoles,
		Users:       users,
	}, nil
}

// History returns the ticket's assignment and escalation trail, oldest first.
func (s *EscalationService) History(ctx context.Context, actor *domain.User, ticketID string) ([]domain.TicketHistory, error) {
	if err := s.authorizeActor(actor); err != nil {
		return nil, err
	}
	ticket, err := s.loadTicketFor(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	entries, err := s.history.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *EscalationService) candidateUsers(ctx context.Context, ticket *domain.Ticket) ([]domain.User, error) {
	if isBlank(ticket.TenantID) {
		users, err := s.users.ListByOrganization(ctx, ticket.OrganizationID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		return users, nil
	}
	tenant, err := s.tenants.GetByID(ctx, *ticket.TenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("tenant", map[string]any{"tenant_id": *ticket.TenantID})
		}
		return nil, apperrors.MapError(err)
	}
	if tenant.OrganizationID != ticket.OrganizationID {
		return []domain.User{}, nil
	}
	ids, err := s.index.eligibleForTenant(ctx, tenant, ticket.Category, EligibilityOptions{AllowOrgFallback: true})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	loaded, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byID := make(map[string]domain.User, len(loaded))
	for _, user := range loaded {
		byID[user.ID] = user
	}
	ordered := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := byID[id]; ok {
			ordered = append(ordered, user)
		}
	}
	return ordered, nil
}

// authorizeActor checks role before organization so that non-staff are
// always Forbidden; staff without an organization get BadRequest.
func (s *EscalationService) authorizeActor(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !rbac.CanEscalate(actor) {
		return apperrors.NewForbidden("insufficient role for escalation")
	}
	if actor.OrganizationID == nil || *actor.OrganizationID == "" {
		return apperrors.NewBadRequest("actor has no organization", nil)
	}
	return nil
}

func (s *EscalationService) loadTicketFor(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !actor.InOrganization(ticket.OrganizationID) {
		return nil, apperrors.NewForbidden("ticket belongs to another organization")
	}
	return ticket, nil
}

// checkTargetShape enforces the fixed system-role boundary before any
// lookup: only AGENT and IT_MANAGER may be named.
func checkTargetShape(target domain.EscalationTarget) error {
	switch t := target.(type) {
	case nil:
		return apperrors.NewBadRequest("escalation target required", nil)
	case domain.SystemRoleTarget:
		if !t.Role.Valid() {
			return apperrors.NewBadRequest("unknown system role", map[string]any{"role": t.Role})
		}
		if !rbac.IsEscalationTargetRole(t.Role) {
			return apperrors.NewForbidden("escalation to " + string(t.Role) + " is not permitted")
		}
	case domain.CustomRoleTarget:
		if t.ID == "" {
			return apperrors.NewBadRequest("custom role id required", nil)
		}
	case domain.UserTarget:
		if t.ID == "" {
			return apperrors.NewBadRequest("user id required", nil)
		}
	}
	return nil
}

func (s *EscalationService) validateTarget(ctx context.Context, ticket *domain.Ticket, target domain.EscalationTarget) error {
	switch t := target.(type) {
	case domain.CustomRoleTarget:
		role, err := s.customRoles.GetByID(ctx, t.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("custom role", map[string]any{"custom_role_id": t.ID})
			}
			return apperrors.MapError(err)
		}
		if role.OrganizationID != ticket.OrganizationID {
			return apperrors.NewForbidden("custom role belongs to another organization")
		}
		if !role.IsActive {
			return apperrors.NewBadRequest("custom role is inactive", map[string]any{"custom_role_id": t.ID})
		}
	case domain.UserTarget:
		user, err := s.users.GetByID(ctx, t.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("user", map[string]any{"user_id": t.ID})
			}
			return apperrors.MapError(err)
		}
		if !user.InOrganization(ticket.OrganizationID) {
			return apperrors.NewForbidden("user belongs to another organization")
		}
		if !user.IsActive {
			return apperrors.NewBadRequest("user is inactive", map[string]any{"user_id": t.ID})
		}
	}
	return nil
}

func targetValue(target domain.EscalationTarget) map[string]any {
	if target == nil {
		return map[string]any{"type": nil, "value": nil}
	}
	return map[string]any{"type": string(target.Type()), "value": target.Value()}
}

func (s *EscalationService) recordEscalation(ctx context.Context, actorID string, before *domain.Ticket, target domain.EscalationTarget) {
	if s.history == nil {
		return
	}
	var previous domain.EscalationTarget
	if before.Escalation != nil {
		previous = before.Escalation.Target
	}
	newValue := targetValue(target)
	newValue["escalated_by"] = actorID
	err := s.history.Create(ctx, &domain.TicketHistory{
		TicketID:   before.ID,
		ActorID:    &actorID,
		ChangeType: domain.ChangeTypeEscalation,
		OldValue:   targetValue(previous),
		NewValue:   newValue,
	})
	if err != nil {
		s.logger.Warn("record escalation history", zap.String("ticket_id", before.ID), zap.Error(err))
	}
}

func (s *EscalationService) publishEscalated(ctx context.Context, actorID string, before, after *domain.Ticket, target domain.EscalationTarget) {
	if s.dispatcher == nil {
		return
	}
	payload := events.TicketEscalatedPayload{
		TargetType:  target.Type(),
		TargetValue: target.Value(),
	}
	if before.Escalation != nil && before.Escalation.Target != nil {
		prevType := string(before.Escalation.Target.Type())
		prevValue := before.Escalation.Target.Value()
		payload.PrevType = &prevType
		payload.PrevValue = &prevValue
	}
	event := events.Event{
		ID:             uuid.NewString(),
		Type:           events.EventTicketEscalated,
		TicketID:       after.ID,
		OrganizationID: after.OrganizationID,
		ActorID:        &actorID,
		Timestamp:      time.Now(),
		Payload:        payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish ticket_escalated", zap.String("ticket_id", after.ID), zap.Error(err))
	}
}
