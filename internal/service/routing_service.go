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

// RoutingService performs least-loaded category routing.
type RoutingService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	tenants    repository.TenantRepository
	history    repository.TicketHistoryRepository
	index      *TenantIndex
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// RoutingDependencies bundles collaborators.
type RoutingDependencies struct {
	TicketRepo  repository.TicketRepository
	UserRepo    repository.UserRepository
	TenantRepo  repository.TenantRepository
	HistoryRepo repository.TicketHistoryRepository
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewRoutingService creates the service.
func NewRoutingService(deps RoutingDependencies) *RoutingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoutingService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		tenants:    deps.TenantRepo,
		history:    deps.HistoryRepo,
		index:      NewTenantIndex(deps.TenantRepo),
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// RouteByCategory picks the tenant-assigned AGENT or IT_MANAGER with the
// fewest open tickets. A nil result with a nil error means the ticket
// should stay unassigned.
func (s *RoutingService) RouteByCategory(ctx context.Context, ticketID string, tenantID, category *string) (*string, error) {
	if isBlank(tenantID) || isBlank(category) {
		s.metrics.RecordRouting(observability.RoutingNoInput)
		return nil, nil
	}
	tenant, err := s.tenants.GetByID(ctx, *tenantID)
	if err != nil {
		s.metrics.RecordRouting(observability.RoutingFailed)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("tenant", map[string]any{"tenant_id": *tenantID})
		}
		return nil, apperrors.MapError(err)
	}
	return s.selectAssignee(ctx, ticketID, tenant, category)
}

func (s *RoutingService) selectAssignee(ctx context.Context, ticketID string, tenant *domain.Tenant, category *string) (*string, error) {
	candidates, err := s.routableCandidates(ctx, tenant, category)
	if err != nil {
		s.metrics.RecordRouting(observability.RoutingFailed)
		return nil, err
	}
	if len(candidates) == 0 {
		s.metrics.RecordRouting(observability.RoutingNoCandidate)
		s.logger.Debug("no routing candidates",
			zap.String("ticket_id", ticketID),
			zap.String("tenant_id", tenant.ID))
		return nil, nil
	}

	// One live count per candidate; the first candidate wins exact ties.
	selected := ""
	lowest := 0
	for i, candidate := range candidates {
		load, err := s.tickets.CountOpenByAssignee(ctx, candidate)
		if err != nil {
			s.metrics.RecordRouting(observability.RoutingFailed)
			return nil, apperrors.MapError(err)
		}
		if i == 0 || load < lowest {
			selected, lowest = candidate, load
		}
	}

	s.metrics.RecordRouting(observability.RoutingAssigned)
	s.logger.Debug("ticket routed",
		zap.String("ticket_id", ticketID),
		zap.String("tenant_id", tenant.ID),
		zap.String("assignee_id", selected),
		zap.Int("open_tickets", lowest))
	return &selected, nil
}

// routableCandidates keeps eligible users that are in the tenant's
// organization and hold a routable role, preserving scan order.
func (s *RoutingService) routableCandidates(ctx context.Context, tenant *domain.Tenant, category *string) ([]string, error) {
	ids, err := s.index.eligibleForTenant(ctx, tenant, category, EligibilityOptions{})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byID := make(map[string]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	candidates := make([]string, 0, len(ids))
	for _, id := range ids {
		user, ok := byID[id]
		if !ok || !user.InOrganization(tenant.OrganizationID) || !rbac.IsRoutable(user) {
			continue
		}
		candidates = append(candidates, id)
	}
	return candidates, nil
}

// AssignByCategory is the ticket-creation path: route the ticket, persist
// the assignee, record history and publish ticket_assigned. Routing
// problems are logged and leave the ticket unassigned.
func (s *RoutingService) AssignByCategory(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return s.assign(ctx, nil, ticket)
}

// RouteTicket lets staff trigger category routing for an unassigned ticket
// in their own organization.
func (s *RoutingService) RouteTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !rbac.CanEscalate(actor) {
		return nil, apperrors.NewForbidden("insufficient role for routing")
	}
	if actor.OrganizationID == nil {
		return nil, apperrors.NewBadRequest("actor has no organization", nil)
	}
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
	return s.assign(ctx, &actor.ID, ticket)
}

func (s *RoutingService) assign(ctx context.Context, actorID *string, ticket *domain.Ticket) (*domain.Ticket, error) {
	if ticket.AssigneeID != nil || isBlank(ticket.TenantID) || isBlank(ticket.Category) {
		return ticket, nil
	}
	tenant, err := s.tenants.GetByID(ctx, *ticket.TenantID)
	if err != nil {
		s.logger.Warn("routing skipped: tenant lookup failed",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return ticket, nil
	}
	if tenant.OrganizationID != ticket.OrganizationID {
		s.logger.Warn("routing skipped: tenant outside ticket organization",
			zap.String("ticket_id", ticket.ID), zap.String("tenant_id", tenant.ID))
		return ticket, nil
	}
	assigneeID, err := s.selectAssignee(ctx, ticket.ID, tenant, ticket.Category)
	if err != nil {
		s.logger.Warn("routing failed; ticket left unassigned",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return ticket, nil
	}
	if assigneeID == nil {
		return ticket, nil
	}
	if err := s.tickets.UpdateAssignee(ctx, ticket.ID, assigneeID); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.AssigneeID = assigneeID
	s.recordAssignment(ctx, actorID, ticket.ID, *assigneeID)
	s.publishAssigned(ctx, actorID, ticket)
	return ticket, nil
}

func (s *RoutingService) recordAssignment(ctx context.Context, actorID *string, ticketID, assigneeID string) {
	if s.history == nil {
		return
	}
	err := s.history.Create(ctx, &domain.TicketHistory{
		TicketID:   ticketID,
		ActorID:    actorID,
		ChangeType: domain.ChangeTypeAssignee,
		OldValue:   map[string]any{"assignee_id": nil},
		NewValue:   map[string]any{"assignee_id": assigneeID, "reason": "category_routing"},
	})
	if err != nil {
		s.logger.Warn("record assignment history", zap.String("ticket_id", ticketID), zap.Error(err))
	}
}

func (s *RoutingService) publishAssigned(ctx context.Context, actorID *string, ticket *domain.Ticket) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:             uuid.NewString(),
		Type:           events.EventTicketAssigned,
		TicketID:       ticket.ID,
		OrganizationID: ticket.OrganizationID,
		ActorID:        actorID,
		Timestamp:      time.Now(),
		Payload: events.TicketAssignedPayload{
			AssigneeID: *ticket.AssigneeID,
			TenantID:   ticket.TenantID,
			Category:   ticket.Category,
			Reason:     "category_routing",
		},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish ticket_assigned", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}
}

func isBlank(v *string) bool {
	return v == nil || *v == ""
}
