package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/itsm-routing/internal/domain"
	"github.com/spec-kit/itsm-routing/internal/events"
	"github.com/spec-kit/itsm-routing/internal/observability"
)

func setupRouting(t *testing.T) (*RoutingService, *repoMocks, events.Dispatcher) {
	m := newRepoMocks(t)
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewRoutingService(RoutingDependencies{
		TicketRepo:  m.tickets,
		UserRepo:    m.users,
		TenantRepo:  m.tenants,
		HistoryRepo: m.history,
		Dispatcher:  dispatcher,
		Metrics:     observability.NewMetrics(),
	})
	return svc, m, dispatcher
}

var tenantT1 = &domain.Tenant{ID: "t1", OrganizationID: "org-1", IsActive: true}

func TestRouteByCategory_LeastLoadedWins(t *testing.T) {
	svc, m, _ := setupRouting(t)
	ctx := context.Background()
	hardware := strPtr("Hardware")

	m.tenants.EXPECT().GetByID(ctx, "t1").Return(tenantT1, nil)
	m.tenants.EXPECT().ListAssignments(ctx, "t1", hardware).Return([]domain.TenantAssignment{
		assignment("t1", "a1", hardware),
		assignment("t1", "a2", hardware),
	}, nil)
	m.users.EXPECT().ListByIDs(ctx, []string{"a1", "a2"}).Return([]domain.User{
		newUser("a2", "org-1", sysRole(domain.RoleAgent)),
		newUser("a1", "org-1", sysRole(domain.RoleAgent)),
	}, nil)
	m.tickets.EXPECT().CountOpenByAssignee(ctx, "a1").Return(5, nil)
	m.tickets.EXPECT().CountOpenByAssignee(ctx, "a2").Return(2, nil)

	assignee, err := svc.RouteByCategory(ctx, "ticket-1", strPtr("t1"), hardware)

	require.NoError(t, err)
	require.NotNil(t, assignee)
	assert.Equal(t, "a2", *assignee)
}

func TestRouteByCategory_TieGoesToFirstEnumerated(t *testing.T) {
	svc, m, _ := setupRouting(t)
	ctx := context.Background()
	category := strPtr("Network")

	m.tenants.EXPECT().GetByID(ctx, "t1").Return(tenantT1, nil)
	m.tenants.EXPECT().ListAssignments(ctx, "t1", category).Return([]domain.TenantAssignment{
		assignment("t1", "m1", nil),
		assignment("t1", "a1", category),
		assignment("t1", "a2", category),
	}, nil)
	m.users.EXPECT().ListByIDs(ctx, []string{"m1", "a1", "a2"}).Return([]domain.User{
		newUser("a1", "org-1", sysRole(domain.RoleAgent)),
		newUser("a2", "org-1", sysRole(domain.RoleAgent)),
		newUser("m1", "org-1", sysRole(domain.RoleITManager)),
	}, nil)
	m.tickets.EXPECT().CountOpenByAssignee(ctx, "m1").Return(3, nil)
	m.tickets.EXPECT().CountOpenByAssignee(ctx, "a1").Return(1, nil)
	m.tickets.EXPECT().CountOpenByAssignee(ctx, "a2").Return(1, nil)

	assignee, err := svc.RouteByCategory(ctx, "ticket-1", strPtr("t1"), category)

	require.NoError(t, err)
	require.NotNil(t, assignee)
	assert.Equal(t, "a1", *assignee)
}

func TestRouteByCategory_SkipsNonRoutableAndForeignUsers(t *testing.T) {
	svc, m, _ := setupRouting(t)
	ctx := context.Background()
	category := strPtr("Hardware")

	m.tenants.EXPECT().GetByID(ctx, "t1").Return(tenantT1, nil)
	m.tenants.EXPECT().ListAssignments(ctx, "t1", category).Return([]domain.TenantAssignment{
		assignment("t1", "enduser", nil),
		assignment("t1", "admin", nil),
		assignment("t1", "foreign", nil),
		assignment("t1", "agent", nil),
	}, nil)
	agent := newUser("agent", "org-1", sysRole(domain.RoleAgent))
	m.users.EXPECT().ListByIDs(ctx, gomock.Any()).Return([]domain.User{
		newUser("enduser", "org-1", sysRole(domain.RoleEndUser)),
		newUser("admin", "org-1", sysRole(domain.RoleAdmin)),
		newUser("foreign", "org-2", sysRole(domain.RoleAgent)),
		agent,
	}, nil)
	m.tickets.EXPECT().CountOpenByAssignee(ctx, "agent").Return(9, nil)

	assignee, err := svc.RouteByCategory(ctx, "ticket-1", strPtr("t1"), category)

	require.NoError(t, err)
	require.NotNil(t, assignee)
	assert.Equal(t, "agent", *assignee)
}

func TestRouteByCategory_OnlyEndUsersReturnsNone(t *testing.T) {
	svc, m, _ := setupRouting(t)
	ctx := context.Background()
	category := strPtr("Hardware")

	m.tenants.EXPECT().GetByID(ctx, "t1").Return(tenantT1, nil)
	m.tenants.EXPECT().ListAssignments(ctx, "t1", category).Return([]domain.TenantAssignment{
		assignment("t1", "enduser", category),
	}, nil)
	m.users.EXPECT().ListByIDs(ctx, []string{"enduser"}).Return([]domain.User{
		newUser("enduser", "org-1", sysRole(domain.RoleEndUser)),
	}, nil)

	assignee, err := svc.RouteByCategory(ctx, "ticket-1", strPtr("t1"), category)

	require.NoError(t, err)
	assert.Nil(t, assignee)
}

func TestRouteByCategory_MissingInputReturnsNone(t *testing.T) {
	svc, _, _ := setupRouting(t)
	ctx := context.Background()

	assignee, err := svc.RouteByCategory(ctx, "ticket-1", nil, strPtr("x"))
	require.NoError(t, err)
	assert.Nil(t, assignee)

	assignee, err = svc.RouteByCategory(ctx, "ticket-1", strPtr("t"), nil)
	require.NoError(t, err)
	assert.Nil(t, assignee)

	assignee, err = svc.RouteByCategory(ctx, "ticket-1", strPtr(""), strPtr("x"))
	require.NoError(t, err)
	assert.Nil(t, assignee)
}

func TestRouteByCategory_NoAssignmentsReturnsNone(t *testing.T) {
	svc, m, _ := setupRouting(t)
	ctx := context.Background()
	category := strPtr("Hardware")

	m.tenants.EXPECT().GetByID(ctx, "t1").Return(tenantT1, nil)
	m.tenants.EXPECT().ListAssignments(ctx, "t1", category).Return([]domain.TenantAssignment{}, nil)

	assignee, err := svc.RouteByCategory(ctx, "ticket-1", strPtr("t1"), category)

	require.NoError(t, err)
	assert.Nil(t, assignee)
}

func TestRouteByCategory_Fail_CountError(t *testing.T) {
	svc, m, _ := setupRouting(t)
	ctx := context.Background()
	category := strPtr("Hardware")

	m.tenants.EXPECT().GetByID(ctx, "t1").Return(tenantT1, nil)
	m.tenants.EXPECT().ListAssignments(ctx, "t1", category).Return([]domain.TenantAssignment{
		assignment("t1", "a1", nil),
		assignment("t1", "a2", nil),
	}, nil)
	m.users.EXPECT().ListByIDs(ctx, gomock.Any()).Return([]domain.User{
		newUser("a1", "org-1", sysRole(domain.RoleAgent)),
		newUser("a2", "org-1", sysRole(domain.RoleAgent)),
	}, nil)
	m.tickets.EXPECT().CountOpenByAssignee(ctx, "a1").Return(0, errors.New("db down"))

	assignee, err := svc.RouteByCategory(ctx, "ticket-1", strPtr("t1"), category)

	requireCode(t, err, "INTERNAL_ERROR")
	assert.Nil(t, assignee)
}

func TestRouteByCategory_Fail_UnknownTenant(t *testing.T) {
	svc, m, _ := setupRouting(t)
	ctx := context.Background()

	m.tenants.EXPECT().GetByID(ctx, "missing").Return(nil, pgx.ErrNoRows)

	_, err := svc.RouteByCategory(ctx, "ticket-1", strPtr("missing"), strPtr("Hardware"))

	requireCode(t, err, "NOT_FOUND")
}

func TestAssignByCategory_PersistsAndPublishes(t *testing.T) {
	svc, m, dispatcher := setupRouting(t)
	ctx := context.Background()
	category := strPtr("Hardware")
	ticket := &domain.Ticket{ID: "ticket-1", OrganizationID: "org-1", TenantID: strPtr("t1"), Category: category, Status: domain.TicketStatusOpen}

	var published []events.Event
	dispatcher.Subscribe(events.EventTicketAssigned, func(ctx context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	m.tickets.EXPECT().GetByID(ctx, "ticket-1").Return(ticket, nil)
	m.tenants.EXPECT().GetByID(ctx, "t1").Return(tenantT1, nil)
	m.tenants.EXPECT().ListAssignments(ctx, "t1", category).Return([]domain.TenantAssignment{assignment("t1", "a1", nil)}, nil)
	m.users.EXPECT().ListByIDs(ctx, []string{"a1"}).Return([]domain.User{newUser("a1", "org-1", sysRole(domain.RoleAgent))}, nil)
	m.tickets.EXPECT().CountOpenByAssignee(ctx, "a1").Return(0, nil)
	m.tickets.EXPECT().UpdateAssignee(ctx, "ticket-1", strPtr("a1")).Return(nil)
	m.history.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, h *domain.TicketHistory) error {
		assert.Equal(t, domain.ChangeTypeAssignee, h.ChangeType)
		assert.Nil(t, h.ActorID)
		assert.Equal(t, "a1", h.NewValue["assignee_id"])
		return nil
	})

	updated, err := svc.AssignByCategory(ctx, "ticket-1")

	require.NoError(t, err)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, "a1", *updated.AssigneeID)
	require.Len(t, published, 1)
	assert.Equal(t, "a1", published[0].Payload.(events.TicketAssignedPayload).AssigneeID)
}

func TestAssignByCategory_RoutingFailureLeavesUnassigned(t *testing.T) {
	svc, m, _ := setupRouting(t)
	ctx := context.Background()
	category := strPtr("Hardware")
	ticket := &domain.Ticket{ID: "ticket-1", OrganizationID: "org-1", TenantID: strPtr("t1"), Category: category}

	m.tickets.EXPECT().GetByID(ctx, "ticket-1").Return(ticket, nil)
	m.tenants.EXPECT().GetByID(ctx, "t1").Return(tenantT1, nil)
	m.tenants.EXPECT().ListAssignments(ctx, "t1", category).Return(nil, errors.New("timeout"))

	updated, err := svc.AssignByCategory(ctx, "ticket-1")

	require.NoError(t, err)
	assert.Nil(t, updated.AssigneeID)
}

func TestAssignByCategory_SkipsAssignedOrUncategorized(t *testing.T) {
	svc, m, _ := setupRouting(t)
	ctx := context.Background()

	m.tickets.EXPECT().GetByID(ctx, "assigned").Return(&domain.Ticket{ID: "assigned", OrganizationID: "org-1", TenantID: strPtr("t1"), Category: strPtr("x"), AssigneeID: strPtr("a9")}, nil)
	m.tickets.EXPECT().GetByID(ctx, "nocat").Return(&domain.Ticket{ID: "nocat", OrganizationID: "org-1", TenantID: strPtr("t1")}, nil)

	ticket, err := svc.AssignByCategory(ctx, "assigned")
	require.NoError(t, err)
	assert.Equal(t, "a9", *ticket.AssigneeID)

	ticket, err = svc.AssignByCategory(ctx, "nocat")
	require.NoError(t, err)
	assert.Nil(t, ticket.AssigneeID)
}

func TestAssignByCategory_TenantFromOtherOrganization(t *testing.T) {
	svc, m, _ := setupRouting(t)
	ctx := context.Background()
	ticket := &domain.Ticket{ID: "ticket-1", OrganizationID: "org-2", TenantID: strPtr("t1"), Category: strPtr("Hardware")}

	m.tickets.EXPECT().GetByID(ctx, "ticket-1").Return(ticket, nil)
	m.tenants.EXPECT().GetByID(ctx, "t1").Return(tenantT1, nil)

	updated, err := svc.AssignByCategory(ctx, "ticket-1")

	require.NoError(t, err)
	assert.Nil(t, updated.AssigneeID)
}

func TestRouteTicket_Fail_EndUser(t *testing.T) {
	svc, _, _ := setupRouting(t)
	actor := newUser("u1", "org-1", sysRole(domain.RoleEndUser))

	_, err := svc.RouteTicket(context.Background(), &actor, "ticket-1")

	requireCode(t, err, "FORBIDDEN")
}

func TestRouteTicket_Fail_OtherOrganization(t *testing.T) {
	svc, m, _ := setupRouting(t)
	ctx := context.Background()
	actor := newUser("a1", "org-1", sysRole(domain.RoleAgent))

	m.tickets.EXPECT().GetByID(ctx, "ticket-1").Return(&domain.Ticket{ID: "ticket-1", OrganizationID: "org-2"}, nil)

	_, err := svc.RouteTicket(ctx, &actor, "ticket-1")

	requireCode(t, err, "FORBIDDEN")
}
