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
	"github.com/spec-kit/itsm-routing/internal/repository"
	apperrors "github.com/spec-kit/itsm-routing/pkg/util/errorutil"
)

func setupAccess(t *testing.T) (*AccessService, *repoMocks) {
	m := newRepoMocks(t)
	svc := NewAccessService(AccessDependencies{
		UserRepo:       m.users,
		CustomRoleRepo: m.customRoles,
		TenantRepo:     m.tenants,
	})
	return svc, m
}

func TestResolveEffectiveRoles(t *testing.T) {
	svc, _ := setupAccess(t)
	custom := domain.CustomRoleRef{ID: "cr-1", Name: "tier2"}
	user := newUser("u1", "org-1", sysRole(domain.RoleAgent), custom, sysRole(domain.RoleAgent))

	roles := svc.ResolveEffectiveRoles(&user)

	require.Len(t, roles, 2)
	assert.Equal(t, "system:AGENT", roles[0].Key())
	assert.Equal(t, "custom:cr-1", roles[1].Key())
	assert.Empty(t, svc.ResolveEffectiveRoles(nil))
}

func TestCanManageAgentInOrganization(t *testing.T) {
	svc, m := setupAccess(t)
	ctx := context.Background()
	manager := newUser("m1", "org-1", sysRole(domain.RoleITManager))
	sameOrg := newUser("a1", "org-1", sysRole(domain.RoleAgent))
	otherOrg := newUser("a2", "org-2", sysRole(domain.RoleAgent))

	m.users.EXPECT().GetByID(ctx, "a1").Return(&sameOrg, nil)
	m.users.EXPECT().GetByID(ctx, "a2").Return(&otherOrg, nil)
	m.users.EXPECT().GetByID(ctx, "gone").Return(nil, pgx.ErrNoRows)
	m.users.EXPECT().GetByID(ctx, "boom").Return(nil, errors.New("db down"))

	ok, err := svc.CanManageAgentInOrganization(ctx, &manager, "a1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanManageAgentInOrganization(ctx, &manager, "a2")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CanManageAgentInOrganization(ctx, &manager, "gone")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.CanManageAgentInOrganization(ctx, &manager, "boom")
	requireCode(t, err, "INTERNAL_ERROR")
}

func TestCanManageTenant(t *testing.T) {
	ctx := context.Background()
	tenant := &domain.Tenant{ID: "t1", OrganizationID: "org-1", IsActive: true}

	t.Run("global admin without lookup", func(t *testing.T) {
		svc, _ := setupAccess(t)
		actor := newUser("g", "", sysRole(domain.RoleGlobalAdmin))
		ok, err := svc.CanManageTenant(ctx, &actor, "t1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("organization admin", func(t *testing.T) {
		svc, m := setupAccess(t)
		m.tenants.EXPECT().GetByID(ctx, "t1").Return(tenant, nil)
		actor := newUser("adm", "org-1", sysRole(domain.RoleAdmin))
		ok, err := svc.CanManageTenant(ctx, &actor, "t1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("admin of another organization", func(t *testing.T) {
		svc, m := setupAccess(t)
		m.tenants.EXPECT().GetByID(ctx, "t1").Return(tenant, nil)
		actor := newUser("adm", "org-2", sysRole(domain.RoleAdmin))
		ok, err := svc.CanManageTenant(ctx, &actor, "t1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("manager needs assignment", func(t *testing.T) {
		svc, m := setupAccess(t)
		m.tenants.EXPECT().GetByID(ctx, "t1").Return(tenant, nil).Times(2)
		m.tenants.EXPECT().HasAssignment(ctx, "t1", "m1").Return(true, nil)
		m.tenants.EXPECT().HasAssignment(ctx, "t1", "m2").Return(false, nil)

		assigned := newUser("m1", "org-1", sysRole(domain.RoleITManager))
		ok, err := svc.CanManageTenant(ctx, &assigned, "t1")
		require.NoError(t, err)
		assert.True(t, ok)

		unassigned := newUser("m2", "org-1", sysRole(domain.RoleITManager))
		ok, err = svc.CanManageTenant(ctx, &unassigned, "t1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("agent never manages", func(t *testing.T) {
		svc, m := setupAccess(t)
		m.tenants.EXPECT().GetByID(ctx, "t1").Return(tenant, nil)
		actor := newUser("a1", "org-1", sysRole(domain.RoleAgent))
		ok, err := svc.CanManageTenant(ctx, &actor, "t1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing tenant", func(t *testing.T) {
		svc, m := setupAccess(t)
		m.tenants.EXPECT().GetByID(ctx, "nope").Return(nil, pgx.ErrNoRows)
		actor := newUser("adm", "org-1", sysRole(domain.RoleAdmin))
		ok, err := svc.CanManageTenant(ctx, &actor, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCreateCustomRole_Success(t *testing.T) {
	svc, m := setupAccess(t)
	ctx := context.Background()
	actor := newUser("adm", "org-1", sysRole(domain.RoleAdmin))

	m.customRoles.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, role *domain.CustomRole) error {
		role.ID = "cr-1"
		return nil
	})

	role, err := svc.CreateCustomRole(ctx, &actor, CustomRoleInput{Name: strPtr("  tier2 "), Description: strPtr("second line")})

	require.NoError(t, err)
	assert.Equal(t, "cr-1", role.ID)
	assert.Equal(t, "org-1", role.OrganizationID)
	assert.Equal(t, "tier2", role.Name)
	assert.Equal(t, "tier2", role.DisplayName)
	assert.True(t, role.IsActive)
}

func TestCreateCustomRole_Fail(t *testing.T) {
	ctx := context.Background()
	admin := newUser("adm", "org-1", sysRole(domain.RoleAdmin))

	t.Run("agent", func(t *testing.T) {
		svc, _ := setupAccess(t)
		actor := newUser("a1", "org-1", sysRole(domain.RoleAgent))
		_, err := svc.CreateCustomRole(ctx, &actor, CustomRoleInput{Name: strPtr("x")})
		requireCode(t, err, "FORBIDDEN")
	})

	t.Run("manager targets another organization", func(t *testing.T) {
		svc, _ := setupAccess(t)
		actor := newUser("m1", "org-1", sysRole(domain.RoleITManager))
		_, err := svc.CreateCustomRole(ctx, &actor, CustomRoleInput{OrganizationID: strPtr("org-2"), Name: strPtr("x")})
		requireCode(t, err, "FORBIDDEN")
	})

	t.Run("empty name", func(t *testing.T) {
		svc, _ := setupAccess(t)
		_, err := svc.CreateCustomRole(ctx, &admin, CustomRoleInput{Name: strPtr("   ")})
		requireCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("system role name", func(t *testing.T) {
		svc, _ := setupAccess(t)
		_, err := svc.CreateCustomRole(ctx, &admin, CustomRoleInput{Name: strPtr("AGENT")})
		requireCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("duplicate", func(t *testing.T) {
		svc, m := setupAccess(t)
		m.customRoles.EXPECT().Create(ctx, gomock.Any()).Return(repository.ErrDuplicateName)
		_, err := svc.CreateCustomRole(ctx, &admin, CustomRoleInput{Name: strPtr("tier2")})
		requireCode(t, err, "CONFLICT")
	})

	t.Run("unknown organization", func(t *testing.T) {
		svc, m := setupAccess(t)
		root := domain.User{ID: "root", IsActive: true, IsGlobalAdmin: true}
		m.customRoles.EXPECT().Create(ctx, gomock.Any()).Return(repository.ErrOrganizationNotFound)
		_, err := svc.CreateCustomRole(ctx, &root, CustomRoleInput{OrganizationID: strPtr("org-missing"), Name: strPtr("tier2")})
		requireCode(t, err, "NOT_FOUND")
	})
}

func TestCreateCustomRole_GlobalAdminPicksOrganization(t *testing.T) {
	svc, m := setupAccess(t)
	ctx := context.Background()
	actor := domain.User{ID: "root", IsActive: true, IsGlobalAdmin: true}

	m.customRoles.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	role, err := svc.CreateCustomRole(ctx, &actor, CustomRoleInput{OrganizationID: strPtr("org-9"), Name: strPtr("auditors")})
	require.NoError(t, err)
	assert.Equal(t, "org-9", role.OrganizationID)

	_, err = svc.CreateCustomRole(ctx, &actor, CustomRoleInput{Name: strPtr("auditors")})
	requireCode(t, err, "BAD_REQUEST")
}

func TestUpdateCustomRole(t *testing.T) {
	svc, m := setupAccess(t)
	ctx := context.Background()
	actor := newUser("m1", "org-1", sysRole(domain.RoleITManager))
	existing := &domain.CustomRole{ID: "cr-1", OrganizationID: "org-1", Name: "tier2", DisplayName: "Tier 2", IsActive: true}

	m.customRoles.EXPECT().GetByID(ctx, "cr-1").Return(existing, nil)
	m.customRoles.EXPECT().Update(ctx, existing).Return(nil)

	role, err := svc.UpdateCustomRole(ctx, &actor, "cr-1", CustomRoleInput{IsActive: boolPtr(false)})

	require.NoError(t, err)
	assert.False(t, role.IsActive)
	assert.Equal(t, "Tier 2", role.DisplayName)
}

func TestDeleteCustomRole_Success(t *testing.T) {
	svc, m := setupAccess(t)
	ctx := context.Background()
	actor := newUser("adm", "org-1", sysRole(domain.RoleAdmin))

	m.customRoles.EXPECT().GetByID(ctx, "cr-1").Return(&domain.CustomRole{ID: "cr-1", OrganizationID: "org-1"}, nil)
	m.customRoles.EXPECT().CountAssignments(ctx, "cr-1").Return(0, nil)
	m.customRoles.EXPECT().Delete(ctx, "cr-1").Return(nil)

	role, err := svc.DeleteCustomRole(ctx, &actor, "cr-1")

	require.NoError(t, err)
	assert.Equal(t, "org-1", role.OrganizationID)
}

func TestDeleteCustomRole_GlobalAdminReturnsRoleOrganization(t *testing.T) {
	svc, m := setupAccess(t)
	ctx := context.Background()
	actor := domain.User{ID: "root", IsActive: true, IsGlobalAdmin: true}

	m.customRoles.EXPECT().GetByID(ctx, "cr-7").Return(&domain.CustomRole{ID: "cr-7", OrganizationID: "org-2"}, nil)
	m.customRoles.EXPECT().CountAssignments(ctx, "cr-7").Return(0, nil)
	m.customRoles.EXPECT().Delete(ctx, "cr-7").Return(nil)

	role, err := svc.DeleteCustomRole(ctx, &actor, "cr-7")

	require.NoError(t, err)
	assert.Equal(t, "org-2", role.OrganizationID)
}

func TestDeleteCustomRole_Fail_StillAssigned(t *testing.T) {
	svc, m := setupAccess(t)
	ctx := context.Background()
	actor := newUser("adm", "org-1", sysRole(domain.RoleAdmin))

	m.customRoles.EXPECT().GetByID(ctx, "cr-1").Return(&domain.CustomRole{ID: "cr-1", OrganizationID: "org-1"}, nil)
	m.customRoles.EXPECT().CountAssignments(ctx, "cr-1").Return(3, nil)

	_, err := svc.DeleteCustomRole(ctx, &actor, "cr-1")

	requireCode(t, err, "CONFLICT")
	assert.Equal(t, 3, apperrors.ToDomainError(err).Details["assignments"])
}

func TestDeleteCustomRole_Fail_AssignedConcurrently(t *testing.T) {
	svc, m := setupAccess(t)
	ctx := context.Background()
	actor := newUser("adm", "org-1", sysRole(domain.RoleAdmin))

	m.customRoles.EXPECT().GetByID(ctx, "cr-1").Return(&domain.CustomRole{ID: "cr-1", OrganizationID: "org-1"}, nil)
	m.customRoles.EXPECT().CountAssignments(ctx, "cr-1").Return(0, nil)
	m.customRoles.EXPECT().Delete(ctx, "cr-1").Return(repository.ErrCustomRoleInUse)

	_, err := svc.DeleteCustomRole(ctx, &actor, "cr-1")
	requireCode(t, err, "CONFLICT")
}

func TestDeleteCustomRole_Fail_OtherOrganization(t *testing.T) {
	svc, m := setupAccess(t)
	ctx := context.Background()
	actor := newUser("m1", "org-1", sysRole(domain.RoleITManager))

	m.customRoles.EXPECT().GetByID(ctx, "cr-1").Return(&domain.CustomRole{ID: "cr-1", OrganizationID: "org-2"}, nil)

	_, err := svc.DeleteCustomRole(ctx, &actor, "cr-1")
	requireCode(t, err, "FORBIDDEN")
}

func TestListCustomRoles(t *testing.T) {
	svc, m := setupAccess(t)
	ctx := context.Background()
	actor := newUser("m1", "org-1", sysRole(domain.RoleITManager))
	roles := []domain.CustomRole{{ID: "cr-1", OrganizationID: "org-1", Name: "tier2"}}

	m.customRoles.EXPECT().ListByOrganization(ctx, "org-1", false).Return(roles, nil)

	got, err := svc.ListCustomRoles(ctx, &actor, "")
	require.NoError(t, err)
	assert.Equal(t, roles, got)

	_, err = svc.ListCustomRoles(ctx, nil, "")
	requireCode(t, err, "UNAUTHORIZED")
}
