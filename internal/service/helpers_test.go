package service

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/itsm-routing/internal/domain"
	"github.com/spec-kit/itsm-routing/internal/repository/mock"
	apperrors "github.com/spec-kit/itsm-routing/pkg/util/errorutil"
)

type repoMocks struct {
	users       *mock.MockUserRepository
	customRoles *mock.MockCustomRoleRepository
	tenants     *mock.MockTenantRepository
	tickets     *mock.MockTicketRepository
	history     *mock.MockTicketHistoryRepository
	audit       *mock.MockAuditSettingsRepository
}

func newRepoMocks(t *testing.T) *repoMocks {
	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })
	return &repoMocks{
		users:       mock.NewMockUserRepository(ctrl),
		customRoles: mock.NewMockCustomRoleRepository(ctrl),
		tenants:     mock.NewMockTenantRepository(ctrl),
		tickets:     mock.NewMockTicketRepository(ctrl),
		history:     mock.NewMockTicketHistoryRepository(ctrl),
		audit:       mock.NewMockAuditSettingsRepository(ctrl),
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func newUser(id, org string, roles ...domain.RoleRef) domain.User {
	user := domain.User{ID: id, IsActive: true}
	if org != "" {
		user.OrganizationID = strPtr(org)
	}
	for i, role := range roles {
		user.Roles = append(user.Roles, domain.UserRoleAssignment{
			ID:     id + "-r" + string(rune('0'+i)),
			UserID: id,
			Role:   role,
		})
	}
	return user
}

func sysRole(role domain.SystemRole) domain.RoleRef { return domain.SystemRoleRef{Role: role} }

func assignment(tenantID, userID string, category *string) domain.TenantAssignment {
	return domain.TenantAssignment{ID: tenantID + "-" + userID, TenantID: tenantID, UserID: userID, Category: category}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, apperrors.HasCode(err, code), "expected %s, got %v", code, err)
}
