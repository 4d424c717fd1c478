package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/itsm-routing/internal/domain"
)

func TestEligibleAssignees_CategoryScopedThenFallback(t *testing.T) {
	m := newRepoMocks(t)
	index := NewTenantIndex(m.tenants)
	ctx := context.Background()
	category := strPtr("Hardware")

	m.tenants.EXPECT().GetByID(ctx, "t1").Return(tenantT1, nil).Times(2)
	m.tenants.EXPECT().ListAssignments(ctx, "t1", category).Return([]domain.TenantAssignment{
		assignment("t1", "a1", category),
		assignment("t1", "a2", strPtr("Software")),
		assignment("t1", "a3", nil),
		assignment("t1", "a1", nil),
	}, nil).Times(2)
	m.tenants.EXPECT().ListUnscopedUserIDs(ctx, "org-1").Return([]string{"u1", "a3"}, nil)

	ids, err := index.EligibleAssignees(ctx, "t1", category, EligibilityOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a3"}, ids)

	ids, err = index.EligibleAssignees(ctx, "t1", category, EligibilityOptions{AllowOrgFallback: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a3", "u1"}, ids)
}

func TestEligibleAssignees_NilCategoryMatchesUnscopedOnly(t *testing.T) {
	m := newRepoMocks(t)
	index := NewTenantIndex(m.tenants)
	ctx := context.Background()

	m.tenants.EXPECT().GetByID(ctx, "t1").Return(tenantT1, nil)
	m.tenants.EXPECT().ListAssignments(ctx, "t1", (*string)(nil)).Return([]domain.TenantAssignment{
		assignment("t1", "a1", strPtr("Hardware")),
		assignment("t1", "a2", nil),
	}, nil)

	ids, err := index.EligibleAssignees(ctx, "t1", nil, EligibilityOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, ids)
}

func TestEligibleAssignees_Fail_UnknownTenant(t *testing.T) {
	m := newRepoMocks(t)
	index := NewTenantIndex(m.tenants)
	ctx := context.Background()

	m.tenants.EXPECT().GetByID(ctx, "nope").Return(nil, pgx.ErrNoRows)

	_, err := index.EligibleAssignees(ctx, "nope", nil, EligibilityOptions{})
	requireCode(t, err, "NOT_FOUND")
}
