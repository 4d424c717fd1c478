package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/itsm-routing/internal/domain"
	"github.com/spec-kit/itsm-routing/internal/repository"
	apperrors "github.com/spec-kit/itsm-routing/pkg/util/errorutil"
)

// EligibilityOptions tunes EligibleAssignees.
type EligibilityOptions struct {
	// AllowOrgFallback also returns organization users that hold no tenant
	// assignment anywhere. Automatic routing never sets it.
	AllowOrgFallback bool
}

// TenantIndex answers which users are eligible for a tenant's tickets.
type TenantIndex struct {
	tenants repository.TenantRepository
}

// NewTenantIndex creates the index.
func NewTenantIndex(tenants repository.TenantRepository) *TenantIndex {
	return &TenantIndex{tenants: tenants}
}

// EligibleAssignees returns distinct user ids in eligibility scan order:
// tenant assignments with a NULL or matching category first, then, when
// allowed, organization-wide users without any tenant assignment.
func (i *TenantIndex) EligibleAssignees(ctx context.Context, tenantID string, category *string, opts EligibilityOptions) ([]string, error) {
	tenant, err := i.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("tenant", map[string]any{"tenant_id": tenantID})
		}
		return nil, apperrors.MapError(err)
	}
	return i.eligibleForTenant(ctx, tenant, category, opts)
}

func (i *TenantIndex) eligibleForTenant(ctx context.Context, tenant *domain.Tenant, category *string, opts EligibilityOptions) ([]string, error) {
	assignments, err := i.tenants.ListAssignments(ctx, tenant.ID, category)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	seen := make(map[string]struct{}, len(assignments))
	ids := make([]string, 0, len(assignments))
	add := func(id string) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, assignment := range assignments {
		if assignment.Covers(category) {
			add(assignment.UserID)
		}
	}
	if opts.AllowOrgFallback {
		unscoped, err := i.tenants.ListUnscopedUserIDs(ctx, tenant.OrganizationID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		for _, id := range unscoped {
			add(id)
		}
	}
	return ids, nil
}

// IsAssigned reports whether the user holds any assignment on the tenant.
func (i *TenantIndex) IsAssigned(ctx context.Context, tenantID, userID string) (bool, error) {
	ok, err := i.tenants.HasAssignment(ctx, tenantID, userID)
	if err != nil {
		return false, apperrors.MapError(err)
	}
	return ok, nil
}
