package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/itsm-routing/internal/domain"
)

// TenantRepository reads tenants and their assignments. Assignment writes
// belong to tenant management flows.
type TenantRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	// ListAssignments returns assignments covering category (NULL category
	// rows always match) in eligibility scan order.
	ListAssignments(ctx context.Context, tenantID string, category *string) ([]domain.TenantAssignment, error)
	// ListUnscopedUserIDs returns organization users with no tenant assignment at all.
	ListUnscopedUserIDs(ctx context.Context, organizationID string) ([]string, error)
	HasAssignment(ctx context.Context, tenantID, userID string) (bool, error)
}

type tenantRepository struct {
	pool *pgxpool.Pool
}

// NewTenantRepository builds the repository.
func NewTenantRepository(pool *pgxpool.Pool) TenantRepository {
	return &tenantRepository{pool: pool}
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	const query = `
        SELECT id, organization_id, name, is_active, created_at, updated_at
        FROM tenants WHERE id=$1`
	var tenant domain.Tenant
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tenant.ID,
		&tenant.OrganizationID,
		&tenant.Name,
		&tenant.IsActive,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) ListAssignments(ctx context.Context, tenantID string, category *string) ([]domain.TenantAssignment, error) {
	const query = `
        SELECT id, tenant_id, user_id, category, created_at
        FROM tenant_assignments
        WHERE tenant_id=$1 AND (category IS NULL OR category = $2)
        ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, tenantID, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.TenantAssignment{}
	for rows.Next() {
		var assignment domain.TenantAssignment
		if err := rows.Scan(
			&assignment.ID,
			&assignment.TenantID,
			&assignment.UserID,
			&assignment.Category,
			&assignment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, assignment)
	}
	return result, rows.Err()
}

func (r *tenantRepository) ListUnscopedUserIDs(ctx context.Context, organizationID string) ([]string, error) {
	const query = `
        SELECT u.id FROM users u
        WHERE u.organization_id=$1 AND u.deleted_at IS NULL AND u.is_active=TRUE
          AND NOT EXISTS (SELECT 1 FROM tenant_assignments ta WHERE ta.user_id = u.id)
        ORDER BY u.created_at ASC, u.id ASC`
	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *tenantRepository) HasAssignment(ctx context.Context, tenantID, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tenant_assignments WHERE tenant_id=$1 AND user_id=$2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, tenantID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
