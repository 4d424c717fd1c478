package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/itsm-routing/internal/domain"
)

var (
	// ErrCustomRoleInUse is returned when deleting a role that assignments still reference.
	ErrCustomRoleInUse = errors.New("custom role is referenced by user role assignments")
	// ErrDuplicateName is returned when a unique name constraint is violated.
	ErrDuplicateName = errors.New("name already exists")
	// ErrOrganizationNotFound is returned when a role is written for an unknown organization.
	ErrOrganizationNotFound = errors.New("organization does not exist")
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// CustomRoleRepository persists organization custom roles.
type CustomRoleRepository interface {
	Create(ctx context.Context, role *domain.CustomRole) error
	Update(ctx context.Context, role *domain.CustomRole) error
	GetByID(ctx context.Context, id string) (*domain.CustomRole, error)
	ListByOrganization(ctx context.Context, organizationID string, activeOnly bool) ([]domain.CustomRole, error)
	CountAssignments(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}

type customRoleRepository struct {
	pool *pgxpool.Pool
}

// NewCustomRoleRepository builds the repository.
func NewCustomRoleRepository(pool *pgxpool.Pool) CustomRoleRepository {
	return &customRoleRepository{pool: pool}
}

func (r *customRoleRepository) Create(ctx context.Context, role *domain.CustomRole) error {
	const query = `
        INSERT INTO custom_roles (organization_id, name, display_name, description, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		role.OrganizationID,
		role.Name,
		role.DisplayName,
		role.Description,
		role.IsActive,
	).Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)
	return translateConstraint(err)
}

func (r *customRoleRepository) Update(ctx context.Context, role *domain.CustomRole) error {
	const query = `
        UPDATE custom_roles SET name=$1, display_name=$2, description=$3, is_active=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		role.Name,
		role.DisplayName,
		role.Description,
		role.IsActive,
		role.ID,
	).Scan(&role.UpdatedAt)
	return translateConstraint(err)
}

func (r *customRoleRepository) GetByID(ctx context.Context, id string) (*domain.CustomRole, error) {
	const query = `
        SELECT id, organization_id, name, display_name, description, is_active, created_at, updated_at
        FROM custom_roles WHERE id=$1`
	var role domain.CustomRole
	if err := scanCustomRole(r.pool.QueryRow(ctx, query, id), &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *customRoleRepository) ListByOrganization(ctx context.Context, organizationID string, activeOnly bool) ([]domain.CustomRole, error) {
	const query = `
        SELECT id, organization_id, name, display_name, description, is_active, created_at, updated_at
        FROM custom_roles
        WHERE organization_id=$1 AND (is_active OR NOT $2)
        ORDER BY display_name ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, organizationID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []domain.CustomRole{}
	for rows.Next() {
		var role domain.CustomRole
		if err := scanCustomRole(rows, &role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *customRoleRepository) CountAssignments(ctx context.Context, id string) (int, error) {
	const query = `SELECT COUNT(*) FROM user_role_assignments WHERE custom_role_id=$1`
	var count int
	if err := r.pool.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes the role only while no assignment references it. The
// guard and the delete run as one statement so a concurrent assignment
// cannot slip in between.
func (r *customRoleRepository) Delete(ctx context.Context, id string) error {
	const query = `
        DELETE FROM custom_roles
        WHERE id=$1 AND NOT EXISTS (SELECT 1 FROM user_role_assignments WHERE custom_role_id=$1)`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return translateDeleteError(err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrCustomRoleInUse
}

func scanCustomRole(row pgx.Row, role *domain.CustomRole) error {
	return row.Scan(
		&role.ID,
		&role.OrganizationID,
		&role.Name,
		&role.DisplayName,
		&role.Description,
		&role.IsActive,
		&role.CreatedAt,
		&role.UpdatedAt,
	)
}

// translateConstraint maps violations raised by inserts and updates. The
// only foreign key custom_roles carries is organization_id.
func translateConstraint(err error) error {
	switch pgErrorCode(err) {
	case pgForeignKeyViolation:
		return ErrOrganizationNotFound
	case pgUniqueViolation:
		return ErrDuplicateName
	}
	return err
}

// translateDeleteError maps the RESTRICT raised when an assignment is
// inserted between the guard and the delete.
func translateDeleteError(err error) error {
	if pgErrorCode(err) == pgForeignKeyViolation {
		return ErrCustomRoleInUse
	}
	return err
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
