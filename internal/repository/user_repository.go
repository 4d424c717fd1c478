package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/itsm-routing/internal/domain"
)

// UserRepository loads the user+roles graph consumed by the permission resolver.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository builds the repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, email, name, organization_id, is_active, is_global_admin, created_at, updated_at, deleted_at`

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1 AND deleted_at IS NULL`
	var user domain.User
	if err := scanUser(r.pool.QueryRow(ctx, query, id), &user); err != nil {
		return nil, err
	}
	users := []domain.User{user}
	if err := r.attachRoles(ctx, users); err != nil {
		return nil, err
	}
	return &users[0], nil
}

// ListByIDs returns the non-deleted users among ids. Result order is unspecified.
func (r *userRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1) AND deleted_at IS NULL`
	return r.list(ctx, query, ids)
}

// ListByOrganization returns active users ordered by creation.
func (r *userRepository) ListByOrganization(ctx context.Context, organizationID string) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
        WHERE organization_id=$1 AND deleted_at IS NULL AND is_active=TRUE
        ORDER BY created_at ASC, id ASC`
	return r.list(ctx, query, organizationID)
}

func (r *userRepository) list(ctx context.Context, query string, arg any) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachRoles(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

// attachRoles loads role assignments for all users in one round trip.
// Assignments to inactive custom roles are not part of the effective set.
func (r *userRepository) attachRoles(ctx context.Context, users []domain.User) error {
	if len(users) == 0 {
		return nil
	}
	index := make(map[string]int, len(users))
	ids := make([]string, 0, len(users))
	for i := range users {
		index[users[i].ID] = i
		ids = append(ids, users[i].ID)
	}

	const query = `
        SELECT ura.id, ura.user_id, ura.system_role, ura.custom_role_id, cr.name, ura.created_at
        FROM user_role_assignments ura
        LEFT JOIN custom_roles cr ON cr.id = ura.custom_role_id
        WHERE ura.user_id = ANY($1) AND (ura.custom_role_id IS NULL OR cr.is_active = TRUE)
        ORDER BY ura.created_at ASC, ura.id ASC`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			assignment   domain.UserRoleAssignment
			systemRole   *string
			customRoleID *string
			customName   *string
		)
		if err := rows.Scan(&assignment.ID, &assignment.UserID, &systemRole, &customRoleID, &customName, &assignment.CreatedAt); err != nil {
			return err
		}
		switch {
		case systemRole != nil:
			assignment.Role = domain.SystemRoleRef{Role: domain.SystemRole(*systemRole)}
		case customRoleID != nil:
			ref := domain.CustomRoleRef{ID: *customRoleID}
			if customName != nil {
				ref.Name = *customName
			}
			assignment.Role = ref
		default:
			continue
		}
		i := index[assignment.UserID]
		users[i].Roles = append(users[i].Roles, assignment)
	}
	return rows.Err()
}

func scanUser(row pgx.Row, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.OrganizationID,
		&user.IsActive,
		&user.IsGlobalAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
}
