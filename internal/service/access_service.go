package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/itsm-routing/internal/domain"
	"github.com/spec-kit/itsm-routing/internal/rbac"
	"github.com/spec-kit/itsm-routing/internal/repository"
	apperrors "github.com/spec-kit/itsm-routing/pkg/util/errorutil"
)

// AccessService exposes role resolution, management checks and custom
// role administration.
type AccessService struct {
	users       repository.UserRepository
	customRoles repository.CustomRoleRepository
	tenants     repository.TenantRepository
	index       *TenantIndex
	logger      *zap.Logger
}

// AccessDependencies bundles collaborators.
type AccessDependencies struct {
	UserRepo       repository.UserRepository
	CustomRoleRepo repository.CustomRoleRepository
	TenantRepo     repository.TenantRepository
	Logger         *zap.Logger
}

// CustomRoleInput carries create/update fields. Nil fields are left unchanged on update.
type CustomRoleInput struct {
	OrganizationID *string
	Name           *string
	DisplayName    *string
	Description    *string
	IsActive       *bool
}

// NewAccessService creates the service.
func NewAccessService(deps AccessDependencies) *AccessService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessService{
		users:       deps.UserRepo,
		customRoles: deps.CustomRoleRepo,
		tenants:     deps.TenantRepo,
		index:       NewTenantIndex(deps.TenantRepo),
		logger:      logger,
	}
}

// ResolveEffectiveRoles returns the user's role references.
func (s *AccessService) ResolveEffectiveRoles(user *domain.User) []domain.RoleRef {
	return rbac.EffectiveRoles(user)
}

// CanManageAgentInOrganization loads the target and applies rbac.CanManageAgent.
// A missing target is simply "no"; only store failures return an error.
func (s *AccessService) CanManageAgentInOrganization(ctx context.Context, actor *domain.User, targetUserID string) (bool, error) {
	if actor == nil || targetUserID == "" {
		return false, nil
	}
	target, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, apperrors.MapError(err)
	}
	return rbac.CanManageAgent(actor, target), nil
}

// CanManageTenant reports whether actor administers the tenant: global
// admins always, organization ADMINs for their own tenants, IT_MANAGERs
// only for tenants they are assigned to.
func (s *AccessService) CanManageTenant(ctx context.Context, actor *domain.User, tenantID string) (bool, error) {
	if actor == nil || tenantID == "" {
		return false, nil
	}
	if rbac.IsGlobalAdmin(actor) {
		return true, nil
	}
	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, apperrors.MapError(err)
	}
	if !actor.InOrganization(tenant.OrganizationID) {
		return false, nil
	}
	if rbac.IsAdmin(actor) {
		return true, nil
	}
	if !rbac.HasSystemRole(actor, domain.RoleITManager) {
		return false, nil
	}
	return s.index.IsAssigned(ctx, tenant.ID, actor.ID)
}

// ListCustomRoles lists an organization's roles. Empty orgID means the actor's own.
func (s *AccessService) ListCustomRoles(ctx context.Context, actor *domain.User, orgID string) ([]domain.CustomRole, error) {
	orgID, err := s.resolveRoleOrg(actor, orgID)
	if err != nil {
		return nil, err
	}
	roles, err := s.customRoles.ListByOrganization(ctx, orgID, false)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return roles, nil
}

// GetCustomRole returns a role the actor may manage.
func (s *AccessService) GetCustomRole(ctx context.Context, actor *domain.User, id string) (*domain.CustomRole, error) {
	if err := requireRoleManager(actor); err != nil {
		return nil, err
	}
	return s.loadManagedRole(ctx, actor, id)
}

// CreateCustomRole creates a role in the actor's organization (or the
// given one for global admins).
func (s *AccessService) CreateCustomRole(ctx context.Context, actor *domain.User, input CustomRoleInput) (*domain.CustomRole, error) {
	requested := ""
	if input.OrganizationID != nil {
		requested = *input.OrganizationID
	}
	orgID, err := s.resolveRoleOrg(actor, requested)
	if err != nil {
		return nil, err
	}
	role := &domain.CustomRole{OrganizationID: orgID, IsActive: true}
	applyRoleInput(role, input)
	if err := validateRole(role); err != nil {
		return nil, err
	}
	if err := s.customRoles.Create(ctx, role); err != nil {
		return nil, s.mapRoleWriteError(err, role)
	}
	s.logger.Info("custom role created",
		zap.String("custom_role_id", role.ID),
		zap.String("organization_id", role.OrganizationID),
		zap.String("actor_id", actor.ID))
	return role, nil
}

// UpdateCustomRole applies non-nil fields of input.
func (s *AccessService) UpdateCustomRole(ctx context.Context, actor *domain.User, id string, input CustomRoleInput) (*domain.CustomRole, error) {
	if err := requireRoleManager(actor); err != nil {
		return nil, err
	}
	role, err := s.loadManagedRole(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	applyRoleInput(role, input)
	if err := validateRole(role); err != nil {
		return nil, err
	}
	if err := s.customRoles.Update(ctx, role); err != nil {
		return nil, s.mapRoleWriteError(err, role)
	}
	return role, nil
}

// DeleteCustomRole deletes a role no assignment references and returns
// the role as it was before deletion.
func (s *AccessService) DeleteCustomRole(ctx context.Context, actor *domain.User, id string) (*domain.CustomRole, error) {
	if err := requireRoleManager(actor); err != nil {
		return nil, err
	}
	role, err := s.loadManagedRole(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	count, err := s.customRoles.CountAssignments(ctx, role.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if count > 0 {
		return nil, roleInUse(role.ID, count)
	}
	if err := s.customRoles.Delete(ctx, role.ID); err != nil {
		return nil, s.mapRoleWriteError(err, role)
	}
	s.logger.Info("custom role deleted",
		zap.String("custom_role_id", role.ID),
		zap.String("organization_id", role.OrganizationID),
		zap.String("actor_id", actor.ID))
	return role, nil
}

func (s *AccessService) loadManagedRole(ctx context.Context, actor *domain.User, id string) (*domain.CustomRole, error) {
	role, err := s.customRoles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("custom role", map[string]any{"custom_role_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if !rbac.IsGlobalAdmin(actor) && !actor.InOrganization(role.OrganizationID) {
		return nil, apperrors.NewForbidden("custom role belongs to another organization")
	}
	return role, nil
}

func (s *AccessService) resolveRoleOrg(actor *domain.User, requested string) (string, error) {
	if err := requireRoleManager(actor); err != nil {
		return "", err
	}
	if rbac.IsGlobalAdmin(actor) {
		if requested != "" {
			return requested, nil
		}
		if actor.OrganizationID == nil {
			return "", apperrors.NewBadRequest("organization_id required", nil)
		}
		return *actor.OrganizationID, nil
	}
	if actor.OrganizationID == nil {
		return "", apperrors.NewBadRequest("actor has no organization", nil)
	}
	if requested != "" && requested != *actor.OrganizationID {
		return "", apperrors.NewForbidden("cannot manage roles of another organization")
	}
	return *actor.OrganizationID, nil
}

func (s *AccessService) mapRoleWriteError(err error, role *domain.CustomRole) error {
	switch {
	case errors.Is(err, repository.ErrCustomRoleInUse):
		return roleInUse(role.ID, -1)
	case errors.Is(err, repository.ErrOrganizationNotFound):
		return apperrors.NewNotFound("organization", map[string]any{"organization_id": role.OrganizationID})
	case errors.Is(err, repository.ErrDuplicateName):
		return apperrors.NewConflict("custom role name already exists", map[string]any{"name": role.Name})
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound("custom role", map[string]any{"custom_role_id": role.ID})
	}
	return apperrors.MapError(err)
}

func requireRoleManager(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !rbac.IsManager(actor) {
		return apperrors.NewForbidden("insufficient role for custom role management")
	}
	return nil
}

func roleInUse(id string, count int) error {
	details := map[string]any{"custom_role_id": id}
	if count >= 0 {
		details["assignments"] = count
	}
	return apperrors.NewConflict("custom role is still assigned", details)
}

func applyRoleInput(role *domain.CustomRole, input CustomRoleInput) {
	if input.Name != nil {
		role.Name = strings.TrimSpace(*input.Name)
	}
	if input.DisplayName != nil {
		role.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Description != nil {
		role.Description = strings.TrimSpace(*input.Description)
	}
	if input.IsActive != nil {
		role.IsActive = *input.IsActive
	}
	if role.DisplayName == "" {
		role.DisplayName = role.Name
	}
}

func validateRole(role *domain.CustomRole) error {
	if role.Name == "" {
		return apperrors.NewValidationError("name required", map[string]any{"field": "name"})
	}
	if _, clash := domain.ParseSystemRole(role.Name); clash {
		return apperrors.NewValidationError("name collides with a system role", map[string]any{"name": role.Name})
	}
	return nil
}
