package dto

import (
	"time"

	"github.com/spec-kit/itsm-routing/internal/domain"
)

// RoleRefResponse is the wire form of a system or custom role reference.
type RoleRefResponse struct {
	Kind string `json:"kind"`
	Role string `json:"role,omitempty"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Key  string `json:"key"`
}

// EffectiveRolesResponse lists the caller's roles.
type EffectiveRolesResponse struct {
	UserID        string            `json:"user_id"`
	IsGlobalAdmin bool              `json:"is_global_admin"`
	Roles         []RoleRefResponse `json:"roles"`
}

// ManageableResponse answers a management check.
type ManageableResponse struct {
	TargetID   string `json:"target_id"`
	Manageable bool   `json:"manageable"`
}

// UserSummary is a compact user view.
type UserSummary struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	OrganizationID *string           `json:"organization_id"`
	Roles          []RoleRefResponse `json:"roles"`
}

// CustomRoleRequest payload for create and update. Omitted fields stay unchanged on update.
type CustomRoleRequest struct {
	OrganizationID *string `json:"organization_id"`
	Name           *string `json:"name"`
	DisplayName    *string `json:"display_name"`
	Description    *string `json:"description"`
	IsActive       *bool   `json:"is_active"`
}

// CustomRoleResponse view.
type CustomRoleResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	DisplayName    string    `json:"display_name"`
	Description    string    `json:"description"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewRoleRefResponse converts a role reference.
func NewRoleRefResponse(ref domain.RoleRef) RoleRefResponse {
	switch r := ref.(type) {
	case domain.SystemRoleRef:
		return RoleRefResponse{Kind: "system", Role: string(r.Role), Key: r.Key()}
	case domain.CustomRoleRef:
		return RoleRefResponse{Kind: "custom", ID: r.ID, Name: r.Name, Key: r.Key()}
	}
	return RoleRefResponse{}
}

// NewRoleRefResponses converts a slice, never returning nil.
func NewRoleRefResponses(refs []domain.RoleRef) []RoleRefResponse {
	out := make([]RoleRefResponse, 0, len(refs))
	for _, ref := range refs {
		out = append(out, NewRoleRefResponse(ref))
	}
	return out
}

// NewUserSummary converts a user.
func NewUserSummary(u *domain.User) UserSummary {
	refs := make([]domain.RoleRef, 0, len(u.Roles))
	for _, assignment := range u.Roles {
		refs = append(refs, assignment.Role)
	}
	return UserSummary{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		OrganizationID: u.OrganizationID,
		Roles:          NewRoleRefResponses(refs),
	}
}

// NewCustomRoleResponse converts a custom role.
func NewCustomRoleResponse(r *domain.CustomRole) CustomRoleResponse {
	return CustomRoleResponse{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		Name:           r.Name,
		DisplayName:    r.DisplayName,
		Description:    r.Description,
		IsActive:       r.IsActive,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
