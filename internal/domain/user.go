package domain

import "time"

// User is a member of an organization. Global admins may have no organization.
type User struct {
	ID             string
	Email          string
	Name           string
	OrganizationID *string
	IsActive       bool
	IsGlobalAdmin  bool
	Roles          []UserRoleAssignment
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// InOrganization reports whether the user belongs to orgID.
func (u *User) InOrganization(orgID string) bool {
	if u == nil || u.OrganizationID == nil || orgID == "" {
		return false
	}
	return *u.OrganizationID == orgID
}
