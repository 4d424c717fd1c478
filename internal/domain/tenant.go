package domain

import "time"

// Tenant is a customer unit inside an organization.
type Tenant struct {
	ID             string
	OrganizationID string
	Name           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TenantAssignment grants a user eligibility for a tenant's tickets.
// A nil Category covers every category.
type TenantAssignment struct {
	ID        string
	TenantID  string
	UserID    string
	Category  *string
	CreatedAt time.Time
}

// Covers reports whether the assignment applies to category.
func (a TenantAssignment) Covers(category *string) bool {
	if a.Category == nil {
		return true
	}
	return category != nil && *a.Category == *category
}
