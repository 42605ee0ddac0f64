package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TenantRole represents a user's role within one tenant
type TenantRole string

const (
	TenantRoleOwner  TenantRole = "owner"
	TenantRoleAdmin  TenantRole = "admin"
	TenantRoleMember TenantRole = "member"
)

// IsValid returns true if the role is one of the defined roles
func (r TenantRole) IsValid() bool {
	switch r {
	case TenantRoleOwner, TenantRoleAdmin, TenantRoleMember:
		return true
	}
	return false
}

// MembershipStatus represents the status of a membership
type MembershipStatus string

const (
	MembershipStatusActive  MembershipStatus = "active"
	MembershipStatusRevoked MembershipStatus = "revoked"
)

// Membership links a user to a tenant with a role. A user has at most one
// membership per tenant.
type Membership struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	TenantID  uuid.UUID        `json:"tenant_id"`
	Role      TenantRole       `json:"role"`
	Status    MembershipStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewMembership creates a membership with validation
func NewMembership(userID, tenantID uuid.UUID, role TenantRole) (*Membership, error) {
	if userID == (uuid.UUID{}) {
		return nil, fmt.Errorf("user ID is required")
	}

	if tenantID == (uuid.UUID{}) {
		return nil, fmt.Errorf("tenant ID is required")
	}

	if !role.IsValid() {
		return nil, fmt.Errorf("invalid tenant role: %s", role)
	}

	now := time.Now()

	return &Membership{
		ID:        uuid.New(),
		UserID:    userID,
		TenantID:  tenantID,
		Role:      role,
		Status:    MembershipStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsActive returns true if the membership is active
func (m *Membership) IsActive() bool {
	return m.Status == MembershipStatusActive
}

// Revoke revokes the membership
func (m *Membership) Revoke() {
	m.Status = MembershipStatusRevoked
	m.UpdatedAt = time.Now()
}

// ChangeRole changes the membership role with validation
func (m *Membership) ChangeRole(role TenantRole) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid tenant role: %s", role)
	}
	m.Role = role
	m.UpdatedAt = time.Now()
	return nil
}

// TenantWithRole pairs a tenant with the caller's role in it, for listings.
type TenantWithRole struct {
	Tenant *Tenant    `json:"tenant"`
	Role   TenantRole `json:"role"`
}
