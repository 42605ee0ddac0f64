package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusDeleted   TenantStatus = "deleted"
)

// TenantLimits defines resource limits for a tenant
type TenantLimits struct {
	MaxMembers int `json:"max_members"`
}

// TenantSettings holds tenant-specific configuration
type TenantSettings struct {
	Features []string     `json:"features"`
	Limits   TenantLimits `json:"limits"`
	Timezone string       `json:"timezone"`
	Language string       `json:"language"`
}

// Tenant represents a tenant in the multi-tenant system. Every user owns
// exactly one personal tenant (IsPersonal true, OwnerUserID set), created
// lazily on first login and recreated if ever missing; team tenants are
// created explicitly.
type Tenant struct {
	ID          uuid.UUID      `json:"id"`
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Status      TenantStatus   `json:"status"`
	IsPersonal  bool           `json:"is_personal"`
	OwnerUserID *uuid.UUID     `json:"owner_user_id,omitempty"`
	Settings    TenantSettings `json:"settings"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   *time.Time     `json:"deleted_at,omitempty"`
}

// slugRegex validates tenant slugs (lowercase alphanumeric and hyphens, no
// leading or trailing hyphen)
var slugRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// reservedSlugs are rejected for team tenants to keep routing unambiguous.
var reservedSlugs = map[string]bool{
	"admin":    true,
	"api":      true,
	"system":   true,
	"internal": true,
	"webhooks": true,
	"health":   true,
	"metrics":  true,
}

// ValidateSlug checks tenant slug format rules
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug is required")
	}

	if len(slug) < 3 || len(slug) > 63 {
		return fmt.Errorf("slug must be between 3 and 63 characters")
	}

	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("slug must contain only lowercase letters, numbers, and hyphens, and must not start or end with a hyphen")
	}

	return nil
}

// NewTenant creates a new team tenant with validation
func NewTenant(slug, name string) (*Tenant, error) {
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}

	if reservedSlugs[slug] {
		return nil, fmt.Errorf("slug %q is reserved", slug)
	}

	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty or whitespace only")
	}

	now := time.Now()

	tenant := &Tenant{
		ID:     uuid.New(),
		Slug:   slug,
		Name:   name,
		Status: TenantStatusActive,
		Settings: TenantSettings{
			Features: []string{"account_overview", "billing_portal"},
			Limits: TenantLimits{
				MaxMembers: 50,
			},
			Timezone: "Asia/Tokyo",
			Language: "ja",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	return tenant, nil
}

// NewPersonalTenant creates the personal tenant for a user. The slug is
// derived from the owner's user ID, so it is collision-free by construction;
// a uniqueness violation on insert indicates a bug and surfaces as an
// internal error, never as user-facing rejection.
func NewPersonalTenant(ownerID uuid.UUID, displayName string) (*Tenant, error) {
	if ownerID == (uuid.UUID{}) {
		return nil, fmt.Errorf("owner user ID is required")
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = "Personal"
	}

	tenant, err := NewTenant(PersonalSlug(ownerID), name)
	if err != nil {
		return nil, err
	}

	tenant.IsPersonal = true
	tenant.OwnerUserID = &ownerID
	tenant.Settings.Limits.MaxMembers = 1

	return tenant, nil
}

// PersonalSlug derives the deterministic personal-tenant slug for a user.
func PersonalSlug(ownerID uuid.UUID) string {
	return "personal-" + ownerID.String()
}

// UpdateSettings updates the tenant settings
func (t *Tenant) UpdateSettings(settings TenantSettings) error {
	t.Settings = settings
	t.UpdatedAt = time.Now()
	return nil
}

// Suspend suspends the tenant
func (t *Tenant) Suspend() {
	t.Status = TenantStatusSuspended
	t.UpdatedAt = time.Now()
}

// Activate activates the tenant
func (t *Tenant) Activate() {
	t.Status = TenantStatusActive
	t.UpdatedAt = time.Now()
}

// SoftDelete marks the tenant as deleted
func (t *Tenant) SoftDelete() {
	now := time.Now()
	t.DeletedAt = &now
	t.Status = TenantStatusDeleted
	t.UpdatedAt = now
}

// IsActive returns true if the tenant is active
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// IsDeleted returns true if the tenant is soft deleted
func (t *Tenant) IsDeleted() bool {
	return t.DeletedAt != nil || t.Status == TenantStatusDeleted
}

// HasFeature checks if the tenant has a specific feature enabled
func (t *Tenant) HasFeature(feature string) bool {
	for _, f := range t.Settings.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// IsWithinMemberLimit checks if another member fits the tenant's limit
func (t *Tenant) IsWithinMemberLimit(memberCount int) bool {
	return memberCount < t.Settings.Limits.MaxMembers
}

// UpdateName updates the tenant name
func (t *Tenant) UpdateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name cannot be empty or whitespace only")
	}

	t.Name = name
	t.UpdatedAt = time.Now()
	return nil
}

// CreateTenantRequest represents tenant creation request
type CreateTenantRequest struct {
	Slug string `json:"slug" validate:"required,min=3,max=63"`
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// TenantUpdates represents updates to apply to a tenant
type TenantUpdates struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Settings    *TenantSettings `json:"settings,omitempty"`
}
