package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusInactive    UserStatus = "inactive"
	UserStatusDeactivated UserStatus = "deactivated"
)

// NotificationSettings holds notification preferences
type NotificationSettings struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

// UserPreferences holds user-specific preferences
type UserPreferences struct {
	Theme          string                 `json:"theme"`
	Language       string                 `json:"language"`
	Notifications  NotificationSettings   `json:"notifications"`
	CustomSettings map[string]interface{} `json:"custom_settings,omitempty"`
}

// User is the local projection of an identity-provider identity. Email and
// Name are denormalized from provider claims and refreshed whenever a
// request's claims drift from the stored copy. DefaultTenantID points at the
// tenant new sessions resolve into when no explicit tenant is requested.
type User struct {
	ID              uuid.UUID       `json:"id"`
	KratosID        uuid.UUID       `json:"kratos_id"`
	Email           string          `json:"email"`
	Name            string          `json:"name"`
	Status          UserStatus      `json:"status"`
	EmailVerified   bool            `json:"email_verified"`
	DefaultTenantID *uuid.UUID      `json:"default_tenant_id,omitempty"`
	Preferences     UserPreferences `json:"preferences"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	LastSeenAt      *time.Time      `json:"last_seen_at,omitempty"`
	DeletedAt       *time.Time      `json:"deleted_at,omitempty"`
}

// NewUser creates a new user with validation
func NewUser(email string, kratosID uuid.UUID) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email format: %w", err)
	}

	if kratosID == (uuid.UUID{}) {
		return nil, fmt.Errorf("kratos ID is required")
	}

	now := time.Now()

	user := &User{
		ID:       uuid.New(),
		KratosID: kratosID,
		Email:    email,
		Status:   UserStatusActive,
		Preferences: UserPreferences{
			Theme:    "auto",
			Language: "en",
			Notifications: NotificationSettings{
				Email: true,
				Push:  false,
			},
			CustomSettings: make(map[string]interface{}),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	return user, nil
}

// NewUserFromClaims creates the lazy local user for a first-seen identity.
func NewUserFromClaims(claims *SessionClaims) (*User, error) {
	if claims == nil {
		return nil, fmt.Errorf("claims are required")
	}

	kratosID, err := uuid.Parse(claims.IdentityID)
	if err != nil {
		return nil, fmt.Errorf("invalid identity ID in claims: %w", err)
	}

	user, err := NewUser(claims.Email, kratosID)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(claims.Name)
	user.EmailVerified = claims.EmailVerified

	return user, nil
}

// ApplyClaims refreshes the denormalized profile columns from fresh claims.
// It reports whether anything actually changed, so callers can skip the
// write when the stored copy is already current.
func (u *User) ApplyClaims(claims *SessionClaims) bool {
	changed := false

	if claims.Email != "" && claims.Email != u.Email {
		u.Email = claims.Email
		changed = true
	}

	if name := strings.TrimSpace(claims.Name); name != "" && name != u.Name {
		u.Name = name
		changed = true
	}

	if claims.EmailVerified != u.EmailVerified {
		u.EmailVerified = claims.EmailVerified
		changed = true
	}

	if changed {
		u.UpdatedAt = time.Now()
	}

	return changed
}

// UpdateProfile updates the user's profile information
func (u *User) UpdateProfile(name string, preferences UserPreferences) error {
	u.Name = name
	u.Preferences = preferences
	u.UpdatedAt = time.Now()
	return nil
}

// SetDefaultTenant records the tenant new sessions resolve into.
func (u *User) SetDefaultTenant(tenantID uuid.UUID) {
	u.DefaultTenantID = &tenantID
	u.UpdatedAt = time.Now()
}

// RecordSeen records request activity for the user
func (u *User) RecordSeen(at time.Time) {
	u.LastSeenAt = &at
	u.UpdatedAt = time.Now()
}

// ChangeStatus changes the user's status with validation
func (u *User) ChangeStatus(status UserStatus) error {
	validStatuses := []UserStatus{UserStatusActive, UserStatusInactive, UserStatusDeactivated}

	for _, validStatus := range validStatuses {
		if status == validStatus {
			u.Status = status
			u.UpdatedAt = time.Now()
			return nil
		}
	}

	return fmt.Errorf("invalid status: %s", status)
}

// IsActive returns true if the user is active
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Deactivate marks the user deactivated, used when the identity provider
// reports the identity deleted.
func (u *User) Deactivate() {
	now := time.Now()
	u.DeletedAt = &now
	u.Status = UserStatusDeactivated
	u.UpdatedAt = now
}

// IsDeleted returns true if the user is soft deleted
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}
