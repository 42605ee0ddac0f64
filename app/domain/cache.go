package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DataCategory identifies one class of upstream-sourced account data.
type DataCategory string

const (
	CategoryProfile      DataCategory = "profile"
	CategoryBilling      DataCategory = "billing"
	CategoryEntitlements DataCategory = "entitlements"
)

// AllCategories lists every cacheable category in refresh order.
var AllCategories = []DataCategory{CategoryProfile, CategoryBilling, CategoryEntitlements}

// IsValid returns true if the category is one of the known categories
func (c DataCategory) IsValid() bool {
	switch c {
	case CategoryProfile, CategoryBilling, CategoryEntitlements:
		return true
	}
	return false
}

// ParseDataCategory converts a string into a DataCategory with validation
func ParseDataCategory(s string) (DataCategory, error) {
	c := DataCategory(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// CacheRecord is one locally cached snapshot of upstream account data for a
// (tenant, user, category) key. Payload is opaque upstream JSON; writes are
// last-write-wins by arrival order.
type CacheRecord struct {
	TenantID  uuid.UUID       `json:"tenant_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Category  DataCategory    `json:"category"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewCacheRecord creates a cache record with validation
func NewCacheRecord(tenantID, userID uuid.UUID, category DataCategory, payload json.RawMessage, updatedAt time.Time) (*CacheRecord, error) {
	if tenantID == (uuid.UUID{}) {
		return nil, fmt.Errorf("tenant ID is required")
	}

	if userID == (uuid.UUID{}) {
		return nil, fmt.Errorf("user ID is required")
	}

	if !category.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	if len(payload) == 0 {
		payload = DefaultPayload(category)
	}

	return &CacheRecord{
		TenantID:  tenantID,
		UserID:    userID,
		Category:  category,
		Payload:   payload,
		UpdatedAt: updatedAt,
	}, nil
}

// IsStale reports whether the record needs a refresh at the given instant.
// A nil record (nothing cached yet) is always stale. A record whose
// UpdatedAt lies in the future (clock skew between writers) is fresh.
// Staleness is monotone in now: once stale, later instants stay stale.
func (r *CacheRecord) IsStale(ttl time.Duration, now time.Time) bool {
	if r == nil {
		return true
	}
	if r.UpdatedAt.After(now) {
		return false
	}
	return !now.Before(r.UpdatedAt.Add(ttl))
}

// Key returns the single-flight key for this record's identity.
func (r *CacheRecord) Key() string {
	return CacheKey(r.Category, r.TenantID, r.UserID)
}

// CacheKey builds the canonical "<category>:<tenant>:<user>" key used for
// refresh deduplication.
func CacheKey(category DataCategory, tenantID, userID uuid.UUID) string {
	return string(category) + ":" + tenantID.String() + ":" + userID.String()
}

// DefaultPayload returns the placeholder payload served (and persisted) when
// nothing is cached and the upstream cannot be reached. Entitlements default
// to an explicit empty set so never-seen users resolve to no features rather
// than an error.
func DefaultPayload(category DataCategory) json.RawMessage {
	switch category {
	case CategoryEntitlements:
		return json.RawMessage(`{"entitlements":[]}`)
	default:
		return json.RawMessage(`{}`)
	}
}

// NewPlaceholderRecord creates the empty default record for a key, used when
// a cold-start fetch fails and there is no stale copy to fall back on.
func NewPlaceholderRecord(tenantID, userID uuid.UUID, category DataCategory, now time.Time) *CacheRecord {
	return &CacheRecord{
		TenantID:  tenantID,
		UserID:    userID,
		Category:  category,
		Payload:   DefaultPayload(category),
		UpdatedAt: now,
	}
}

// AccountSnapshot bundles one category's payload with its cache metadata for
// API responses.
type AccountSnapshot struct {
	Category  DataCategory    `json:"category"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
	Stale     bool            `json:"stale"`
}
