package domain

import "errors"

// Account and identity errors
var (
	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserDeactivated   = errors.New("user deactivated")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidSession  = errors.New("invalid session")

	// Authorization errors
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInsufficientRole = errors.New("insufficient role")

	// Tenant errors
	ErrTenantNotFound      = errors.New("tenant not found")
	ErrTenantDisabled      = errors.New("tenant disabled")
	ErrTenantSlugTaken     = errors.New("tenant slug already taken")
	ErrMembershipNotFound  = errors.New("membership not found")
	ErrMembershipExists    = errors.New("membership already exists")
	ErrTenantQuotaExceeded = errors.New("tenant quota exceeded")

	// Cache errors
	ErrCacheRecordNotFound = errors.New("cache record not found")
	ErrUnknownCategory     = errors.New("unknown data category")

	// Upstream errors
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamRejected    = errors.New("upstream rejected request")
	ErrUpstreamAuth        = errors.New("upstream authentication failed")
	ErrUpstreamRateLimited = errors.New("upstream rate limited")
	ErrUpstreamNotFound    = errors.New("upstream resource not found")

	// Webhook errors
	ErrInvalidSignature  = errors.New("invalid webhook signature")
	ErrDuplicateEvent    = errors.New("duplicate webhook event")
	ErrUnknownEventType  = errors.New("unknown webhook event type")
	ErrSubjectUnresolved = errors.New("webhook subject could not be resolved")
	ErrMalformedPayload  = errors.New("malformed webhook payload")

	// Validation errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")

	// Rate limiting errors
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// General errors
	ErrInternal         = errors.New("internal error")
	ErrNotImplemented   = errors.New("not implemented")
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("resource conflict")
)

// IdentityError represents identity-provider errors with additional context
type IdentityError struct {
	Code    string
	Message string
	Cause   error
}

func (e *IdentityError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *IdentityError) Unwrap() error {
	return e.Cause
}

// NewIdentityError creates a new identity-provider error
func NewIdentityError(code, message string, cause error) *IdentityError {
	return &IdentityError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common identity error codes
const (
	ErrCodeSessionExpired = "SESSION_EXPIRED"
	ErrCodeSessionInvalid = "SESSION_INVALID"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeRateLimit      = "RATE_LIMIT"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// ValidationError represents validation errors with field-specific details
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// UpstreamError wraps an upstream failure with the source service and the
// HTTP status it answered with, so callers can distinguish transient from
// permanent failures without parsing messages.
type UpstreamError struct {
	Upstream   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return e.Upstream + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Upstream + ": " + e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// IsTransient reports whether retrying the upstream call could succeed.
func (e *UpstreamError) IsTransient() bool {
	if e.StatusCode == 0 {
		// ネットワークエラーは一時的とみなす
		return true
	}
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// NewUpstreamError creates a new upstream error
func NewUpstreamError(upstream string, statusCode int, message string, cause error) *UpstreamError {
	return &UpstreamError{
		Upstream:   upstream,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}
