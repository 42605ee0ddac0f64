package kratos

import (
	"errors"
	"fmt"
	"net/http"
)

// Kratos API error types for better error handling
var (
	ErrSessionInvalid   = errors.New("kratos rejected the session")
	ErrIdentityNotFound = errors.New("kratos identity not found")
	ErrUnavailable      = errors.New("kratos is unavailable")
)

// translateError maps Kratos API failures onto package error types. The
// OpenAPI client wraps everything in a GenericOpenAPIError; the status code
// only lives on the HTTP response.
func translateError(err error, httpResp *http.Response, operation string) error {
	if httpResp == nil {
		// Network-level failure, Kratos never answered
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, operation, err)
	}

	switch httpResp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrSessionInvalid, operation)

	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrIdentityNotFound, operation)

	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: HTTP %d during %s", ErrUnavailable, httpResp.StatusCode, operation)

	default:
		return fmt.Errorf("kratos %s failed with status %d: %v", operation, httpResp.StatusCode, err)
	}
}

// getHTTPStatus safely extracts a status code for logging
func getHTTPStatus(httpResp *http.Response) int {
	if httpResp == nil {
		return 0
	}
	return httpResp.StatusCode
}
