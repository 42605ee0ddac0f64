package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"account-hub/app/config"
	"account-hub/app/utils/metrics"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Billing API error types for better error handling
var (
	ErrUnauthorized     = errors.New("billing API credentials rejected")
	ErrNotFound         = errors.New("billing record not found")
	ErrRateLimited      = errors.New("billing API rate limit exceeded")
	ErrTemporaryFailure = errors.New("temporary billing service failure")
)

const retryBaseDelay = 500 * time.Millisecond

// Client handles HTTP access to the payments service.
type Client struct {
	baseURL    string
	apiToken   string
	maxRetries int
	mockMode   bool
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a billing API client from config.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    cfg.BillingBaseURL,
		apiToken:   cfg.BillingAPIToken,
		maxRetries: cfg.BillingMaxRetries,
		mockMode:   cfg.BillingMockMode,
		limiter:    rate.NewLimiter(rate.Limit(cfg.BillingRateLimit), cfg.BillingRateLimit),
		logger:     logger.With("component", "billing_client"),
		httpClient: &http.Client{
			Timeout: cfg.BillingTimeout,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: cfg.BillingTimeout,
				IdleConnTimeout:       90 * time.Second,
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   2,
			},
		},
	}
}

// GetSubscription fetches the subscription summary for a user within a tenant.
func (c *Client) GetSubscription(ctx context.Context, tenantID, userID uuid.UUID) (json.RawMessage, error) {
	if c.mockMode {
		return c.mockSubscription(tenantID, userID), nil
	}

	path := fmt.Sprintf("/v1/subscriptions/%s/%s", tenantID, userID)
	return c.getJSON(ctx, "subscription", path)
}

// GetEntitlements fetches the entitlement set for a user within a tenant.
func (c *Client) GetEntitlements(ctx context.Context, tenantID, userID uuid.UUID) (json.RawMessage, error) {
	if c.mockMode {
		return c.mockEntitlements(tenantID, userID), nil
	}

	path := fmt.Sprintf("/v1/entitlements/%s/%s", tenantID, userID)
	return c.getJSON(ctx, "entitlements", path)
}

// getJSON executes a GET request with bounded retry. Only transient failures
// are retried; auth failures and missing records fail fast.
func (c *Client) getJSON(ctx context.Context, operation, path string) (json.RawMessage, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		payload, err := c.doRequest(ctx, operation, path)
		if err == nil {
			return payload, nil
		}

		lastErr = err

		// Only rate limits, 5xx and wire failures heal on retry
		if !errors.Is(err, ErrTemporaryFailure) && !errors.Is(err, ErrRateLimited) {
			return nil, err
		}

		if attempt < c.maxRetries {
			metrics.RecordUpstreamRetry("billing")
			delay := time.Duration(attempt) * retryBaseDelay
			c.logger.Warn("billing request failed, retrying",
				"operation", operation,
				"attempt", attempt,
				"delay", delay,
				"error", err)

			// コンテキストでキャンセル可能な待機
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("billing retry cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}
	}

	return nil, fmt.Errorf("billing %s failed after %d attempts: %w", operation, c.maxRetries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, operation, path string) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("billing rate limit wait failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create billing request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "account-hub/1.0")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest("billing", "network_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %v", ErrTemporaryFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		bodyStr := string(body)

		c.logger.Error("billing request failed",
			"operation", operation,
			"status_code", resp.StatusCode,
			"response_body", bodyStr)
		metrics.RecordUpstreamRequest("billing", fmt.Sprintf("http_%d", resp.StatusCode), time.Since(start).Seconds())

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%w: HTTP %d", ErrUnauthorized, resp.StatusCode)

		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)

		case http.StatusTooManyRequests:
			retryAfter := resp.Header.Get("Retry-After")
			c.logger.Warn("billing API rate limited", "retry_after", retryAfter)
			return nil, fmt.Errorf("%w: retry after %s", ErrRateLimited, retryAfter)

		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return nil, fmt.Errorf("%w: HTTP %d", ErrTemporaryFailure, resp.StatusCode)

		default:
			return nil, fmt.Errorf("billing %s failed with status %d: %s", operation, resp.StatusCode, bodyStr)
		}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordUpstreamRequest("billing", "read_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: reading billing response: %v", ErrTemporaryFailure, err)
	}

	if !json.Valid(payload) {
		metrics.RecordUpstreamRequest("billing", "bad_payload", time.Since(start).Seconds())
		return nil, fmt.Errorf("billing %s returned invalid JSON", operation)
	}

	metrics.RecordUpstreamRequest("billing", "success", time.Since(start).Seconds())
	return payload, nil
}

// Mock mode serves deterministic payloads so the rest of the stack can run
// without a billing deployment.
func (c *Client) mockSubscription(tenantID, userID uuid.UUID) json.RawMessage {
	payload := fmt.Sprintf(
		`{"tenant_id":%q,"user_id":%q,"plan":"developer","status":"active","seats":5,"renews_at":"2099-01-01T00:00:00Z"}`,
		tenantID.String(), userID.String())
	return json.RawMessage(payload)
}

func (c *Client) mockEntitlements(tenantID, userID uuid.UUID) json.RawMessage {
	payload := fmt.Sprintf(
		`{"tenant_id":%q,"user_id":%q,"features":["api_access","exports","audit_log"],"limits":{"projects":10,"api_calls_per_day":10000}}`,
		tenantID.String(), userID.String())
	return json.RawMessage(payload)
}
