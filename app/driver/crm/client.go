package crm

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

// CRM API error types for better error handling
var (
	ErrUnauthorized     = errors.New("CRM API credentials rejected")
	ErrNotFound         = errors.New("CRM contact not found")
	ErrRateLimited      = errors.New("CRM API rate limit exceeded")
	ErrTemporaryFailure = errors.New("temporary CRM service failure")
)

const retryBaseDelay = 500 * time.Millisecond

// Client handles HTTP access to the CRM service.
type Client struct {
	baseURL    string
	apiToken   string
	maxRetries int
	mockMode   bool
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a CRM API client from config.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    cfg.CRMBaseURL,
		apiToken:   cfg.CRMAPIToken,
		maxRetries: cfg.CRMMaxRetries,
		mockMode:   cfg.CRMMockMode,
		limiter:    rate.NewLimiter(rate.Limit(cfg.CRMRateLimit), cfg.CRMRateLimit),
		logger:     logger.With("component", "crm_client"),
		httpClient: &http.Client{
			Timeout: cfg.CRMTimeout,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: cfg.CRMTimeout,
				IdleConnTimeout:       90 * time.Second,
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   2,
			},
		},
	}
}

// GetContact fetches the CRM contact record backing a user's profile within
// a tenant.
func (c *Client) GetContact(ctx context.Context, tenantID, userID uuid.UUID) (json.RawMessage, error) {
	if c.mockMode {
		return c.mockContact(tenantID, userID), nil
	}

	path := fmt.Sprintf("/v1/contacts/%s/%s", tenantID, userID)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		payload, err := c.doRequest(ctx, path)
		if err == nil {
			return payload, nil
		}

		lastErr = err

		// Only rate limits, 5xx and wire failures heal on retry
		if !errors.Is(err, ErrTemporaryFailure) && !errors.Is(err, ErrRateLimited) {
			return nil, err
		}

		if attempt < c.maxRetries {
			metrics.RecordUpstreamRetry("crm")
			delay := time.Duration(attempt) * retryBaseDelay
			c.logger.Warn("CRM request failed, retrying",
				"attempt", attempt,
				"delay", delay,
				"error", err)

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("CRM retry cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}
	}

	return nil, fmt.Errorf("CRM contact fetch failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, path string) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("CRM rate limit wait failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create CRM request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "account-hub/1.0")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest("crm", "network_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %v", ErrTemporaryFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		c.logger.Error("CRM request failed",
			"status_code", resp.StatusCode,
			"response_body", string(body))
		metrics.RecordUpstreamRequest("crm", fmt.Sprintf("http_%d", resp.StatusCode), time.Since(start).Seconds())

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%w: HTTP %d", ErrUnauthorized, resp.StatusCode)

		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)

		case http.StatusTooManyRequests:
			retryAfter := resp.Header.Get("Retry-After")
			c.logger.Warn("CRM API rate limited", "retry_after", retryAfter)
			return nil, fmt.Errorf("%w: retry after %s", ErrRateLimited, retryAfter)

		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return nil, fmt.Errorf("%w: HTTP %d", ErrTemporaryFailure, resp.StatusCode)

		default:
			return nil, fmt.Errorf("CRM contact fetch failed with status %d: %s", resp.StatusCode, string(body))
		}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordUpstreamRequest("crm", "read_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: reading CRM response: %v", ErrTemporaryFailure, err)
	}

	if !json.Valid(payload) {
		metrics.RecordUpstreamRequest("crm", "bad_payload", time.Since(start).Seconds())
		return nil, fmt.Errorf("CRM contact response is not valid JSON")
	}

	metrics.RecordUpstreamRequest("crm", "success", time.Since(start).Seconds())
	return payload, nil
}

// mockContact serves a deterministic profile payload for development without
// a CRM deployment.
func (c *Client) mockContact(tenantID, userID uuid.UUID) json.RawMessage {
	payload := fmt.Sprintf(
		`{"tenant_id":%q,"user_id":%q,"display_name":"Mock User","email":"mock-user@example.com","company":"Example Inc.","locale":"ja-JP","tags":["developer"]}`,
		tenantID.String(), userID.String())
	return json.RawMessage(payload)
}
