package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"account-hub/app/domain"
	"account-hub/app/port"
	"account-hub/app/utils/metrics"
	"account-hub/app/utils/security"
)

// WebhookHandler receives provider deliveries. Signature verification is the
// only authentication on these routes, so nothing touches storage before the
// HMAC checks out.
type WebhookHandler struct {
	webhookUsecase port.WebhookUsecase
	verifiers      map[domain.WebhookSource]*security.WebhookVerifier
	maxBodyBytes   int64
	logger         *slog.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(
	webhookUsecase port.WebhookUsecase,
	verifiers map[domain.WebhookSource]*security.WebhookVerifier,
	maxBodyBytes int64,
	logger *slog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		webhookUsecase: webhookUsecase,
		verifiers:      verifiers,
		maxBodyBytes:   maxBodyBytes,
		logger:         logger.With("component", "webhook_handler"),
	}
}

// ReceiveBilling handles billing provider deliveries
// @Summary Receive billing webhook
// @Description Verify the delivery signature and run it through reconciliation
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Webhook-Signature header string true "HMAC-SHA256 signature of the raw body"
// @Success 200 {object} domain.WebhookAck
// @Failure 401 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /v1/webhooks/billing [post]
func (h *WebhookHandler) ReceiveBilling(c echo.Context) error {
	return h.receive(c, domain.WebhookSourceBilling)
}

// ReceiveCRM handles CRM provider deliveries
// @Summary Receive CRM webhook
// @Description Verify the delivery signature and run it through reconciliation
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Webhook-Signature header string true "HMAC-SHA256 signature of the raw body"
// @Success 200 {object} domain.WebhookAck
// @Failure 401 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /v1/webhooks/crm [post]
func (h *WebhookHandler) ReceiveCRM(c echo.Context) error {
	return h.receive(c, domain.WebhookSourceCRM)
}

// ReceiveIdentity handles identity provider deliveries
// @Summary Receive identity webhook
// @Description Verify the delivery signature and run it through reconciliation
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Webhook-Signature header string true "HMAC-SHA256 signature of the raw body"
// @Success 200 {object} domain.WebhookAck
// @Failure 401 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /v1/webhooks/identity [post]
func (h *WebhookHandler) ReceiveIdentity(c echo.Context) error {
	return h.receive(c, domain.WebhookSourceIdentity)
}

func (h *WebhookHandler) receive(c echo.Context, source domain.WebhookSource) error {
	verifier, ok := h.verifiers[source]
	if !ok {
		h.logger.Error("webhook source has no configured secret", "source", source)
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "webhook source not configured",
		})
	}

	body, err := h.readBody(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("webhook body over size cap",
				"source", source,
				"limit", tooLarge.Limit,
				"ip", c.RealIP())
			return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error: "payload too large",
			})
		}
		h.logger.Warn("webhook body read failed", "source", source, "error", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "unreadable request body",
		})
	}

	// 署名が通るまでは一切の状態変更を行わない
	signature := c.Request().Header.Get("X-Webhook-Signature")
	if err := verifier.Verify(body, signature); err != nil {
		metrics.RecordWebhookEvent(string(source), "rejected")
		h.logger.Warn("webhook signature rejected",
			"source", source,
			"ip", c.RealIP(),
			"user_agent", c.Request().Header.Get("User-Agent"))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "invalid signature",
		})
	}

	ack, err := h.webhookUsecase.ProcessEvent(c.Request().Context(), source, body)
	if err != nil {
		h.logger.Error("webhook processing hit infrastructure failure",
			"source", source,
			"error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to process event",
		})
	}

	return c.JSON(http.StatusOK, ack)
}

func (h *WebhookHandler) readBody(c echo.Context) ([]byte, error) {
	reader := http.MaxBytesReader(c.Response(), c.Request().Body, h.maxBodyBytes)
	defer reader.Close()
	return io.ReadAll(reader)
}
