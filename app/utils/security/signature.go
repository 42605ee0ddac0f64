package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// WebhookVerifier verifies HMAC-SHA256 signatures over raw webhook bodies.
// Verification happens before any parsing of the body; a failure is terminal
// and must not leave any trace in storage.
type WebhookVerifier struct {
	secret []byte
}

// NewWebhookVerifier creates a verifier for one webhook source's secret.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

// Sign generates the hex HMAC-SHA256 signature for a body. Used by tests and
// by the mock upstreams in development.
func (v *WebhookVerifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a signature header against the raw body. The header value
// may be the bare hex digest or carry the conventional "sha256=" prefix.
// Comparison is constant-time.
func (v *WebhookVerifier) Verify(body []byte, signatureHeader string) error {
	if len(v.secret) == 0 {
		return fmt.Errorf("webhook secret not configured")
	}

	signature := strings.TrimPrefix(strings.TrimSpace(signatureHeader), "sha256=")
	if signature == "" {
		return fmt.Errorf("missing signature")
	}

	expected := v.Sign(body)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return fmt.Errorf("signature mismatch")
	}

	return nil
}
