package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-hub/app/utils/security"
)

func TestWebhookVerifier_Verify(t *testing.T) {
	verifier := security.NewWebhookVerifier("test-webhook-secret")
	body := []byte(`{"event_id":"evt_1","event_type":"subscription.updated"}`)

	t.Run("valid bare signature", func(t *testing.T) {
		sig := verifier.Sign(body)
		assert.NoError(t, verifier.Verify(body, sig))
	})

	t.Run("valid prefixed signature", func(t *testing.T) {
		sig := "sha256=" + verifier.Sign(body)
		assert.NoError(t, verifier.Verify(body, sig))
	})

	t.Run("signature over different body fails", func(t *testing.T) {
		sig := verifier.Sign([]byte(`{"event_id":"evt_2"}`))
		assert.Error(t, verifier.Verify(body, sig))
	})

	t.Run("tampered body fails", func(t *testing.T) {
		sig := verifier.Sign(body)
		tampered := append([]byte{}, body...)
		tampered[len(tampered)-2] = 'X'
		assert.Error(t, verifier.Verify(tampered, sig))
	})

	t.Run("wrong secret fails", func(t *testing.T) {
		other := security.NewWebhookVerifier("another-secret")
		sig := other.Sign(body)
		assert.Error(t, verifier.Verify(body, sig))
	})

	t.Run("missing signature fails", func(t *testing.T) {
		assert.Error(t, verifier.Verify(body, ""))
		assert.Error(t, verifier.Verify(body, "sha256="))
	})

	t.Run("garbage signature fails", func(t *testing.T) {
		assert.Error(t, verifier.Verify(body, "not-a-hex-digest"))
	})
}

func TestWebhookVerifier_EmptySecret(t *testing.T) {
	verifier := security.NewWebhookVerifier("")
	body := []byte(`{}`)

	err := verifier.Verify(body, verifier.Sign(body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret not configured")
}

func TestWebhookVerifier_SignDeterministic(t *testing.T) {
	verifier := security.NewWebhookVerifier("test-webhook-secret")
	body := []byte(`{"event_id":"evt_1"}`)

	assert.Equal(t, verifier.Sign(body), verifier.Sign(body))
	assert.NotEqual(t, verifier.Sign(body), verifier.Sign([]byte(`{"event_id":"evt_2"}`)))
}
