package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureRoundTrip(t *testing.T) {
	payload := []byte(`{"orderNumber":"CN-20260115-000042"}`)
	secret := "cn_secret_test"

	sig := GenerateSignature(payload, secret)
	assert.True(t, VerifySignature(payload, sig, secret))
	assert.False(t, VerifySignature(payload, sig, "wrong-secret"))
	assert.False(t, VerifySignature([]byte("tampered"), sig, secret))
	assert.False(t, VerifySignature(payload, "deadbeef", secret))
}

func TestGeneratedKeysCarryPrefixes(t *testing.T) {
	live, err := GenerateLiveKey()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(live, "cn_live_"))

	sandbox, err := GenerateSandboxKey()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sandbox, "cn_sandbox_"))

	secret, err := GenerateWebhookSecret()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(secret, "cn_secret_"))

	assert.NotEqual(t, live, sandbox)
}
