package cryptoutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTransportIdentity(t *testing.T) {
	id, err := GenerateTransportIdentity("device-agent.local")
	require.NoError(t, err)

	assert.Equal(t, "device-agent.local", id.Leaf().Subject.CommonName)
	assert.NotEmpty(t, id.CertPEM())
	assert.Len(t, id.Fingerprint(), 64)

	// Self-signed: subject and issuer are the same entity.
	assert.Equal(t, id.Leaf().Subject.CommonName, id.Leaf().Issuer.CommonName)

	require.NoError(t, VerifyTransportIdentity(id, "device-agent.local"))
	assert.Error(t, VerifyTransportIdentity(id, "some-other-name"))
}

func TestIdentitiesAreUnique(t *testing.T) {
	a, err := GenerateTransportIdentity("device-agent.local")
	require.NoError(t, err)
	b, err := GenerateTransportIdentity("device-agent.local")
	require.NoError(t, err)

	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestDerivePairingToken(t *testing.T) {
	token, err := DerivePairingToken("s3cret", "dev-1")
	require.NoError(t, err)
	assert.Len(t, token, 64)

	// Deterministic for the same inputs, distinct otherwise.
	again, err := DerivePairingToken("s3cret", "dev-1")
	require.NoError(t, err)
	assert.Equal(t, token, again)

	other, err := DerivePairingToken("s3cret", "dev-2")
	require.NoError(t, err)
	assert.NotEqual(t, token, other)

	_, err = DerivePairingToken("", "dev-1")
	assert.Error(t, err)
}
