package securechannel

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vexlabs/device-agent/cryptoutils"
)

func TestBackendBindsIdentity(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	identity, err := cryptoutils.GenerateTransportIdentity("device-agent.local")
	require.NoError(t, err)

	backend, err := NewBackend(identity, log)
	require.NoError(t, err)

	// Shared by reference: the backend and the caller see the same
	// identity value.
	assert.Same(t, identity, backend.Identity())
	assert.Equal(t, identity.Fingerprint(), backend.Fingerprint())

	pc, err := backend.NewPeerConnection()
	require.NoError(t, err)
	require.NoError(t, pc.Close())
}
