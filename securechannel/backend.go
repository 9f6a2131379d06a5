// Package securechannel binds the boot-generated transport identity to
// the WebRTC negotiation stack.
//
// The backend owns no identity lifetime of its own: it shares the
// TransportIdentity by reference with the server configuration, and
// every peer connection it mints presents that identity during the
// DTLS handshake. Negotiation internals (ICE, SDP exchange) belong to
// the underlying stack and the server's signaling surface.
package securechannel

import (
	"fmt"
	"log/slog"

	"github.com/pion/webrtc/v4"
	"github.com/vexlabs/device-agent/cryptoutils"
)

// Backend produces peer connections that authenticate with the shared
// transport identity.
type Backend struct {
	identity *cryptoutils.TransportIdentity
	api      *webrtc.API
	config   webrtc.Configuration
	log      *slog.Logger
}

// NewBackend wraps the identity into WebRTC configuration. The
// certificate is converted once; all peer connections share it.
func NewBackend(identity *cryptoutils.TransportIdentity, log *slog.Logger) (*Backend, error) {
	cert := webrtc.CertificateFromX509(identity.PrivateKey(), identity.Leaf())

	if _, err := cert.GetFingerprints(); err != nil {
		return nil, fmt.Errorf("transport identity unusable for DTLS: %w", err)
	}

	settings := webrtc.SettingEngine{}
	api := webrtc.NewAPI(webrtc.WithSettingEngine(settings))

	return &Backend{
		identity: identity,
		api:      api,
		config: webrtc.Configuration{
			Certificates: []webrtc.Certificate{cert},
		},
		log: log,
	}, nil
}

// Identity returns the shared transport identity.
func (b *Backend) Identity() *cryptoutils.TransportIdentity {
	return b.identity
}

// Fingerprint returns the identity fingerprint peers pin during
// negotiation.
func (b *Backend) Fingerprint() string {
	return b.identity.Fingerprint()
}

// NewPeerConnection mints a peer connection carrying the device
// identity. The caller owns the connection.
func (b *Backend) NewPeerConnection() (*webrtc.PeerConnection, error) {
	pc, err := b.api.NewPeerConnection(b.config)
	if err != nil {
		return nil, fmt.Errorf("failed to create peer connection: %w", err)
	}
	return pc, nil
}
