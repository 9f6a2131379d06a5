package cryptoutils

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// identityValidity is deliberately short: the identity is regenerated
// on every boot and a device restart is the only renewal path.
const identityValidity = 365 * 24 * time.Hour

// TransportIdentity is a self-signed certificate and its private key,
// generated fresh at boot. It is immutable after construction and
// shared by reference between the secure-channel backend and the
// server configuration.
type TransportIdentity struct {
	certPEM []byte
	keyPEM  []byte

	tlsCert    tls.Certificate
	leaf       *x509.Certificate
	privateKey *ecdsa.PrivateKey
}

// GenerateTransportIdentity creates a new ECDSA P-256 key pair and a
// self-signed certificate with the given common name. Chain of trust
// does not matter for the secure channel: peers authenticate the
// certificate by fingerprint during negotiation, not through a CA.
func GenerateTransportIdentity(cn string) (*TransportIdentity, error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate identity key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("failed to generate certificate serial: %w", err)
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    now.Add(-time.Hour),
		NotAfter:     now.Add(identityValidity),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		DNSNames:     []string{cn},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, template, template,
		privateKey.Public(), privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})

	keyBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyBytes})

	tlsCert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble key pair: %w", err)
	}

	leaf, err := x509.ParseCertificate(certDER)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated certificate: %w", err)
	}
	tlsCert.Leaf = leaf

	return &TransportIdentity{
		certPEM:    certPEM,
		keyPEM:     keyPEM,
		tlsCert:    tlsCert,
		leaf:       leaf,
		privateKey: privateKey,
	}, nil
}

// CertPEM returns the PEM-encoded certificate.
func (id *TransportIdentity) CertPEM() []byte {
	return id.certPEM
}

// TLSCertificate returns the identity as a tls.Certificate for use in
// a tls.Config.
func (id *TransportIdentity) TLSCertificate() tls.Certificate {
	return id.tlsCert
}

// Leaf returns the parsed X.509 certificate.
func (id *TransportIdentity) Leaf() *x509.Certificate {
	return id.leaf
}

// PrivateKey returns the identity's ECDSA private key.
func (id *TransportIdentity) PrivateKey() *ecdsa.PrivateKey {
	return id.privateKey
}

// Fingerprint returns the hex-encoded SHA-256 digest of the DER
// certificate, the value peers pin during channel negotiation.
func (id *TransportIdentity) Fingerprint() string {
	sum := sha256.Sum256(id.leaf.Raw)
	return hex.EncodeToString(sum[:])
}

// VerifyTransportIdentity validates that an identity's certificate
// matches its private key and carries the expected common name.
func VerifyTransportIdentity(id *TransportIdentity, expectedCN string) error {
	if id.leaf.Subject.CommonName != expectedCN {
		return fmt.Errorf("common name is %s, expected %s", id.leaf.Subject.CommonName, expectedCN)
	}

	certKey, ok := id.leaf.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return errors.New("certificate does not carry an ECDSA key")
	}

	privPub := id.privateKey.Public().(*ecdsa.PublicKey)
	if certKey.X.Cmp(privPub.X) != 0 ||
		certKey.Y.Cmp(privPub.Y) != 0 ||
		certKey.Curve != privPub.Curve {
		return errors.New("private key does not match certificate")
	}
	return nil
}
