// Package cryptoutils provides the cryptographic identity material for
// the device agent's secure transport.
//
// The central type is TransportIdentity: a freshly generated ECDSA
// P-256 key pair with a self-signed certificate. The identity is
// regenerated on every boot and never persisted; it is shared by
// reference between the secure-channel negotiation backend and the
// server's TLS configuration, and is immutable after construction.
//
// The package also derives pairing tokens from the device secret using
// HKDF-SHA256, used to authenticate the local provisioning endpoint.
package cryptoutils
