package cryptoutils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// pairingTokenInfo domain-separates pairing tokens from any other
// derivation of the device secret.
const pairingTokenInfo = "device-agent/pairing-token/v1"

// DerivePairingToken derives the token that authenticates the local
// provisioning endpoint from the device secret, bound to the device ID.
// The token is deterministic so the control application can derive the
// same value from the credentials it issued.
func DerivePairingToken(secret, deviceID string) (string, error) {
	if secret == "" || deviceID == "" {
		return "", fmt.Errorf("pairing token requires both secret and device id")
	}

	reader := hkdf.New(sha256.New, []byte(secret), []byte(deviceID), []byte(pairingTokenInfo))
	token := make([]byte, 32)
	if _, err := io.ReadFull(reader, token); err != nil {
		return "", fmt.Errorf("failed to derive pairing token: %w", err)
	}
	return hex.EncodeToString(token), nil
}
