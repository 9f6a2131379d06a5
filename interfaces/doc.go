// Package interfaces defines the core contracts and value types shared
// across the device agent. It provides the boundary between components
// without implementation details: credential value types with
// validating constructors, the credential store consumed by the
// bootstrap resolver and the server, and the runtime collaborators
// (network manager, discovery advertiser, periodic tasks) the server
// assembler composes.
//
// # Credential invariants
//
// Credential pairs are all-or-nothing. NewNetworkCredentials and
// NewDeviceCredentials reject partial values, so a half-populated
// record can never be constructed, stored, or used. DeviceCredentials
// additionally requires the app address to parse as an absolute URL.
//
// # Store locations
//
// Credential stores are addressed by URI, in the form
// [scheme]://[path], with supported schemes:
//
//   - file:///var/lib/device-agent/
//   - sqlite:///var/lib/device-agent/credentials.db
//   - mem:// (volatile, for tests and development)
package interfaces
