// Package storage provides credential store backends for the device
// agent.
//
// The store is the device's persistent memory for network and identity
// credentials, the analog of an MCU's non-volatile settings partition.
// Backends are selected by URI:
//
//   - file:///var/lib/device-agent/ — CBOR records on the local
//     filesystem, one file per credential category
//   - sqlite:///var/lib/device-agent/credentials.db — a single SQLite
//     table keyed by category
//   - mem:// — volatile in-memory store for tests and development
//
// All backends implement interfaces.CredentialStore. Records are
// written whole: a partial credential pair is rejected by the value
// constructors in the interfaces package before it can reach a backend.
package storage
