// Package server assembles and runs the connected-device server.
//
// The builder aggregates everything boot produced: the resolved
// credential store, provisioning metadata, the secure-channel backend
// holding the shared transport identity, the populated component
// registry, the network manager, the discovery advertiser, and the
// periodic task set. Build validates that every required dependency is
// present; a missing one is a boot defect and fails the build.
//
// The built server owns the rest of the process lifetime. RunForever
// starts the metrics endpoint, the advertiser and the task runner in
// the background, then blocks serving the TLS listener on the
// well-known device port with the boot-generated identity.
//
// # Local HTTP surface
//
//   - GET  /livez, /readyz — liveness and readiness probes
//   - GET  /status — device descriptor: provisioning info, identity
//     fingerprint, registered models, link state
//   - POST /pairing/credentials — provisioning pairing surface; accepts
//     and persists device credentials while the device is unprovisioned
//   - GET  /identity — certificate PEM and fingerprint for pinning;
//     requires the pairing token derived from the device secret
package server
