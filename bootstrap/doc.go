// Package bootstrap reconciles the device's persisted credentials
// against build-time fallback values on every boot.
//
// The resolver checks the credential store for each category (default
// network, device identity). Persisted values always win. When a
// category is absent and a complete fallback pair was compiled in, the
// fallback is constructed, persisted once, and used from then on. When
// neither exists the boot continues: the device is expected to obtain
// credentials through the provisioning pairing flow.
//
// Resolution is idempotent: a second run against populated storage
// performs no writes.
package bootstrap
