// Package registry holds the capability registry populated at boot.
//
// The registry maps capability model names to component factories. It
// is written once, by the module initializer during boot, and is
// read-only afterwards; the server shares it by reference.
//
// Modules are an explicit, ordered list of registration hooks assembled
// at build time (no code generation). A single module's registration
// failure is logged and skipped rather than aborting the boot: a
// device with a reduced capability set is preferable to one that does
// not come up at all.
package registry
