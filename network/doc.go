// Package network provides the host connectivity manager consumed by
// the server assembler.
//
// On Linux link state is read over netlink; elsewhere a portable
// net.Interfaces fallback is used. The manager only observes link
// state, it never configures interfaces — joining the stored default
// network is the platform layer's job.
package network
