//go:build unix

// Package platform holds OS-specific process hardening.
package platform

import "golang.org/x/sys/unix"

// DisableCoreDumps keeps the derived key out of core files
func DisableCoreDumps() error {
	var rlim unix.Rlimit
	rlim.Cur = 0
	rlim.Max = 0
	return unix.Setrlimit(unix.RLIMIT_CORE, &rlim)
}
