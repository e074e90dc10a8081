// Package paths resolves where a vaultic profile keeps its files.
package paths

import (
	"os"
	"path/filepath"
)

const (
	DirName         = ".vaultic"
	VaultFileName   = "vault.bin"
	SaltFileName    = "salt.bin"
	ProfileFileName = "profile.db"
)

// Locations is the set of on-disk paths used by one vault profile.
type Locations struct {
	Dir         string
	VaultFile   string
	SaltFile    string
	ProfileFile string
}

// FromDir returns the standard file layout beneath dir.
func FromDir(dir string) Locations {
	return Locations{
		Dir:         dir,
		VaultFile:   filepath.Join(dir, VaultFileName),
		SaltFile:    filepath.Join(dir, SaltFileName),
		ProfileFile: filepath.Join(dir, ProfileFileName),
	}
}

// DefaultFor returns the conventional locations for the given home directory.
func DefaultFor(home string) Locations {
	return FromDir(filepath.Join(home, DirName))
}

// Default returns the conventional locations under the current user's home.
// Falls back to the working directory when no home can be determined.
func Default() Locations {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return DefaultFor(home)
}
