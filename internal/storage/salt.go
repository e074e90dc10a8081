package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/illarion/vaultic/internal/crypto"
)

const (
	DirPermSecure  = 0700 // Directory: owner rwx only
	FilePermSecure = 0600 // File: owner rw only
)

// LoadOrCreateSalt returns the salt stored at path, creating it on first use.
// An existing salt is returned verbatim without length validation.
func LoadOrCreateSalt(path string) ([]byte, error) {
	salt, err := os.ReadFile(path)
	if err == nil {
		return salt, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}

	salt, err = crypto.GenerateRandom(crypto.SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPermSecure); err != nil {
		return nil, fmt.Errorf("failed to create salt directory: %w", err)
	}

	// The salt is written in full to a temp file and then hard-linked into
	// place. Link fails if path exists, so concurrent first runs agree on
	// one salt and never observe a partial file.
	tmp, err := os.CreateTemp(dir, ".salt-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp salt file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(salt); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write salt: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to sync salt: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close salt file: %w", err)
	}
	if err := os.Chmod(tmpPath, FilePermSecure); err != nil {
		return nil, fmt.Errorf("failed to set salt permissions: %w", err)
	}

	if err := os.Link(tmpPath, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			existing, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read salt: %w", err)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create salt file: %w", err)
	}

	return salt, nil
}
