// Package keyring caches master passphrases in the OS keyring, keyed by
// the vault ID stored in the profile database.
package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const serviceName = "vaultic"

// ErrNotFound is returned when no passphrase is stored for a vault
var ErrNotFound = keyring.ErrNotFound

// SavePassword stores a passphrase in the OS keyring
func SavePassword(vaultID string, password string) error {
	return keyring.Set(serviceName, vaultID, password)
}

// GetPassword retrieves a passphrase from the OS keyring
func GetPassword(vaultID string) (string, error) {
	return keyring.Get(serviceName, vaultID)
}

// DeletePassword removes a passphrase from the OS keyring
func DeletePassword(vaultID string) error {
	return keyring.Delete(serviceName, vaultID)
}

// HasPassword checks if a passphrase is stored in the keyring
func HasPassword(vaultID string) bool {
	_, err := keyring.Get(serviceName, vaultID)
	return err == nil
}

// IsNotFound reports whether err means nothing was stored
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
