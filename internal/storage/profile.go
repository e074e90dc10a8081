package storage

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/illarion/vaultic/internal/crypto"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	ConfigBucket = []byte("config") // Vault ID, timestamps - unencrypted
)

// Config keys
var (
	ConfigVersion  = []byte("version")
	ConfigCreated  = []byte("created")
	ConfigModified = []byte("modified")
	ConfigVaultID  = []byte("vault_id")
)

var (
	ErrProfileBusy     = errors.New("vault is in use by another process")
	ErrVaultIDNotFound = errors.New("vault_id not found")
)

// Profile holds non-secret metadata for one vault directory.
// While a Profile is open, BBolt's exclusive file lock keeps other
// processes from opening it.
type Profile struct {
	db *bolt.DB
}

// OpenProfile opens or creates the profile database at path, waiting up
// to timeout for another process to release it. A zero timeout waits
// indefinitely.
func OpenProfile(path string, timeout time.Duration) (*Profile, error) {
	db, err := bolt.Open(path, FilePermSecure, &bolt.Options{Timeout: timeout})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, ErrProfileBusy
		}
		return nil, fmt.Errorf("failed to open profile: %w", err)
	}

	p := &Profile{db: db}
	if err := p.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// Close releases the profile and its file lock
func (p *Profile) Close() error {
	return p.db.Close()
}

// initialize creates the bucket structure on first open
func (p *Profile) initialize() error {
	return p.db.Update(func(tx *bolt.Tx) error {
		config, err := tx.CreateBucketIfNotExists(ConfigBucket)
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", ConfigBucket, err)
		}
		if config.Get(ConfigVersion) != nil {
			return nil
		}

		if err := config.Put(ConfigVersion, []byte("1")); err != nil {
			return err
		}

		created, _ := time.Now().MarshalBinary()
		return config.Put(ConfigCreated, created)
	})
}

// Touch records now as the last vault modification time
func (p *Profile) Touch() error {
	return p.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		modified, _ := time.Now().MarshalBinary()
		return config.Put(ConfigModified, modified)
	})
}

// Created returns when the profile was first opened
func (p *Profile) Created() (time.Time, error) {
	return p.getTime(ConfigCreated)
}

// Modified returns the last time Touch was called. The zero time means
// the vault has never been written through this profile.
func (p *Profile) Modified() (time.Time, error) {
	return p.getTime(ConfigModified)
}

func (p *Profile) getTime(key []byte) (time.Time, error) {
	var t time.Time
	err := p.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(key)
		if data == nil {
			return nil
		}
		return t.UnmarshalBinary(data)
	})
	return t, err
}

// VaultID retrieves the vault ID
func (p *Profile) VaultID() (string, error) {
	var vaultID string
	err := p.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigVaultID)
		if data == nil {
			return ErrVaultIDNotFound
		}
		vaultID = string(data)
		return nil
	})
	return vaultID, err
}

// GetOrCreateVaultID retrieves the existing vault ID or generates a new one
func (p *Profile) GetOrCreateVaultID() (string, error) {
	vaultID, err := p.VaultID()
	if err == nil {
		return vaultID, nil
	}
	if !errors.Is(err, ErrVaultIDNotFound) {
		return "", err
	}

	b, err := crypto.GenerateRandom(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate vault ID: %w", err)
	}
	vaultID = hex.EncodeToString(b)

	err = p.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		return config.Put(ConfigVaultID, []byte(vaultID))
	})
	if err != nil {
		return "", err
	}

	return vaultID, nil
}
