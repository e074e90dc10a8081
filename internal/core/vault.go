package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/illarion/vaultic/internal/crypto"
	"github.com/illarion/vaultic/internal/paths"
	"github.com/illarion/vaultic/internal/storage"
)

// Vault is an open handle on one encrypted vault file.
type Vault struct {
	loc paths.Locations
	enc *crypto.Encryptor
}

// New opens the vault at loc with the given passphrase.
// The key is derived on every call; it is never persisted.
func New(passphrase []byte, loc paths.Locations) (*Vault, error) {
	if err := os.MkdirAll(loc.Dir, storage.DirPermSecure); err != nil {
		return nil, pathError("create vault directory", err)
	}

	salt, err := storage.LoadOrCreateSalt(loc.SaltFile)
	if err != nil {
		return nil, pathError("load salt", err)
	}

	key, err := crypto.DeriveKey(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	enc, err := crypto.NewEncryptor(key)
	if err != nil {
		crypto.ClearBytes(key)
		return nil, err
	}

	return &Vault{
		loc: loc,
		enc: enc,
	}, nil
}

// Close clears the derived key. The vault must not be used afterwards.
func (v *Vault) Close() error {
	if v.enc != nil {
		v.enc.Destroy()
		v.enc = nil
	}
	return nil
}

// Read decrypts the vault file. A missing file is an empty document.
func (v *Vault) Read() (*storage.Document, error) {
	if v.enc == nil {
		return nil, errors.New("vault is closed")
	}

	blob, err := os.ReadFile(v.loc.VaultFile)
	if errors.Is(err, fs.ErrNotExist) {
		return storage.NewDocument(), nil
	}
	if err != nil {
		return nil, pathError("read vault", err)
	}

	return v.decryptDocument(blob)
}

// Write encrypts doc and replaces the vault file with it
func (v *Vault) Write(doc *storage.Document) error {
	if v.enc == nil {
		return errors.New("vault is closed")
	}

	blob, err := v.encryptDocument(doc)
	if err != nil {
		return err
	}

	if err := storage.WriteFileAtomic(v.loc.VaultFile, blob, storage.FilePermSecure); err != nil {
		return pathError("write vault", err)
	}
	return nil
}

// AddEntry stores secret under the normalized service name, replacing
// any previous entry. Both strings must be valid UTF-8, since the JSON
// encoding would otherwise replace the bad bytes.
func (v *Vault) AddEntry(service, secret string) error {
	if !utf8.ValidString(service) || !utf8.ValidString(secret) {
		return &Error{Kind: KindInvalidEntry, Op: "add entry", Err: ErrInvalidUTF8}
	}
	service = NormalizeService(service)

	doc, err := v.Read()
	if err != nil {
		return err
	}

	doc.Put(service, secret)
	return v.Write(doc)
}

// GetEntry looks up a service. A missing entry is not an error.
func (v *Vault) GetEntry(service string) (storage.Entry, bool, error) {
	service = NormalizeService(service)

	doc, err := v.Read()
	if err != nil {
		return storage.Entry{}, false, err
	}

	e, ok := doc.Get(service)
	return e, ok, nil
}

// RemoveEntry deletes a service and reports whether it existed.
// The vault file is only rewritten when something was removed.
func (v *Vault) RemoveEntry(service string) (bool, error) {
	service = NormalizeService(service)

	doc, err := v.Read()
	if err != nil {
		return false, err
	}

	if !doc.Remove(service) {
		return false, nil
	}
	return true, v.Write(doc)
}

// ListServices returns all stored service names in ascending order
func (v *Vault) ListServices() ([]string, error) {
	doc, err := v.Read()
	if err != nil {
		return nil, err
	}
	return doc.Services(), nil
}

// VerifyPassphrase checks that the vault file decrypts with this handle's key.
// It succeeds when no vault file exists yet.
func (v *Vault) VerifyPassphrase() error {
	_, err := v.Read()
	return err
}

// Exists reports whether the vault file is present
func (v *Vault) Exists() bool {
	_, err := os.Stat(v.loc.VaultFile)
	return err == nil
}

func (v *Vault) encryptDocument(doc *storage.Document) ([]byte, error) {
	plaintext, err := doc.Marshal()
	if err != nil {
		return nil, &Error{Kind: KindDeserialization, Op: "encode vault", Err: err}
	}
	defer crypto.ClearBytes(plaintext)

	blob, err := v.enc.Encrypt(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt vault: %w", err)
	}
	return blob, nil
}

func (v *Vault) decryptDocument(blob []byte) (*storage.Document, error) {
	plaintext, err := v.enc.Decrypt(blob)
	if err != nil {
		return nil, cryptoError("decrypt vault", err)
	}
	defer crypto.ClearBytes(plaintext)

	doc, err := storage.UnmarshalDocument(plaintext)
	if err != nil {
		return nil, &Error{Kind: KindDeserialization, Op: "decode vault", Err: err}
	}
	return doc, nil
}
