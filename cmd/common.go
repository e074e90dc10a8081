package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/illarion/vaultic/internal/core"
	"github.com/illarion/vaultic/internal/crypto"
	"github.com/illarion/vaultic/internal/keyring"
	"github.com/illarion/vaultic/internal/storage"
)

// PasswordSource records where the master password came from
type PasswordSource int

const (
	SourceEnv PasswordSource = iota
	SourceKeyring
	SourcePrompt
)

var ErrPasswordRequired = errors.New("enter master password")

// session is an unlocked vault plus its locked profile
type session struct {
	vault   *core.Vault
	profile *storage.Profile
	source  PasswordSource
}

// openProfile takes the profile lock, creating the vault directory first
func openProfile() (*storage.Profile, error) {
	if err := os.MkdirAll(loc.Dir, storage.DirPermSecure); err != nil {
		return nil, &core.Error{Kind: core.KindPath, Op: "create vault directory", Err: err}
	}
	return storage.OpenProfile(loc.ProfileFile, cfg.LockTimeout)
}

// getPassword returns the master password from the environment, the
// keyring, or a prompt, in that order. confirmNew asks twice at a
// terminal when the vault does not exist yet. The caller clears the
// returned bytes.
func getPassword(profile *storage.Profile, confirmNew bool) ([]byte, PasswordSource, error) {
	if password := core.GetPasswordFromEnv(); password != nil {
		return password, SourceEnv, nil
	}

	if cfg.Keyring {
		if vaultID, err := profile.VaultID(); err == nil {
			if stored, err := keyring.GetPassword(vaultID); err == nil && stored != "" {
				return []byte(stored), SourceKeyring, nil
			}
		}
	}

	password, err := promptPassword(confirmNew)
	if err != nil {
		return nil, SourcePrompt, err
	}
	return password, SourcePrompt, nil
}

func promptPassword(confirmNew bool) ([]byte, error) {
	var (
		password []byte
		err      error
	)
	// Piped input is taken as typed; confirming would consume the next line
	if _, statErr := os.Stat(loc.VaultFile); confirmNew && core.IsInteractive() && errors.Is(statErr, os.ErrNotExist) {
		password, err = core.ReadPasswordConfirm("New master password: ")
	} else {
		password, err = core.ReadPassword("Master password: ")
	}
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, ErrPasswordRequired
	}
	return password, nil
}

// withVault runs fn against an unlocked vault while holding the profile
// lock. A stale keyring password falls back to a prompt.
func withVault(ctx context.Context, confirmNew bool, fn func(*session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	profile, err := openProfile()
	if err != nil {
		return err
	}
	defer profile.Close()

	password, source, err := getPassword(profile, confirmNew)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)

	v, err := core.New(password, loc)
	if err != nil {
		return err
	}
	defer v.Close()

	if source == SourceKeyring {
		if err := v.VerifyPassphrase(); core.KindOf(err) == core.KindAuthentication {
			fmt.Fprintln(os.Stderr, "warning: password in keyring does not unlock the vault")
			v.Close()
			crypto.ClearBytes(password)

			password, err = promptPassword(false)
			if err != nil {
				return err
			}
			defer crypto.ClearBytes(password)
			source = SourcePrompt

			v, err = core.New(password, loc)
			if err != nil {
				return err
			}
			defer v.Close()
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(&session{vault: v, profile: profile, source: source})
}

// ErrorMessage maps an error to the text shown to the user
func ErrorMessage(err error) string {
	switch core.KindOf(err) {
	case core.KindAuthentication:
		return "wrong master password (or vault modified)"
	case core.KindMalformedBlob:
		return "vault data is too small"
	case core.KindDeserialization:
		return "vault contents are unreadable"
	case core.KindInvalidEntry:
		return "service and password must be valid UTF-8"
	}

	switch {
	case errors.Is(err, storage.ErrProfileBusy):
		return "vault is in use by another vaultic process"
	case errors.Is(err, context.Canceled):
		return "interrupted"
	}
	return err.Error()
}

// HandleError prints err and exits
func HandleError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", ErrorMessage(err))
	os.Exit(1)
}
