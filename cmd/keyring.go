package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/vaultic/internal/core"
	"github.com/illarion/vaultic/internal/crypto"
	"github.com/illarion/vaultic/internal/keyring"
	"github.com/spf13/cobra"
)

var errNoVault = errors.New("no vault yet, store a password first")

var keyringCmd = &cobra.Command{
	Use:   "keyring",
	Short: "Manage the master password in the OS keyring",
}

var keyringSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the master password to the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := openProfile()
		if err != nil {
			return err
		}
		defer profile.Close()

		// Without a vault file any password verifies
		if _, err := os.Stat(loc.VaultFile); errors.Is(err, os.ErrNotExist) {
			return errNoVault
		}

		password, err := promptPassword(false)
		if err != nil {
			return err
		}
		defer crypto.ClearBytes(password)

		// Verify password is correct
		v, err := core.New(password, loc)
		if err != nil {
			return err
		}
		defer v.Close()
		if err := v.VerifyPassphrase(); err != nil {
			return err
		}

		vaultID, err := profile.GetOrCreateVaultID()
		if err != nil {
			return err
		}

		if err := keyring.SavePassword(vaultID, string(password)); err != nil {
			return fmt.Errorf("failed to save to keyring: %w", err)
		}

		fmt.Println("Password saved to keyring")
		return nil
	},
}

var keyringDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the master password from the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := openProfile()
		if err != nil {
			return err
		}
		defer profile.Close()

		vaultID, err := profile.VaultID()
		if err != nil {
			fmt.Println("No password stored in keyring")
			return nil
		}

		if err := keyring.DeletePassword(vaultID); err != nil {
			if keyring.IsNotFound(err) {
				fmt.Println("No password stored in keyring")
				return nil
			}
			return fmt.Errorf("failed to delete from keyring: %w", err)
		}

		fmt.Println("Password removed from keyring")
		return nil
	},
}

var keyringStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether a master password is stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := openProfile()
		if err != nil {
			return err
		}
		defer profile.Close()

		vaultID, err := profile.VaultID()
		if err == nil && keyring.HasPassword(vaultID) {
			fmt.Println("Password: stored in keyring")
		} else {
			fmt.Println("Password: not stored")
		}
		if !cfg.Keyring {
			fmt.Println("Keyring lookup is disabled in the config file")
		}
		return nil
	},
}

func init() {
	keyringCmd.AddCommand(keyringSaveCmd)
	keyringCmd.AddCommand(keyringDeleteCmd)
	keyringCmd.AddCommand(keyringStatusCmd)
}
