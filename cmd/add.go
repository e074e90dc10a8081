package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/vaultic/internal/core"
	"github.com/illarion/vaultic/internal/crypto"
	"github.com/spf13/cobra"
)

var errEmptyEntry = errors.New("fill service + password")

var addCmd = &cobra.Command{
	Use:   "add <service>",
	Short: "Store a password for a service",
	Long: `Stores a password for a service, replacing any existing one.

Service names are case-insensitive and surrounding whitespace is ignored,
so "GitHub " and "github" are the same service. The password is read
from the terminal without echo, or as one line from stdin. When stdin is
a pipe the master password is its first line and is not confirmed, even
for a new vault.`,
	Example: `  vaultic add github
  printf '%s\n' "$MASTER" "$SECRET" | vaultic add gmail`,
	Args: requireArg("service"),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Normalized for display; the vault normalizes on its own
		service := core.NormalizeService(args[0])
		if service == "" {
			return errEmptyEntry
		}

		return withVault(cmd.Context(), true, func(s *session) error {
			// Fail on a wrong master password before asking for the secret
			if err := s.vault.VerifyPassphrase(); err != nil {
				return err
			}

			secret, err := core.ReadPassword(fmt.Sprintf("Password for %s: ", service))
			if err != nil {
				return err
			}
			defer crypto.ClearBytes(secret)
			if len(secret) == 0 {
				return errEmptyEntry
			}

			if err := s.vault.AddEntry(args[0], string(secret)); err != nil {
				return err
			}
			if err := s.profile.Touch(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to update modification time: %v\n", err)
			}

			fmt.Printf("stored password for %s\n", service)
			return nil
		})
	},
}
