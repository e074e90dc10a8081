package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the master password",
	Long: `Checks that the master password unlocks the vault.

Before the first password is stored there is no vault file, so any
master password is accepted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVault(cmd.Context(), false, func(s *session) error {
			if err := s.vault.VerifyPassphrase(); err != nil {
				return err
			}
			if !s.vault.Exists() {
				fmt.Println("No vault yet. The first stored password creates it.")
				return nil
			}
			fmt.Println("✓ Master password OK")
			return nil
		})
	},
}
