package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/vaultic/internal/core"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <service>",
	Short: "Remove a service from the vault",
	Args:  requireArg("service"),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVault(cmd.Context(), false, func(s *session) error {
			removed, err := s.vault.RemoveEntry(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no entry found")
			}
			if err := s.profile.Touch(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to update modification time: %v\n", err)
			}

			fmt.Printf("removed: %s\n", core.NormalizeService(args[0]))
			return nil
		})
	},
}
