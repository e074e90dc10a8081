package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <service>",
	Short: "Reveal the password for a service",
	Args:  requireArg("service"),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVault(cmd.Context(), false, func(s *session) error {
			entry, ok, err := s.vault.GetEntry(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no entry found")
			}
			fmt.Println(entry.Password)
			return nil
		})
	},
}
