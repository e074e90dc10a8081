package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved services",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVault(cmd.Context(), false, func(s *session) error {
			services, err := s.vault.ListServices()
			if err != nil {
				return err
			}

			if len(services) == 0 {
				fmt.Println("no saved services")
				return nil
			}
			for _, service := range services {
				fmt.Println(service)
			}
			return nil
		})
	},
}
