package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/vaultic/internal/config"
	"github.com/illarion/vaultic/internal/paths"
	"github.com/spf13/cobra"
)

var (
	dirFlag    string
	configFlag string

	cfg config.Config
	loc paths.Locations
)

var rootCmd = &cobra.Command{
	Use:   "vaultic",
	Short: "vaultic - a local, passphrase-protected password store",
	Long: `vaultic keeps service passwords in a single encrypted file.

The file is unlocked with a master password; nothing is stored in the clear
and nothing leaves this machine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configFlag
		if path == "" {
			path = config.DefaultPath()
		}

		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		loc = cfg.Locations(dirFlag)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dirFlag, "dir", "", "vault directory (default ~/.vaultic)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default <config dir>/vaultic/config.yaml)")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(keyringCmd)
	rootCmd.AddCommand(completionCmd)
}

// Execute runs the command line and returns the first error
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// requireArg returns a cobra validator that names the missing argument
func requireArg(name string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("%s requires exactly one <%s> argument", cmd.CommandPath(), name)
		}
		return nil
	}
}
