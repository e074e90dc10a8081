package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/illarion/vaultic/internal/crypto"
	"github.com/illarion/vaultic/internal/keyring"
	"github.com/illarion/vaultic/internal/storage"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the vault lives and what exists",
	Long: `Shows the vault directory, which vault files exist, and when the
vault was last written. Does not require a password.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Directory: %s\n", loc.Dir)
		fmt.Printf("Salt:      %s\n", describeFile(loc.SaltFile, crypto.SaltSize))
		fmt.Printf("Vault:     %s\n", describeFile(loc.VaultFile, 0))
		fmt.Println("Encryption: AES-256-GCM, scrypt (N=16384, r=8, p=1)")

		if _, err := os.Stat(loc.ProfileFile); errors.Is(err, os.ErrNotExist) {
			return nil
		}

		profile, err := storage.OpenProfile(loc.ProfileFile, cfg.LockTimeout)
		if err != nil {
			return err
		}
		defer profile.Close()

		if created, err := profile.Created(); err == nil && !created.IsZero() {
			fmt.Printf("Created:   %s\n", created.Format(time.RFC3339))
		}
		if modified, err := profile.Modified(); err == nil && !modified.IsZero() {
			fmt.Printf("Modified:  %s\n", modified.Format(time.RFC3339))
		}

		keyringState := "not stored"
		if vaultID, err := profile.VaultID(); err == nil && keyring.HasPassword(vaultID) {
			keyringState = "stored in keyring"
		}
		fmt.Printf("Password:  %s\n", keyringState)
		return nil
	},
}

// describeFile reports presence and size. A nonzero expected size flags
// files that differ from it.
func describeFile(path string, expected int64) string {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return "missing"
	}
	if err != nil {
		return fmt.Sprintf("unreadable (%v)", err)
	}

	desc := fmt.Sprintf("%s (%s)", path, formatSize(info.Size()))
	if expected > 0 && info.Size() != expected {
		desc += fmt.Sprintf(" warning: expected %d bytes", expected)
	}
	return desc
}

// formatSize formats a file size in human-readable form
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)

	switch {
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
