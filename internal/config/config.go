// Package config loads vaultic settings from an optional YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/illarion/vaultic/internal/paths"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfig = "VAULTIC_CONFIG"
	EnvDir    = "VAULTIC_DIR"

	DefaultLockTimeout = 5 * time.Second
)

// Config is the content of config.yaml
type Config struct {
	// VaultDir overrides the default ~/.vaultic directory.
	VaultDir string `yaml:"vault_dir"`
	// Keyring enables reading the master passphrase from the OS keyring.
	Keyring bool `yaml:"keyring"`
	// LockTimeout bounds how long a command waits for another vaultic
	// process to release the vault.
	LockTimeout time.Duration `yaml:"lock_timeout"`
}

// Default returns the settings used when no config file exists
func Default() Config {
	return Config{
		Keyring:     true,
		LockTimeout: DefaultLockTimeout,
	}
}

// DefaultPath returns $VAULTIC_CONFIG or <user config dir>/vaultic/config.yaml
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vaultic", "config.yaml")
}

// Load reads the config file at path. A missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.LockTimeout < 0 {
		return cfg, fmt.Errorf("lock_timeout must not be negative")
	}
	return cfg, nil
}

// Locations resolves the vault paths. Precedence: dirFlag, $VAULTIC_DIR,
// vault_dir from the config file, then paths.Default().
func (c Config) Locations(dirFlag string) paths.Locations {
	for _, dir := range []string{dirFlag, os.Getenv(EnvDir), c.VaultDir} {
		if dir != "" {
			return paths.FromDir(expandHome(dir))
		}
	}
	return paths.Default()
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(dir string) string {
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dir
	}
	return filepath.Join(home, strings.TrimPrefix(dir, "~"))
}
