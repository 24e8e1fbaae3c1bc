package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// UserConfig is the wrapper's configuration, stored at
// <config-dir>/config.toml. Every field is optional; zero values fall
// back to built-in defaults at the point of use.
type UserConfig struct {
	Identity Identity `toml:"identity"`
	Resolver Resolver `toml:"resolver"`
	Agent    Agent    `toml:"agent"`
	SSH      SSH      `toml:"ssh"`
}

// Identity is exported to git as author and committer.
type Identity struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// Resolver configures the external secret resolver.
type Resolver struct {
	// Command overrides the resolver binary (default "op").
	Command string `toml:"command"`
}

// Agent configures the launched binary.
type Agent struct {
	// Binary overrides the agent binary name (default "claude").
	Binary string `toml:"binary"`
}

// SSH configures the dedicated key for the SSH-command override.
type SSH struct {
	// KeyPath overrides the key location (default ~/.ssh/claude-wrapper).
	KeyPath string `toml:"key_path"`
}

// Dir returns the wrapper's config directory, ~/.config/claude-wrapper.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "claude-wrapper"), nil
}

// Load reads the user config from dir. A missing file yields an empty
// config, not an error.
func Load(dir string) (*UserConfig, error) {
	config := &UserConfig{}
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return config, nil
}

// Save writes config to dir/config.toml, creating dir owner-only. The
// file itself is owner-only too; identity and resolver settings are not
// secrets, but nothing this wrapper writes is shared.
func Save(dir string, config *UserConfig) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.toml")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// SSHKeyPath resolves the dedicated SSH key location for home.
func (c *UserConfig) SSHKeyPath(home string) string {
	if c.SSH.KeyPath != "" {
		return c.SSH.KeyPath
	}
	return filepath.Join(home, ".ssh", "claude-wrapper")
}
