package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/smartwatermelon/claude-wrapper/internal/configs"
	"github.com/smartwatermelon/claude-wrapper/internal/ui"
)

var (
	initName     string
	initEmail    string
	initResolver string
	initBinary   string
	initSSHKey   string
	initForce    bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Creates ~/.config/claude-wrapper/config.toml from the given flags.
Every field is optional; unset fields fall back to built-in defaults at
launch time. An existing configuration is never overwritten unless
--force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit()
	},
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "git identity name to export at launch")
	initCmd.Flags().StringVar(&initEmail, "email", "", "git identity email to export at launch")
	initCmd.Flags().StringVar(&initResolver, "resolver", "", "secret resolver command (default \"op\")")
	initCmd.Flags().StringVar(&initBinary, "binary", "", "agent binary name (default \"claude\")")
	initCmd.Flags().StringVar(&initSSHKey, "ssh-key", "", "dedicated SSH key path (default ~/.ssh/claude-wrapper)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing configuration")
}

func runInit() error {
	configDir, err := configs.Dir()
	if err != nil {
		return err
	}

	path := filepath.Join(configDir, "config.toml")
	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", path)
		}
	}

	cfg := &configs.UserConfig{}
	cfg.Identity.Name = initName
	cfg.Identity.Email = initEmail
	cfg.Resolver.Command = initResolver
	cfg.Agent.Binary = initBinary
	cfg.SSH.KeyPath = initSSHKey

	if err := configs.Save(configDir, cfg); err != nil {
		return err
	}

	fmt.Printf("%s wrote %s\n", ui.Success.Sprint("✓"), ui.Path.Sprint(path))
	return nil
}
