package cmd

import (
	"github.com/spf13/cobra"

	"github.com/smartwatermelon/claude-wrapper/internal/configs"
	"github.com/smartwatermelon/claude-wrapper/internal/launcher"
)

var runCmd = &cobra.Command{
	Use:   "run [agent args...]",
	Short: "Prepare the environment and launch the agent",
	Long: `Runs the full pipeline and replaces the wrapper process with the agent
binary. This is also what a bare claude-wrapper invocation does; the
explicit subcommand exists so agent arguments that collide with wrapper
subcommand names can still be passed through.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return launch(args)
	},
}

func init() {
	runCmd.Flags().SetInterspersed(false)
}

// launch runs the pre-exec pipeline under a spinner, then hands the
// process over to the agent.
func launch(args []string) error {
	configDir, err := configs.Dir()
	if err != nil {
		return err
	}
	cfg, err := configs.Load(configDir)
	if err != nil {
		return err
	}

	s, cleanup := startSpinner("Preparing environment...", verbose)
	inv, err := launcher.Prepare(launcher.Options{
		Log:       Logger,
		Config:    cfg,
		ConfigDir: configDir,
		Args:      args,
	})
	if err != nil {
		s.FinalMSG = ""
		cleanup()
		return err
	}
	cleanup()

	// The spinner must be fully stopped before exec: nothing of the
	// wrapper survives the handoff.
	return launcher.Exec(inv)
}
