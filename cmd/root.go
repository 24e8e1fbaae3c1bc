package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	logger "github.com/smartwatermelon/claude-wrapper/internal/logging"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "claude-wrapper [agent args...]",
		Short: "Security gateway for launching the Claude agent with vault-backed credentials",
		Long: `claude-wrapper sits between you and the agent binary. Before handing
control to the agent it routes the right bearer token for the target
account, resolves secret references from your vault into the
environment, runs the repository's pre-launch hook, and refuses to
execute a binary it cannot trust.

No credential is loaded from a file that is not owned by you, readable
by anyone else, reached through a symlink, or (for repository-scoped
files) located outside the repository.

Arguments after the wrapper's own flags are passed to the agent
unchanged:

  claude-wrapper --verbose -- --continue
  claude-wrapper run --repo acme/widgets`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{Verbose: verbose, Debug: debug}
			Logger.Debugf("initializing with verbose=%t, debug=%t", verbose, debug)
		},
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return launch(args)
		},
	}
)

func init() {
	addLoggingFlags(RootCmd.PersistentFlags())
	// The first non-flag argument belongs to the agent, along with
	// everything after it.
	RootCmd.Flags().SetInterspersed(false)

	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(doctorCmd)
	RootCmd.AddCommand(initCmd)
}

func addLoggingFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	fs.BoolVarP(&debug, "debug", "d", false, "enable debug output")
}
