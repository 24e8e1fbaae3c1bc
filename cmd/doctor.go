package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/smartwatermelon/claude-wrapper/internal/binary"
	"github.com/smartwatermelon/claude-wrapper/internal/configs"
	"github.com/smartwatermelon/claude-wrapper/internal/gitrepo"
	"github.com/smartwatermelon/claude-wrapper/internal/hook"
	"github.com/smartwatermelon/claude-wrapper/internal/paths"
	"github.com/smartwatermelon/claude-wrapper/internal/permissions"
	"github.com/smartwatermelon/claude-wrapper/internal/router"
	"github.com/smartwatermelon/claude-wrapper/internal/secrets"
	"github.com/smartwatermelon/claude-wrapper/internal/ui"
	"github.com/smartwatermelon/claude-wrapper/internal/vault"
)

func reportGood(label, detail string) {
	fmt.Printf("%s %-18s %s\n", ui.Success.Sprint("✓"), label, detail)
}

func reportBad(label, detail string) {
	fmt.Printf("%s %-18s %s\n", ui.Error.Sprint("✗"), label, detail)
}

func reportSkip(label, detail string) {
	fmt.Printf("%s %-18s %s\n", ui.Muted.Sprint("-"), label, detail)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report the health of every security control",
	Long: `Checks configuration, token files, secrets tiers, the resolver
session, the pre-launch hook, and the agent binary, and reports what a
launch would and would not do.

doctor never mutates anything: permissions are reported, not fixed, and
no secret reference is resolved.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor()
	},
}

func runDoctor() error {
	figure.NewFigure("claude-wrapper", "", true).Print()
	fmt.Println()

	configDir, err := configs.Dir()
	if err != nil {
		return err
	}
	cfg, err := configs.Load(configDir)
	if err != nil {
		reportBad("config", err.Error())
		return nil
	}
	reportConfig(configDir, cfg)
	reportTokens(configDir)

	workDir, err := os.Getwd()
	if err != nil {
		return err
	}
	repoRoot := reportRepo(workDir)
	reportSecrets(configDir, repoRoot)
	reportResolver(cfg)
	reportHook(repoRoot)
	reportBinary(cfg)

	return nil
}

func reportConfig(configDir string, cfg *configs.UserConfig) {
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		reportSkip("config", "no config file, using defaults")
		return
	}
	reportGood("config", ui.Path.Sprint(path))
	if cfg.Identity.Name == "" && cfg.Identity.Email == "" {
		reportSkip("identity", "not configured, git identity left untouched")
	} else {
		reportGood("identity", fmt.Sprintf("%s <%s>", cfg.Identity.Name, cfg.Identity.Email))
	}
}

func reportTokens(configDir string) {
	defaultPath := filepath.Join(configDir, router.TokenFileName)
	if _, err := os.Lstat(defaultPath); os.IsNotExist(err) {
		reportSkip("token", "no default token file")
	} else if err := permissions.Check(defaultPath); err != nil {
		reportBad("token", err.Error())
	} else {
		reportGood("token", ui.Path.Sprint(defaultPath))
	}

	matches, _ := filepath.Glob(defaultPath + ".*")
	for _, m := range matches {
		if err := permissions.Check(m); err != nil {
			reportBad("token", err.Error())
		} else {
			reportGood("token", ui.Path.Sprint(m))
		}
	}
}

func reportRepo(workDir string) string {
	root, inRepo, err := gitrepo.Root(workDir)
	if err != nil {
		reportBad("repository", err.Error())
		return ""
	}
	if !inRepo {
		reportSkip("repository", "not inside a repository, project tiers disabled")
		return ""
	}
	canon, err := paths.CanonicalizeDir(root)
	if err != nil {
		reportBad("repository", err.Error())
		return ""
	}
	reportGood("repository", ui.Path.Sprint(canon))
	return canon
}

func reportSecrets(configDir, repoRoot string) {
	type candidate struct {
		tier secrets.Tier
		path string
	}
	candidates := []candidate{
		{secrets.TierGlobal, filepath.Join(configDir, secrets.GlobalFileName)},
	}
	if repoRoot != "" {
		candidates = append(candidates,
			candidate{secrets.TierProject, filepath.Join(repoRoot, secrets.ProjectDirName, secrets.ProjectFileName)},
			candidate{secrets.TierLocal, filepath.Join(repoRoot, secrets.ProjectDirName, secrets.LocalFileName)},
		)
	}

	for _, c := range candidates {
		label := fmt.Sprintf("secrets (%s)", c.tier)
		if _, err := os.Lstat(c.path); os.IsNotExist(err) {
			reportSkip(label, "not present")
			continue
		}
		if err := permissions.Check(c.path); err != nil {
			reportBad(label, err.Error())
			continue
		}
		canon, err := paths.Canonicalize(c.path)
		if err != nil {
			reportBad(label, err.Error())
			continue
		}
		if repoRoot != "" && c.tier != secrets.TierGlobal && !paths.IsUnder(canon, repoRoot) {
			reportBad(label, fmt.Sprintf("%s resolves outside the repository", c.path))
			continue
		}
		reportGood(label, ui.Path.Sprint(canon))
	}
}

func reportResolver(cfg *configs.UserConfig) {
	client := vault.New(cfg.Resolver.Command)
	if !client.Available() {
		reportSkip("resolver", fmt.Sprintf("%s is not installed, secret injection disabled", client.Command))
		return
	}

	s, cleanup := startSpinner("Checking resolver session...", verbose)
	active := client.SessionActive()
	s.FinalMSG = ""
	cleanup()

	if active {
		reportGood("resolver", fmt.Sprintf("%s session active", client.Command))
	} else {
		reportBad("resolver", fmt.Sprintf("no %s session, run %s signin", client.Command, client.Command))
	}
}

func reportHook(repoRoot string) {
	if repoRoot == "" {
		reportSkip("hook", "no repository")
		return
	}
	path := filepath.Join(repoRoot, hook.RelPath)
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		reportSkip("hook", "no pre-launch hook")
		return
	}
	canon, err := paths.Canonicalize(path)
	if err != nil {
		reportBad("hook", err.Error())
		return
	}
	if !paths.IsUnder(canon, repoRoot) {
		reportBad("hook", fmt.Sprintf("%s resolves outside the repository", path))
		return
	}
	if err := permissions.Check(canon); err != nil {
		reportBad("hook", err.Error())
		return
	}
	reportGood("hook", ui.Path.Sprint(canon))
}

func reportBinary(cfg *configs.UserConfig) {
	name := cfg.Agent.Binary
	if name == "" {
		name = binary.DefaultName
	}
	selfPath, err := os.Executable()
	if err != nil {
		reportBad("binary", err.Error())
		return
	}
	home, err := os.UserHomeDir()
	if err != nil {
		reportBad("binary", err.Error())
		return
	}
	candidate, err := binary.Discover(Logger, name, selfPath, os.Getenv("PATH"), home)
	if err != nil {
		reportBad("binary", err.Error())
		return
	}
	validated, err := binary.Validate(candidate)
	if err != nil {
		reportBad("binary", err.Error())
		return
	}
	reportGood("binary", ui.Path.Sprint(validated))
}
