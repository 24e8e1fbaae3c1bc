package launcher

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/crypto/ssh"

	"github.com/smartwatermelon/claude-wrapper/internal/audit"
	"github.com/smartwatermelon/claude-wrapper/internal/binary"
	"github.com/smartwatermelon/claude-wrapper/internal/configs"
	"github.com/smartwatermelon/claude-wrapper/internal/gitrepo"
	"github.com/smartwatermelon/claude-wrapper/internal/hook"
	logger "github.com/smartwatermelon/claude-wrapper/internal/logging"
	"github.com/smartwatermelon/claude-wrapper/internal/router"
	"github.com/smartwatermelon/claude-wrapper/internal/secrets"
	"github.com/smartwatermelon/claude-wrapper/internal/vault"
)

// Options carries everything Prepare needs. No package-level state.
type Options struct {
	Log       logger.Logger
	Config    *configs.UserConfig
	ConfigDir string

	// Args are passed through to the agent binary untouched.
	Args []string
}

// Invocation is a fully prepared, validated launch. The process
// environment has already been augmented by the time Prepare returns one.
type Invocation struct {
	BinaryPath string
	Args       []string
	RepoRoot   string
}

// Prepare runs the whole pre-exec pipeline: token routing, identity
// environment, secrets discovery and injection, the pre-launch hook, and
// binary trust validation. Any security failure aborts with an error;
// absent optional material (no token, no secrets, no hook) is skipped.
func Prepare(opts Options) (*Invocation, error) {
	log := opts.Log
	cfg := opts.Config

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	repoRoot, inRepo, err := gitrepo.Root(workDir)
	if err != nil {
		return nil, err
	}
	if !inRepo {
		repoRoot = ""
	}

	route, err := router.SelectToken(log, opts.ConfigDir, opts.Args, workDir)
	if err != nil {
		return nil, err
	}
	if route.Token != "" {
		if err := os.Setenv("GH_TOKEN", route.Token); err != nil {
			return nil, fmt.Errorf("failed to export token: %w", err)
		}
	}

	exportIdentity(cfg.Identity)
	exportSSHCommand(log, cfg.SSHKeyPath(home))

	discovery, err := secrets.Discover(log, opts.ConfigDir, repoRoot)
	if err != nil {
		return nil, err
	}

	var secretVars []string
	if discovery.Enabled {
		client := vault.New(cfg.Resolver.Command)
		if !client.Available() {
			// Optional feature, not a policy failure: stay quiet unless
			// the user asked for diagnostics.
			log.Infof("secrets files present but %s is not installed, skipping secret injection", client.Command)
		} else {
			injector := secrets.Injector{Vault: client, Log: log}
			secretVars, err = injector.Inject(discovery)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := hook.Run(log, discovery.RepoRoot); err != nil {
		return nil, err
	}

	name := cfg.Agent.Binary
	if name == "" {
		name = binary.DefaultName
	}
	selfPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate own executable: %w", err)
	}
	candidate, err := binary.Discover(log, name, selfPath, os.Getenv("PATH"), home)
	if err != nil {
		return nil, err
	}
	validated, err := binary.Validate(candidate)
	if err != nil {
		return nil, err
	}
	log.Infof("launching %s", validated)

	tiers := make([]string, 0, len(discovery.Files))
	for _, f := range discovery.Files {
		tiers = append(tiers, string(f.Tier))
	}
	audit.Log(opts.ConfigDir, audit.Entry{
		Owner:      route.Owner,
		Tiers:      tiers,
		Binary:     validated,
		RepoRoot:   discovery.RepoRoot,
		SecretVars: len(secretVars),
	})

	return &Invocation{
		BinaryPath: validated,
		Args:       opts.Args,
		RepoRoot:   discovery.RepoRoot,
	}, nil
}

// Exec replaces the current process with the agent binary. It only
// returns on failure.
func Exec(inv *Invocation) error {
	argv := append([]string{inv.BinaryPath}, inv.Args...)
	if err := syscall.Exec(inv.BinaryPath, argv, os.Environ()); err != nil {
		return fmt.Errorf("failed to execute %s: %w", inv.BinaryPath, err)
	}
	// Unreachable when exec succeeds.
	return nil
}

// exportIdentity exports author and committer variables for any identity
// fields that are configured.
func exportIdentity(id configs.Identity) {
	if id.Name != "" {
		os.Setenv("GIT_AUTHOR_NAME", id.Name)
		os.Setenv("GIT_COMMITTER_NAME", id.Name)
	}
	if id.Email != "" {
		os.Setenv("GIT_AUTHOR_EMAIL", id.Email)
		os.Setenv("GIT_COMMITTER_EMAIL", id.Email)
	}
}

// exportSSHCommand exports an SSH-command override pointing at the
// dedicated key, but only when the key file exists and actually parses
// as a private key. The override is a convenience, so a malformed key is
// a warning and a skip rather than a failure.
func exportSSHCommand(log logger.Logger, keyPath string) {
	raw, err := os.ReadFile(keyPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("cannot read SSH key %s: %v", keyPath, err)
		}
		return
	}
	if _, err := ssh.ParseRawPrivateKey(raw); err != nil {
		var missing *ssh.PassphraseMissingError
		if !errors.As(err, &missing) {
			log.Warnf("skipping SSH override, %s is not a private key", keyPath)
			return
		}
		// Passphrase-protected keys are fine; ssh will prompt.
	}
	os.Setenv("GIT_SSH_COMMAND", fmt.Sprintf("ssh -i %s -o IdentitiesOnly=yes", keyPath))
	log.Debugf("exported SSH command override using %s", keyPath)
}
