package hook

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	wraperrors "github.com/smartwatermelon/claude-wrapper/internal/errors"
	logger "github.com/smartwatermelon/claude-wrapper/internal/logging"
	"github.com/smartwatermelon/claude-wrapper/internal/paths"
	"github.com/smartwatermelon/claude-wrapper/internal/permissions"
)

// RelPath is the hook location relative to the repository root.
var RelPath = filepath.Join(".claude", "hooks", "pre-launch")

// Run executes the repository's pre-launch hook, if one exists.
// repoRoot must be canonical.
//
// The hook is repository-controlled code executed with the injected
// environment, so it gets the full credential-file treatment first:
// no symlink leaf, canonical location inside the repository, owner-only
// executable mode (remediated to 0700 when loose or not runnable).
// Absence is a silent skip; a failing hook aborts the launch.
func Run(log logger.Logger, repoRoot string) error {
	if repoRoot == "" {
		return nil
	}
	path := filepath.Join(repoRoot, RelPath)
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			log.Debugf("no pre-launch hook at %s", path)
			return nil
		}
		return fmt.Errorf("failed to check pre-launch hook: %w", err)
	}

	canon, err := paths.Canonicalize(path)
	if err != nil {
		return fmt.Errorf("pre-launch hook rejected: %w", err)
	}
	if !paths.IsUnder(canon, repoRoot) {
		return fmt.Errorf("%w: hook %s resolves to %s",
			wraperrors.ErrBoundaryEscape, path, canon)
	}

	fixed, err := permissions.EnsureExecutable(canon, permissions.HookFileMode)
	if err != nil {
		return fmt.Errorf("pre-launch hook rejected: %w", err)
	}
	if fixed {
		log.WarnfUser("fixed permissions on %s (now %04o)", canon, permissions.HookFileMode)
	}

	log.Infof("running pre-launch hook")
	cmd := exec.Command(canon)
	cmd.Dir = repoRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s exited with error: %v; fix or remove the hook to launch",
			wraperrors.ErrHookFailed, canon, err)
	}
	return nil
}
