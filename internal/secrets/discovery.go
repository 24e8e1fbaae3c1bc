package secrets

import (
	"fmt"
	"os"
	"path/filepath"

	wraperrors "github.com/smartwatermelon/claude-wrapper/internal/errors"
	logger "github.com/smartwatermelon/claude-wrapper/internal/logging"
	"github.com/smartwatermelon/claude-wrapper/internal/paths"
	"github.com/smartwatermelon/claude-wrapper/internal/permissions"
)

// Tier identifies one precedence level of secrets file. Later tiers
// overwrite earlier ones when injection merges their keys.
type Tier string

const (
	TierGlobal  Tier = "global"
	TierProject Tier = "project"
	TierLocal   Tier = "local"
)

// File names per tier.
const (
	GlobalFileName  = "secrets.env"
	ProjectFileName = "secrets.env"
	LocalFileName   = "secrets.local.env"

	// ProjectDirName is the repository subdirectory holding project and
	// local tier files plus the pre-launch hook.
	ProjectDirName = ".claude"
)

// File is one validated secrets file. Path is canonical.
type File struct {
	Path string
	Tier Tier
}

// Result is the immutable outcome of discovery, threaded into injection.
type Result struct {
	// Files are the validated secrets files in ascending precedence.
	Files []File

	// Enabled is true when at least one tier was found.
	Enabled bool

	// RepoRoot is the canonical repository root, empty outside a
	// repository. Reusable by collaborators such as hook execution.
	RepoRoot string
}

// Discover locates and validates every secrets tier. repoRoot is the raw
// repository root of the working directory, or empty when the invocation
// is not inside a repository.
//
// The global tier lives under configDir and is never boundary-checked:
// it is not repository-relative, so there is no boundary to escape.
// Project and local tiers exist only inside a repository; outside one,
// their paths are never even constructed. A repository-relative candidate
// whose canonical form escapes the repository root fails the whole
// discovery, not just that tier, because a planted symlink is an attack,
// not a misconfiguration.
func Discover(log logger.Logger, configDir, repoRoot string) (Result, error) {
	var res Result

	globalPath := filepath.Join(configDir, GlobalFileName)
	if f, err := validateTier(log, globalPath, TierGlobal); err != nil {
		return Result{}, err
	} else if f != nil {
		res.Files = append(res.Files, *f)
	}

	if repoRoot != "" {
		canonRoot, err := paths.CanonicalizeDir(repoRoot)
		if err != nil {
			return Result{}, fmt.Errorf("failed to canonicalize repository root: %w", err)
		}
		res.RepoRoot = canonRoot

		for _, tier := range []struct {
			name string
			tier Tier
		}{
			{ProjectFileName, TierProject},
			{LocalFileName, TierLocal},
		} {
			candidate := filepath.Join(canonRoot, ProjectDirName, tier.name)
			f, err := validateTier(log, candidate, tier.tier)
			if err != nil {
				return Result{}, err
			}
			if f == nil {
				continue
			}
			if !paths.IsUnder(f.Path, canonRoot) {
				return Result{}, fmt.Errorf("%w: %s resolves to %s",
					wraperrors.ErrBoundaryEscape, candidate, f.Path)
			}
			res.Files = append(res.Files, *f)
		}
	} else {
		log.Debugf("not inside a repository, skipping project and local secrets tiers")
	}

	res.Enabled = len(res.Files) > 0
	return res, nil
}

// validateTier validates a single candidate file. Absence is a skip
// (nil, nil); any security failure is an error.
func validateTier(log logger.Logger, path string, tier Tier) (*File, error) {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			log.Debugf("no %s secrets file at %s", tier, path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check %s secrets file: %w", tier, err)
	}

	// Symlink rejection must precede remediation: chmod follows
	// symlinks, and a planted link could otherwise redirect the fix
	// onto a file far outside the candidate path.
	canon, err := paths.Canonicalize(path)
	if err != nil {
		return nil, fmt.Errorf("%s secrets file rejected: %w", tier, err)
	}

	fixed, err := permissions.Ensure(canon, permissions.SecretFileMode)
	if err != nil {
		return nil, fmt.Errorf("%s secrets file rejected: %w", tier, err)
	}
	if fixed {
		log.WarnfUser("fixed permissions on %s (now %04o)", canon, permissions.SecretFileMode)
	}

	log.Debugf("validated %s secrets file: %s", tier, canon)
	return &File{Path: canon, Tier: tier}, nil
}
