package binary

import (
	"fmt"
	"os"
	"path/filepath"

	wraperrors "github.com/smartwatermelon/claude-wrapper/internal/errors"
	logger "github.com/smartwatermelon/claude-wrapper/internal/logging"
	"github.com/smartwatermelon/claude-wrapper/internal/permissions"
)

// DefaultName is the agent binary searched for when no override is
// configured.
const DefaultName = "claude"

// groupWorldWriteBits are the write bits beyond the owner's.
const groupWorldWriteBits os.FileMode = 0o022

// FallbackLocations returns the well-known install locations checked, in
// order, when the search path yields nothing.
func FallbackLocations(home string) []string {
	return []string{
		filepath.Join(home, ".claude", "local", DefaultName),
		filepath.Join(home, ".local", "bin", DefaultName),
		"/usr/local/bin/" + DefaultName,
		"/opt/homebrew/bin/" + DefaultName,
	}
}

// Discover locates the agent binary named name: first by scanning every
// directory in pathEnv, then by trying the fixed fallback locations.
//
// selfPath is the wrapper's own executable; a wrapper installed under the
// agent's name must never match itself. Comparison happens on resolved
// paths so a symlinked wrapper is still excluded. Discovery only locates:
// a discovered binary is not yet trusted until Validate accepts it.
func Discover(log logger.Logger, name, selfPath, pathEnv, home string) (string, error) {
	self, err := filepath.EvalSymlinks(selfPath)
	if err != nil {
		self = selfPath
	}

	seen := make(map[string]bool)
	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		if found := consider(log, candidate, self); found != "" {
			return found, nil
		}
	}

	for _, candidate := range FallbackLocations(home) {
		if found := consider(log, candidate, self); found != "" {
			return found, nil
		}
	}

	return "", fmt.Errorf("%w: no %q in search path or fallback locations",
		wraperrors.ErrBinaryNotFound, name)
}

// consider returns candidate if it exists, is executable, and is not the
// wrapper itself; empty string otherwise.
func consider(log logger.Logger, candidate, self string) string {
	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		return ""
	}
	if info.Mode().Perm()&0o111 == 0 {
		log.Debugf("skipping non-executable candidate %s", candidate)
		return ""
	}
	resolved, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return ""
	}
	if resolved == self {
		log.Debugf("skipping own executable at %s", candidate)
		return ""
	}
	return candidate
}

// Validate decides whether a discovered binary may be executed. It
// canonicalizes the path, then requires an execute bit, an owner of
// either the current user or root, and no write access beyond the owner.
// Returns the canonical path to exec.
func Validate(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", wraperrors.ErrCanonicalizationFailed, path, err)
	}

	uid, mode, err := permissions.Stat(resolved)
	if err != nil {
		return "", err
	}
	if mode&0o111 == 0 {
		return "", fmt.Errorf("%w: %s has mode %04o", wraperrors.ErrNotExecutable, resolved, mode)
	}
	if uid != os.Getuid() && uid != 0 {
		return "", fmt.Errorf("%w: %s is owned by uid %d",
			wraperrors.ErrUnexpectedOwner, resolved, uid)
	}
	if mode&groupWorldWriteBits != 0 {
		return "", fmt.Errorf("%w: %s has mode %04o",
			wraperrors.ErrWorldWritable, resolved, mode)
	}
	return resolved, nil
}
