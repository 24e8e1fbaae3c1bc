package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	wraperrors "github.com/smartwatermelon/claude-wrapper/internal/errors"
)

// Canonicalize resolves path to its absolute canonical form with all
// "."/".." components and intermediate symlinks resolved.
//
// The leaf component must not be a symlink. That is checked first, with
// Lstat, before any other filesystem access: a symlinked credential file
// is rejected outright rather than resolved, so a later check can never
// observe a different, attacker-swapped target than the one inspected here.
func Canonicalize(path string) (string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", wraperrors.ErrPathNotFound, path)
		}
		return "", fmt.Errorf("%w: lstat %s: %v", wraperrors.ErrCanonicalizationFailed, path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return "", fmt.Errorf("%w: %s", wraperrors.ErrIsSymlink, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", wraperrors.ErrCanonicalizationFailed, path, err)
	}

	// Parent directories may legitimately be symlinks (e.g. a symlinked
	// working copy); resolve them so containment checks compare real
	// locations.
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", wraperrors.ErrCanonicalizationFailed, path, err)
	}
	return resolved, nil
}

// CanonicalizeDir is Canonicalize for directories whose own leaf may be a
// symlink, such as a symlinked repository root. The result is still fully
// resolved; only the leaf-symlink rejection is waived.
func CanonicalizeDir(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", wraperrors.ErrPathNotFound, path)
		}
		return "", fmt.Errorf("%w: stat %s: %v", wraperrors.ErrCanonicalizationFailed, path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", wraperrors.ErrCanonicalizationFailed, path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", wraperrors.ErrCanonicalizationFailed, path, err)
	}
	return resolved, nil
}

// IsUnder reports whether child is parent itself or a descendant of parent.
//
// Both arguments must already be canonical; this function does not
// re-canonicalize. The trailing-separator requirement is load-bearing:
// a bare prefix check would accept /home/user-evil under /home/user.
func IsUnder(child, parent string) bool {
	if child == parent {
		return true
	}
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}
