package permissions

import (
	"fmt"
	"os"
	"syscall"

	wraperrors "github.com/smartwatermelon/claude-wrapper/internal/errors"
)

// Mode constants for the files this wrapper handles.
const (
	// SecretFileMode is the only acceptable mode for token and secrets
	// files: owner read/write, nothing for group or world.
	SecretFileMode os.FileMode = 0o600

	// HookFileMode is the required mode for the pre-launch hook: owner
	// read/write/execute only.
	HookFileMode os.FileMode = 0o700

	// ScratchDirMode is applied to scratch directories before any secret
	// material is written into them.
	ScratchDirMode os.FileMode = 0o700
)

// groupWorldBits covers every permission bit beyond the owner's.
const groupWorldBits = 0o077

// ownerExecBit is the owner's execute permission.
const ownerExecBit os.FileMode = 0o100

// Stat returns the numeric owner UID and permission bits of path.
// The mode of a missing or unstattable file cannot be determined, and
// callers must treat that as a policy failure, never as "no bits set".
func Stat(path string) (uid int, mode os.FileMode, err error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, fmt.Errorf("no ownership metadata available for %s", path)
	}
	return int(st.Uid), info.Mode().Perm(), nil
}

// Check enforces the owner-only policy on path without side effects.
// It fails if the file is not owned by the current user, or if any group
// or world bit is set. An undeterminable mode is a failure.
func Check(path string) error {
	uid, mode, err := Stat(path)
	if err != nil {
		return err
	}
	if uid != os.Getuid() {
		return fmt.Errorf("%w: %s is owned by uid %d, expected %d",
			wraperrors.ErrWrongOwner, path, uid, os.Getuid())
	}
	if mode&groupWorldBits != 0 {
		return fmt.Errorf("%w: %s has mode %04o",
			wraperrors.ErrInsecurePermissions, path, mode)
	}
	return nil
}

// Ensure remediates path to target mode if group or world bits are set.
// Ownership is never remediated: a file owned by another principal was
// written by another principal, and that is always fatal.
//
// Returns true if a mode change was applied, so the caller can surface
// a visible warning about the fix.
func Ensure(path string, target os.FileMode) (bool, error) {
	uid, mode, err := Stat(path)
	if err != nil {
		return false, err
	}
	if uid != os.Getuid() {
		return false, fmt.Errorf("%w: %s is owned by uid %d, expected %d",
			wraperrors.ErrWrongOwner, path, uid, os.Getuid())
	}
	if mode&groupWorldBits == 0 {
		return false, nil
	}
	if err := os.Chmod(path, target); err != nil {
		return false, fmt.Errorf("%w: chmod %04o on %s: %v",
			wraperrors.ErrRemediationFailed, target, path, err)
	}
	return true, nil
}

// EnsureExecutable is Ensure for files that must also be runnable: a
// missing owner execute bit is remediated along with loose group or
// world bits. Ownership failures stay fatal.
func EnsureExecutable(path string, target os.FileMode) (bool, error) {
	uid, mode, err := Stat(path)
	if err != nil {
		return false, err
	}
	if uid != os.Getuid() {
		return false, fmt.Errorf("%w: %s is owned by uid %d, expected %d",
			wraperrors.ErrWrongOwner, path, uid, os.Getuid())
	}
	if mode&groupWorldBits == 0 && mode&ownerExecBit != 0 {
		return false, nil
	}
	if err := os.Chmod(path, target); err != nil {
		return false, fmt.Errorf("%w: chmod %04o on %s: %v",
			wraperrors.ErrRemediationFailed, target, path, err)
	}
	return true, nil
}
