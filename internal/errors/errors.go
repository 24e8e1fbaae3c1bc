package errors

import "errors"

// Permission errors indicate a file's mode bits or ownership violate the
// security policy. These are always fatal: no credential is ever loaded
// from a file that fails them.
var (
	// ErrInsecurePermissions indicates group or world bits grant access.
	ErrInsecurePermissions = errors.New("file permissions allow group or world access")

	// ErrWrongOwner indicates the file is not owned by the current user.
	ErrWrongOwner = errors.New("file is not owned by the current user")

	// ErrRemediationFailed indicates an attempted permission fix did not apply.
	ErrRemediationFailed = errors.New("failed to tighten file permissions")
)

// Path security errors indicate a path could not be proven to lie where it
// claims to lie.
var (
	// ErrIsSymlink indicates the leaf of a credential path is a symlink.
	ErrIsSymlink = errors.New("path is a symbolic link")

	// ErrPathNotFound indicates the path does not exist.
	ErrPathNotFound = errors.New("path does not exist")

	// ErrCanonicalizationFailed indicates the path could not be resolved
	// to a canonical absolute form.
	ErrCanonicalizationFailed = errors.New("failed to canonicalize path")

	// ErrBoundaryEscape indicates a repository-relative file resolves
	// outside the repository root.
	ErrBoundaryEscape = errors.New("path resolves outside the repository boundary")
)

// Resolution errors indicate the external secret resolver could not produce
// a usable environment.
var (
	// ErrVaultUnavailable indicates no authenticated resolver session exists.
	ErrVaultUnavailable = errors.New("secret resolver is not available or not signed in")

	// ErrUnreadable indicates a secrets file disappeared or became
	// unreadable between discovery and injection.
	ErrUnreadable = errors.New("secrets file is not readable")

	// ErrResolutionFailed indicates the external resolver exited non-zero.
	ErrResolutionFailed = errors.New("secret resolution failed")

	// ErrInvalidContent indicates resolver output failed post-validation.
	ErrInvalidContent = errors.New("resolved secrets contain invalid content")
)

// Binary trust errors indicate the agent executable cannot be trusted.
var (
	// ErrBinaryNotFound indicates no agent binary was found in the search
	// path or any fallback location.
	ErrBinaryNotFound = errors.New("agent binary not found")

	// ErrNotExecutable indicates the candidate lacks an execute bit.
	ErrNotExecutable = errors.New("agent binary is not executable")

	// ErrUnexpectedOwner indicates the binary is owned by neither the
	// current user nor root.
	ErrUnexpectedOwner = errors.New("agent binary has unexpected owner")

	// ErrWorldWritable indicates the binary is writable beyond its owner.
	ErrWorldWritable = errors.New("agent binary is group or world writable")
)

// Router errors indicate token routing failed in a way that must not fall
// back to the default credential.
var (
	// ErrInvalidOwnerName indicates an inferred owner failed the charset check.
	ErrInvalidOwnerName = errors.New("owner name contains invalid characters")

	// ErrInsecureToken indicates an owner-specific token file exists but
	// has insecure permissions or ownership.
	ErrInsecureToken = errors.New("owner-specific token file is insecure")
)

// Hook errors indicate the pre-launch hook could not run safely.
var (
	// ErrHookFailed indicates the pre-launch hook exited non-zero.
	ErrHookFailed = errors.New("pre-launch hook failed")
)
