package vault

import (
	"fmt"
	"io"
	"os/exec"

	wraperrors "github.com/smartwatermelon/claude-wrapper/internal/errors"
)

// DefaultCommand is the resolver CLI invoked when no override is configured.
const DefaultCommand = "op"

// Client shells out to the external secret resolver. The resolver's
// request/response semantics are opaque here: it maps a file of
// KEY=reference lines to a file of KEY=value lines, or fails.
type Client struct {
	// Command is the resolver binary name or path.
	Command string
}

// New returns a Client for the given resolver command, falling back to
// DefaultCommand when empty.
func New(command string) *Client {
	if command == "" {
		command = DefaultCommand
	}
	return &Client{Command: command}
}

// Available reports whether the resolver binary is installed at all.
// Absence is a graceful feature-skip for secret loading, not an error.
func (c *Client) Available() bool {
	_, err := exec.LookPath(c.Command)
	return err == nil
}

// SessionActive reports whether an authenticated resolver session exists.
// The probe is idempotent and side-effect free; it never triggers an
// interactive sign-in.
func (c *Client) SessionActive() bool {
	cmd := exec.Command(c.Command, "whoami")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run() == nil
}

// Inject resolves every reference in refFile and writes the resolved
// environment to outFile.
//
// The resolver's stdout and stderr are both discarded: its diagnostics
// echo reference identifiers, which can hint at secret names, and must
// not reach the wrapper's logs.
func (c *Client) Inject(refFile, outFile string) error {
	cmd := exec.Command(c.Command, "inject", "-i", refFile, "-o", outFile, "--force")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s inject exited with error: %v",
			wraperrors.ErrResolutionFailed, c.Command, err)
	}
	return nil
}
