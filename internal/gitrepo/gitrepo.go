package gitrepo

import (
	"fmt"
	"os/exec"
	"strings"
)

// Root returns the top-level directory of the repository containing dir.
// Not being inside a repository is an expected outcome, reported via the
// boolean, not an error; errors are reserved for git itself misbehaving.
func Root(dir string) (string, bool, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			// git exits non-zero outside a work tree.
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to run git rev-parse: %w", err)
	}
	root := strings.TrimSpace(string(out))
	if root == "" {
		return "", false, nil
	}
	return root, true, nil
}

// OriginURL returns the URL of the origin remote for the repository
// containing dir. A missing remote is reported like a missing repository.
func OriginURL(dir string) (string, bool, error) {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to run git remote get-url: %w", err)
	}
	url := strings.TrimSpace(string(out))
	if url == "" {
		return "", false, nil
	}
	return url, true, nil
}
