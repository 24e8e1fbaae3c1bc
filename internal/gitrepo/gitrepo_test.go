package gitrepo

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if out, err := exec.Command("git", "-C", dir, "init", "-q").CombinedOutput(); err != nil {
		t.Fatalf("Failed to init repository: %v: %s", err, out)
	}
	return dir
}

func TestRoot_InsideRepository(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)

	root, ok, err := Root(dir)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !ok {
		t.Fatal("Expected to be inside a repository")
	}
	// macOS temp dirs sit behind a symlink; compare resolved paths.
	wantRoot, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("Failed to resolve dir: %v", err)
	}
	gotRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		t.Fatalf("Failed to resolve root: %v", err)
	}
	if gotRoot != wantRoot {
		t.Errorf("Expected root %s, got %s", wantRoot, gotRoot)
	}
}

func TestRoot_Subdirectory(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)
	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	_, ok, err := Root(sub)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !ok {
		t.Error("Expected subdirectory to be inside the repository")
	}
}

func TestRoot_OutsideRepository(t *testing.T) {
	requireGit(t)

	_, ok, err := Root(t.TempDir())
	if err != nil {
		t.Fatalf("Expected no error outside a repository, got: %v", err)
	}
	if ok {
		t.Error("Expected not to be inside a repository")
	}
}

func TestOriginURL(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)

	_, ok, err := OriginURL(dir)
	if err != nil {
		t.Fatalf("Expected no error without a remote, got: %v", err)
	}
	if ok {
		t.Error("Expected no origin remote in a fresh repository")
	}

	if out, err := exec.Command("git", "-C", dir, "remote", "add", "origin",
		"git@github.com:octocat/widgets.git").CombinedOutput(); err != nil {
		t.Fatalf("Failed to add remote: %v: %s", err, out)
	}

	url, ok, err := OriginURL(dir)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !ok || url != "git@github.com:octocat/widgets.git" {
		t.Errorf("Unexpected origin URL: %q (ok=%v)", url, ok)
	}
}
