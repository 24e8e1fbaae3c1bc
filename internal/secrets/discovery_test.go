package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	wraperrors "github.com/smartwatermelon/claude-wrapper/internal/errors"
	logger "github.com/smartwatermelon/claude-wrapper/internal/logging"
)

var testLog = logger.Logger{}

// writeSecrets creates a reference file with the given mode, creating
// parent directories as needed.
func writeSecrets(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("Failed to create parent dirs: %v", err)
	}
	if err := os.WriteFile(path, []byte("TOKEN=op://vault/item/field\n"), 0600); err != nil {
		t.Fatalf("Failed to create secrets file: %v", err)
	}
	if err := os.Chmod(path, mode); err != nil {
		t.Fatalf("Failed to chmod secrets file: %v", err)
	}
}

func TestDiscover_NoFilesAnywhere(t *testing.T) {
	res, err := Discover(testLog, t.TempDir(), "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if res.Enabled {
		t.Error("Expected secrets to be disabled with no files present")
	}
	if len(res.Files) != 0 {
		t.Errorf("Expected no files, got: %v", res.Files)
	}
}

func TestDiscover_GlobalOnlyOutsideRepository(t *testing.T) {
	configDir := t.TempDir()
	writeSecrets(t, filepath.Join(configDir, GlobalFileName), 0600)

	res, err := Discover(testLog, configDir, "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !res.Enabled {
		t.Fatal("Expected secrets to be enabled")
	}
	if len(res.Files) != 1 || res.Files[0].Tier != TierGlobal {
		t.Errorf("Expected exactly the global tier, got: %v", res.Files)
	}
	if res.RepoRoot != "" {
		t.Errorf("Expected empty repo root, got: %s", res.RepoRoot)
	}
}

func TestDiscover_AllTiersInOrder(t *testing.T) {
	configDir := t.TempDir()
	repoRoot := t.TempDir()
	writeSecrets(t, filepath.Join(configDir, GlobalFileName), 0600)
	writeSecrets(t, filepath.Join(repoRoot, ProjectDirName, ProjectFileName), 0600)
	writeSecrets(t, filepath.Join(repoRoot, ProjectDirName, LocalFileName), 0600)

	res, err := Discover(testLog, configDir, repoRoot)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	want := []Tier{TierGlobal, TierProject, TierLocal}
	if len(res.Files) != len(want) {
		t.Fatalf("Expected %d files, got: %v", len(want), res.Files)
	}
	for i, tier := range want {
		if res.Files[i].Tier != tier {
			t.Errorf("Expected tier %s at index %d, got %s", tier, i, res.Files[i].Tier)
		}
	}
}

func TestDiscover_MissingTiersAreSkipped(t *testing.T) {
	configDir := t.TempDir()
	repoRoot := t.TempDir()
	writeSecrets(t, filepath.Join(repoRoot, ProjectDirName, ProjectFileName), 0600)

	res, err := Discover(testLog, configDir, repoRoot)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(res.Files) != 1 || res.Files[0].Tier != TierProject {
		t.Errorf("Expected exactly the project tier, got: %v", res.Files)
	}
}

func TestDiscover_RemediatesLoosePermissions(t *testing.T) {
	configDir := t.TempDir()
	path := filepath.Join(configDir, GlobalFileName)
	writeSecrets(t, path, 0644)

	res, err := Discover(testLog, configDir, "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !res.Enabled {
		t.Fatal("Expected remediated file to be accepted")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600 after remediation, got %04o", info.Mode().Perm())
	}
}

func TestDiscover_RejectsSymlinkCandidate(t *testing.T) {
	configDir := t.TempDir()
	repoRoot := t.TempDir()
	outside := t.TempDir()

	target := filepath.Join(outside, "planted.env")
	writeSecrets(t, target, 0644)

	claudeDir := filepath.Join(repoRoot, ProjectDirName)
	if err := os.MkdirAll(claudeDir, 0700); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.Symlink(target, filepath.Join(claudeDir, ProjectFileName)); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	_, err := Discover(testLog, configDir, repoRoot)
	if !errors.Is(err, wraperrors.ErrIsSymlink) {
		t.Errorf("Expected ErrIsSymlink, got: %v", err)
	}

	// Rejection must leave the link target completely untouched; a
	// remediating chmod through the symlink would reach outside the
	// repository.
	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("Failed to stat target: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("Symlink target mode changed to %04o, expected 0644", info.Mode().Perm())
	}
}

func TestDiscover_RejectsBoundaryEscapeViaSymlinkedDir(t *testing.T) {
	configDir := t.TempDir()
	repoRoot := t.TempDir()
	outside := t.TempDir()

	// .claude itself is a symlink out of the repository; the candidate
	// file's leaf is regular, so this exercises the containment check
	// rather than the leaf-symlink rejection.
	writeSecrets(t, filepath.Join(outside, ProjectFileName), 0600)
	if err := os.Symlink(outside, filepath.Join(repoRoot, ProjectDirName)); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	_, err := Discover(testLog, configDir, repoRoot)
	if !errors.Is(err, wraperrors.ErrBoundaryEscape) {
		t.Errorf("Expected ErrBoundaryEscape, got: %v", err)
	}
}

func TestDiscover_SymlinkedRepoRootIsAccepted(t *testing.T) {
	configDir := t.TempDir()
	tmpDir := t.TempDir()
	realRoot := filepath.Join(tmpDir, "real")
	writeSecrets(t, filepath.Join(realRoot, ProjectDirName, ProjectFileName), 0600)

	linkRoot := filepath.Join(tmpDir, "link")
	if err := os.Symlink(realRoot, linkRoot); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	res, err := Discover(testLog, configDir, linkRoot)
	if err != nil {
		t.Fatalf("Expected no error for symlinked working copy, got: %v", err)
	}
	if len(res.Files) != 1 || res.Files[0].Tier != TierProject {
		t.Errorf("Expected the project tier, got: %v", res.Files)
	}
}
