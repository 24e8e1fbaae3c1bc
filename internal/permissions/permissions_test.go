package permissions

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	wraperrors "github.com/smartwatermelon/claude-wrapper/internal/errors"
)

// writeFileWithMode creates a file and forces its mode past the umask.
func writeFileWithMode(t *testing.T, dir, name string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data\n"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := os.Chmod(path, mode); err != nil {
		t.Fatalf("Failed to chmod test file: %v", err)
	}
	return path
}

func TestCheck_OwnerOnlyMode(t *testing.T) {
	path := writeFileWithMode(t, t.TempDir(), "token", 0600)
	if err := Check(path); err != nil {
		t.Errorf("Expected 0600 file to pass, got: %v", err)
	}
}

func TestCheck_GroupReadable(t *testing.T) {
	path := writeFileWithMode(t, t.TempDir(), "token", 0640)
	err := Check(path)
	if !errors.Is(err, wraperrors.ErrInsecurePermissions) {
		t.Errorf("Expected ErrInsecurePermissions, got: %v", err)
	}
}

func TestCheck_WorldReadable(t *testing.T) {
	path := writeFileWithMode(t, t.TempDir(), "token", 0644)
	err := Check(path)
	if !errors.Is(err, wraperrors.ErrInsecurePermissions) {
		t.Errorf("Expected ErrInsecurePermissions, got: %v", err)
	}
}

func TestCheck_MissingFile(t *testing.T) {
	if err := Check(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestEnsure_AlreadySecure(t *testing.T) {
	path := writeFileWithMode(t, t.TempDir(), "token", 0600)
	fixed, err := Ensure(path, SecretFileMode)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if fixed {
		t.Error("Expected no remediation for an already-secure file")
	}
}

func TestEnsure_RemediatesLooseMode(t *testing.T) {
	path := writeFileWithMode(t, t.TempDir(), "token", 0644)
	fixed, err := Ensure(path, SecretFileMode)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !fixed {
		t.Error("Expected remediation to be reported")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat remediated file: %v", err)
	}
	if info.Mode().Perm() != SecretFileMode {
		t.Errorf("Expected mode %04o after remediation, got %04o", SecretFileMode, info.Mode().Perm())
	}

	// The fixed file must now pass the pure predicate too.
	if err := Check(path); err != nil {
		t.Errorf("Expected remediated file to pass Check, got: %v", err)
	}
}

func TestEnsureExecutable(t *testing.T) {
	tests := []struct {
		name      string
		mode      os.FileMode
		wantFixed bool
	}{
		{"already correct", 0700, false},
		{"loose bits", 0755, true},
		{"missing exec bit", 0600, true},
		{"loose and not runnable", 0644, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFileWithMode(t, t.TempDir(), "hook", tt.mode)
			fixed, err := EnsureExecutable(path, HookFileMode)
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if fixed != tt.wantFixed {
				t.Errorf("Expected fixed=%v for mode %04o, got %v", tt.wantFixed, tt.mode, fixed)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("Failed to stat: %v", err)
			}
			if info.Mode().Perm() != HookFileMode {
				t.Errorf("Expected mode %04o, got %04o", HookFileMode, info.Mode().Perm())
			}
		})
	}
}

func TestEnsure_MissingFile(t *testing.T) {
	if _, err := Ensure(filepath.Join(t.TempDir(), "nope"), SecretFileMode); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestStat_ReportsOwnUID(t *testing.T) {
	path := writeFileWithMode(t, t.TempDir(), "token", 0600)
	uid, mode, err := Stat(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if uid != os.Getuid() {
		t.Errorf("Expected uid %d, got %d", os.Getuid(), uid)
	}
	if mode != 0600 {
		t.Errorf("Expected mode 0600, got %04o", mode)
	}
}
