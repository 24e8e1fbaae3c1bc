package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	wraperrors "github.com/smartwatermelon/claude-wrapper/internal/errors"
	logger "github.com/smartwatermelon/claude-wrapper/internal/logging"
	"github.com/smartwatermelon/claude-wrapper/internal/permissions"
	"github.com/smartwatermelon/claude-wrapper/internal/vault"
)

// Injector resolves validated secrets files through the external resolver
// and exports the result into the process environment.
type Injector struct {
	Vault *vault.Client
	Log   logger.Logger
}

// Inject runs the resolution pipeline over every file in res, in tier
// order, and exports each resolved variable. Later tiers overwrite
// earlier ones on key collision.
//
// All intermediate material lives in a scratch directory that is
// owner-only before the first secret-bearing write and removed on every
// exit path. Returns the names of the exported variables, sorted.
func (in *Injector) Inject(res Result) ([]string, error) {
	if !res.Enabled {
		in.Log.Debugf("no secrets files discovered, nothing to inject")
		return nil, nil
	}
	if !in.Vault.SessionActive() {
		return nil, fmt.Errorf("%w: run %s signin first",
			wraperrors.ErrVaultUnavailable, in.Vault.Command)
	}

	scratch, err := os.MkdirTemp("", "claude-wrapper-"+uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	// MkdirTemp already creates 0700 directories, but the restriction is
	// a precondition for everything below, so assert it explicitly.
	if err := os.Chmod(scratch, permissions.ScratchDirMode); err != nil {
		return nil, fmt.Errorf("failed to restrict scratch directory: %w", err)
	}

	exported := make(map[string]struct{})
	for i, file := range res.Files {
		keys, err := in.injectFile(scratch, i, file)
		if err != nil {
			return nil, fmt.Errorf("injecting %s secrets: %w", file.Tier, err)
		}
		for _, k := range keys {
			exported[k] = struct{}{}
		}
	}

	names := make([]string, 0, len(exported))
	for k := range exported {
		names = append(names, k)
	}
	sort.Strings(names)
	in.Log.Infof("exported %d secret variables", len(names))
	return names, nil
}

// injectFile runs one file through the resolver and exports its
// assignments. Returns the exported variable names.
func (in *Injector) injectFile(scratch string, index int, file File) ([]string, error) {
	// Re-read at time of use: discovery validated this path earlier, but
	// the file may have vanished or lost readability since.
	raw, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", wraperrors.ErrUnreadable, file.Path, err)
	}

	refFile := filepath.Join(scratch, fmt.Sprintf("refs-%d.env", index))
	outFile := filepath.Join(scratch, fmt.Sprintf("resolved-%d.env", index))

	// The resolver is not required to understand comments; hand it
	// assignments only.
	if err := os.WriteFile(refFile, []byte(stripComments(string(raw))), permissions.SecretFileMode); err != nil {
		return nil, fmt.Errorf("failed to stage references: %w", err)
	}

	in.Log.Debugf("resolving %s tier via %s", file.Tier, in.Vault.Command)
	if err := in.Vault.Inject(refFile, outFile); err != nil {
		return nil, err
	}

	resolved, err := os.ReadFile(outFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read resolver output: %w", err)
	}

	normalized := Normalize(string(resolved))
	if err := Validate(normalized); err != nil {
		return nil, err
	}

	env, err := godotenv.Unmarshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse resolved environment: %v",
			wraperrors.ErrInvalidContent, err)
	}

	keys := make([]string, 0, len(env))
	for key, value := range env {
		if err := os.Setenv(key, value); err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", key, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// stripComments drops comment-only and blank lines.
func stripComments(content string) string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n") + "\n"
}
