package router

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	wraperrors "github.com/smartwatermelon/claude-wrapper/internal/errors"
	"github.com/smartwatermelon/claude-wrapper/internal/gitrepo"
	logger "github.com/smartwatermelon/claude-wrapper/internal/logging"
	"github.com/smartwatermelon/claude-wrapper/internal/permissions"
)

// TokenFileName is the default credential file under the config
// directory. Owner-specific credentials are siblings named
// TokenFileName.<owner>.
const TokenFileName = "token"

// ownerPattern is the only shape an inferred owner may take before it is
// used to construct a filesystem path. Everything else, including
// traversal attempts like "../etc", is rejected.
var ownerPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

var (
	apiPathPattern = regexp.MustCompile(`^repos/([^/]+)/[^/]+`)
	sshRemote      = regexp.MustCompile(`^(?:ssh://)?git@[^:/]+[:/]([^/]+)/[^/]+?(?:\.git)?$`)
	httpsRemote    = regexp.MustCompile(`^https?://[^/]+/([^/]+)/[^/]+?(?:\.git)?$`)
)

// Route describes the credential selected for this invocation.
type Route struct {
	// Owner is the inferred target account, empty when undetermined.
	Owner string

	// Path is the credential file the token was read from, empty when no
	// token file exists at all.
	Path string

	// Token is the bearer token to export, empty when none was found.
	Token string
}

// InferOwner derives the target account for an invocation. It tries, in
// order: the owner segment of a --repo/-R flag, the owner segment of an
// API-style path argument, and the owner of the working directory's
// origin remote. An undetermined owner is not an error; callers fall
// back to the default credential.
func InferOwner(log logger.Logger, args []string, workDir string) (string, bool) {
	if owner, ok := ownerFromRepoFlag(args); ok {
		log.Debugf("owner %q inferred from repo flag", owner)
		return owner, true
	}
	if owner, ok := ownerFromAPIPath(args); ok {
		log.Debugf("owner %q inferred from API path argument", owner)
		return owner, true
	}
	if url, ok, err := gitrepo.OriginURL(workDir); err == nil && ok {
		if owner, ok := OwnerFromRemote(url); ok {
			log.Debugf("owner %q inferred from origin remote", owner)
			return owner, true
		}
	}
	return "", false
}

// SelectToken picks the credential for this invocation: the owner-specific
// token file when the inferred owner has one, otherwise the default token.
//
// The two failure shapes are intentionally asymmetric. A missing
// owner-specific file silently keeps the default credential, which is the
// documented fallback. An owner-specific file with insecure permissions
// fails closed instead: silently downgrading to the default there would
// mask a real misconfiguration behind a working launch.
func SelectToken(log logger.Logger, configDir string, args []string, workDir string) (Route, error) {
	defaultPath := filepath.Join(configDir, TokenFileName)

	owner, ok := InferOwner(log, args, workDir)
	if ok {
		if !ownerPattern.MatchString(owner) {
			return Route{}, fmt.Errorf("%w: %q", wraperrors.ErrInvalidOwnerName, owner)
		}
		ownerPath := defaultPath + "." + owner
		if _, err := os.Lstat(ownerPath); err == nil {
			if err := permissions.Check(ownerPath); err != nil {
				return Route{}, fmt.Errorf("%w: %v", wraperrors.ErrInsecureToken, err)
			}
			token, err := readToken(ownerPath)
			if err != nil {
				return Route{}, err
			}
			log.Infof("using owner-specific token for %s", owner)
			return Route{Owner: owner, Path: ownerPath, Token: token}, nil
		} else if !os.IsNotExist(err) {
			return Route{}, fmt.Errorf("failed to check owner token file: %w", err)
		}
		log.Debugf("no token file for owner %s, using default", owner)
	}

	if _, err := os.Lstat(defaultPath); err != nil {
		if os.IsNotExist(err) {
			log.Debugf("no default token file at %s", defaultPath)
			return Route{Owner: owner}, nil
		}
		return Route{}, fmt.Errorf("failed to check default token file: %w", err)
	}
	fixed, err := permissions.Ensure(defaultPath, permissions.SecretFileMode)
	if err != nil {
		return Route{}, fmt.Errorf("default token file rejected: %w", err)
	}
	if fixed {
		log.WarnfUser("fixed permissions on %s (now %04o)", defaultPath, permissions.SecretFileMode)
	}
	token, err := readToken(defaultPath)
	if err != nil {
		return Route{}, err
	}
	return Route{Owner: owner, Path: defaultPath, Token: token}, nil
}

// readToken reads a single bearer token from path.
func readToken(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read token file %s: %w", path, err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", path)
	}
	return token, nil
}

// ownerFromRepoFlag extracts the owner segment from a --repo/-R flag.
// Values follow the [HOST/]OWNER/REPO shape, so the owner is always the
// second-to-last segment.
func ownerFromRepoFlag(args []string) (string, bool) {
	for i, arg := range args {
		var value string
		switch {
		case arg == "--repo" || arg == "-R":
			if i+1 >= len(args) {
				return "", false
			}
			value = args[i+1]
		case strings.HasPrefix(arg, "--repo="):
			value = strings.TrimPrefix(arg, "--repo=")
		default:
			continue
		}
		parts := strings.Split(value, "/")
		if len(parts) < 2 {
			return "", false
		}
		owner := parts[len(parts)-2]
		return owner, owner != ""
	}
	return "", false
}

// ownerFromAPIPath extracts the owner from a repos/{owner}/{repo}/...
// style argument.
func ownerFromAPIPath(args []string) (string, bool) {
	for _, arg := range args {
		if m := apiPathPattern.FindStringSubmatch(arg); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// OwnerFromRemote parses the owner out of an SSH-style or HTTPS-style
// remote URL.
func OwnerFromRemote(url string) (string, bool) {
	if m := sshRemote.FindStringSubmatch(url); m != nil {
		return m[1], true
	}
	if m := httpsRemote.FindStringSubmatch(url); m != nil {
		return m[1], true
	}
	return "", false
}
