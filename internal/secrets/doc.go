// Package secrets discovers, validates, and injects vault-backed secret
// references into the process environment.
//
// # Tiers
//
// Three tiers of reference files are merged in ascending precedence:
//
//  1. global:  ~/.config/claude-wrapper/secrets.env
//  2. project: <repo-root>/.claude/secrets.env
//  3. local:   <repo-root>/.claude/secrets.local.env
//
// Reference files are line-oriented: blank lines and # comments are
// ignored, every other line is KEY=reference where the reference string
// is meaningful only to the external resolver.
//
// # Trust rules
//
// Every file must be owned by the invoking user with no group or world
// access (loose modes on the user's own files are tightened in place,
// with a visible warning). Repository-relative files must additionally
// canonicalize to a location inside the repository root; the leaf of a
// credential path may never be a symlink.
//
// # Injection
//
// Discovery produces an immutable Result which the Injector consumes:
// per file, references are staged into an owner-only scratch directory,
// resolved by the external resolver, normalized, validated, and exported.
// The scratch directory is removed on every exit path. A resolution or
// validation failure aborts the whole pass rather than exporting a
// partial secret set.
package secrets
