// Package permissions decides whether a file's mode bits and ownership
// satisfy the wrapper's security policy.
//
// Two entry points implement the two caller intents:
//
//   - Check: pure predicate. Rejects any group/world access and any file
//     not owned by the invoking user. Used where a fix would itself be
//     suspicious, e.g. owner-routed token files.
//   - Ensure: same ownership rule, but tightens overly-permissive modes
//     in place and reports that it did so. Used for the user's own
//     secrets files, where a loose mode is a mistake rather than an attack.
//
// Ownership mismatches are never auto-fixed. A credential file owned by
// someone else was written by someone else, and nothing downstream may
// load it.
//
// Checks read numeric uid and mode fields from the platform stat call
// directly; textual permission representations are never parsed.
package permissions
