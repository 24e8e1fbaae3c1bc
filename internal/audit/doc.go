// Package audit appends launch records to an append-only JSONL log in
// the user's config directory.
//
// Entries identify which credential route and secrets tiers a launch
// used, by name and count only; no token or secret value ever reaches
// the log. Audit writes are best-effort and never block a launch.
package audit
