// Package launcher orchestrates a single launch of the agent binary.
//
// Prepare runs every component explicitly, in order, threading each
// step's result into the next: credential routing, identity environment,
// secrets discovery and injection, the pre-launch hook, and binary trust
// validation. Nothing happens at import time and no component reads
// another's state ambiently.
//
// Exec hands the augmented environment to the validated binary by
// replacing the current process. The two are separate so callers can
// finish terminal output (spinners) before the handoff.
package launcher
