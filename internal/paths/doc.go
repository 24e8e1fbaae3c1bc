// Package paths canonicalizes filesystem paths and tests containment
// within a trusted root.
//
// Credential files are referenced by paths the repository controls, so a
// path that looks contained before resolution may escape after it. The
// rule throughout the wrapper is: canonicalize first, compare canonical
// forms only.
package paths
