// Package ui provides semantic terminal formatting for claude-wrapper output.
//
// Formatters pair a color with a plain-text fallback so output stays
// readable when color is disabled (NO_COLOR, dumb terminals, pipes).
// Commands use the package-level formatters rather than raw color calls
// so the same semantic category always renders the same way.
package ui
