// Package vault wraps the external secret resolver CLI.
//
// The resolver (1Password's op by default) is the isolation boundary to
// an external trust domain: references go in through a file, literal
// values come out through a file, and nothing of the exchange is
// captured in process output. Authentication is the resolver's own
// concern; this package only probes whether a session already exists.
package vault
