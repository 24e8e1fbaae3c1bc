// Package binary locates the agent executable and decides whether it can
// be trusted with the injected environment.
//
// Discovery and validation are deliberately separate: discovery merely
// finds a candidate (excluding the wrapper's own executable, which is
// often installed under the agent's name), while validation performs the
// mandatory ownership and writability checks. A binary that is found but
// fails validation is never executed.
package binary
