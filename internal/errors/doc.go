// Package errors defines sentinel errors for the claude-wrapper pipeline.
//
// Errors are grouped by the security control that raises them: permission
// policy, path boundary, secret resolution, binary trust, token routing,
// and the pre-launch hook. Call sites wrap these with fmt.Errorf and %w so
// callers can use errors.Is to branch on the failure class.
//
// Every sentinel here represents a condition that aborts credential
// loading for at least the affected file; none of them are advisory.
package errors
