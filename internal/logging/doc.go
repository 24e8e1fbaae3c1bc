// Package logger provides leveled logging for claude-wrapper commands.
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: shows info messages
//   - --debug: shows all messages including debug details
//
// Without flags, only warnings and errors are shown.
//
// Debug output may include file paths but must never include resolved
// secret values or the reference strings that name them.
//
// Commands create a Logger in their PersistentPreRun and pass it down:
//
//	log := logger.Logger{Verbose: verbose, Debug: debug}
//	log.Debugf("checking %s", path)
package logger
