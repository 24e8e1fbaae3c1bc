package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Entry records one launch attempt.
type Entry struct {
	Timestamp  string   `json:"ts"`                    // RFC3339 with microseconds.
	Invocation string   `json:"invocation"`            // UUID for this launch.
	Owner      string   `json:"owner,omitempty"`       // Routed owner, if inferred.
	Tiers      []string `json:"tiers,omitempty"`       // Secrets tiers loaded (names only).
	Binary     string   `json:"binary,omitempty"`      // Validated binary path.
	RepoRoot   string   `json:"repo_root,omitempty"`   // Canonical repository root.
	SecretVars int      `json:"secret_vars,omitempty"` // Count of exported variables, never names.
}

// Log appends an entry to the audit log under configDir.
// Auditing is best-effort: a launch must never fail because its audit
// record could not be written.
func Log(configDir string, entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}
	if entry.Invocation == "" {
		entry.Invocation = uuid.NewString()
	}

	logPath := filepath.Join(configDir, "audit.jsonl")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = f.Write(data)
}
