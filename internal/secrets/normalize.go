package secrets

import (
	"fmt"
	"regexp"
	"strings"

	wraperrors "github.com/smartwatermelon/claude-wrapper/internal/errors"
)

var identifierLine = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

// Normalize rewrites resolver output so parsing it back reproduces
// every value intact.
//
// Blank lines and comments pass through unchanged. For KEY=value lines,
// values already wrapped in matching quotes pass through; anything else
// is wrapped in double quotes with backslashes and embedded double
// quotes escaped. The quoting must round-trip through the env-file
// parser downstream, so values holding quotes, spaces, or backslashes
// survive exactly as the resolver produced them.
func Normalize(input string) string {
	lines := strings.Split(input, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			out = append(out, line)
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			out = append(out, line)
			continue
		}
		if isQuoted(value) {
			out = append(out, line)
			continue
		}
		escaped := strings.ReplaceAll(value, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `"`, `\"`)
		out = append(out, key+`="`+escaped+`"`)
	}
	return strings.Join(out, "\n")
}

// isQuoted reports whether value is wrapped in a matching pair of single
// or double quotes.
func isQuoted(value string) bool {
	if len(value) < 2 {
		return false
	}
	first, last := value[0], value[len(value)-1]
	return (first == '\'' || first == '"') && first == last
}

// Validate rejects resolver output that could not have come from a
// well-formed resolution: non-assignment lines, or values carrying a
// command-substitution payload. Nothing in the environment may execute
// code if a later consumer re-interprets it with a shell.
//
// Errors cite line numbers only, never values.
func Validate(content string) error {
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if !identifierLine.MatchString(trimmed) {
			return fmt.Errorf("%w: line %d is not a KEY=value assignment",
				wraperrors.ErrInvalidContent, i+1)
		}
		_, value, _ := strings.Cut(trimmed, "=")
		if strings.Contains(value, "$(") || strings.Contains(value, "`") {
			return fmt.Errorf("%w: line %d contains a command substitution pattern",
				wraperrors.ErrInvalidContent, i+1)
		}
	}
	return nil
}
