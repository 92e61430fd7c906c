package infrastructure

import "strings"

const shellSpecialChars = " \t\n\r'\"$`\\!*?[](){}|;<>&~#%"

// ShellQuote quotes s for display in a shell command line. This is for log
// readability only - exec.Command passes arguments directly and needs no
// quoting.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, shellSpecialChars) {
		return s
	}
	// Single-quote everything; an embedded single quote becomes '"'"'
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// ShellQuoteCommand renders a binary and its arguments as one
// copy-pasteable shell line for session log headers.
func ShellQuoteCommand(binary string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, ShellQuote(binary))
	for _, arg := range args {
		parts = append(parts, ShellQuote(arg))
	}
	return strings.Join(parts, " ")
}
