// Package validate holds the pure input checks run before any account
// command is sent to the daemon.
package validate

import "regexp"

// emailRegex accepts a dotted-atom local part followed by dot-separated
// DNS labels (1-63 chars, no leading/trailing hyphen) and a final
// alphabetic label of at least two characters. Syntactic check only.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*\.[a-zA-Z]{2,}$`)

// Name reports whether s is a usable account name. No trimming: a
// whitespace-only name is the caller's problem.
func Name(s string) bool {
	return len(s) >= 1
}

// Email reports whether s is a syntactically valid email address.
func Email(s string) bool {
	return emailRegex.MatchString(s)
}
