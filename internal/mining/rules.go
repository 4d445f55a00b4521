// Package mining extracts recurring error and solution shapes from
// operational text. Extraction is driven by two fixed rulebooks held as
// ordered matcher lists; rule order is part of the contract because
// downstream consumers rely on which match is reported first.
package mining

import (
	"regexp"
	"strings"
)

const (
	// maxErrors bounds error matches per extraction call so that one
	// noisy output cannot flood the pattern table.
	maxErrors = 5

	// maxSolutions bounds solution matches per extraction call.
	maxSolutions = 3
)

// errorMatcher recognizes one known failure-message shape. Exactly one
// of re or literal is set.
type errorMatcher struct {
	name    string
	re      *regexp.Regexp
	literal string
}

// errorRulebook lists the known failure shapes, in evaluation order.
// Regex matchers report the whole trimmed line; literal matchers report
// the literal itself.
var errorRulebook = []errorMatcher{
	{name: "fatal-line", re: regexp.MustCompile(`(?m)^.*\bfatal:.*$`)},
	{name: "error-line", re: regexp.MustCompile(`(?m)^.*\bERROR:.*$`)},
	{name: "permission-denied", literal: "Permission denied"},
	{name: "command-not-found", literal: "Command not found"},
	{name: "connection-refused", literal: "Connection refused"},
	{name: "no-such-file", literal: "No such file or directory"},
}

// solutionPrefixes are known remediation command shapes. A line that
// contains any of them (ignoring case and a leading sudo) is mined as a
// solution, whole line, trimmed.
var solutionPrefixes = []string{
	"apt install",
	"apt-get install",
	"yum install",
	"dnf install",
	"snap install",
	"pip install",
	"systemctl restart",
	"systemctl enable",
	"systemctl start",
	"microk8s enable",
	"chmod ",
	"chown ",
}

// ExtractErrors returns up to five error-shaped strings found in text,
// in rulebook order, deduplicated within this call.
func ExtractErrors(text string) []string {
	if text == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var found []string

	add := func(s string) bool {
		s = strings.TrimSpace(s)
		if s == "" {
			return false
		}
		if _, dup := seen[s]; dup {
			return false
		}
		seen[s] = struct{}{}
		found = append(found, s)
		return len(found) >= maxErrors
	}

	for _, m := range errorRulebook {
		if len(found) >= maxErrors {
			break
		}
		if m.re != nil {
			for _, line := range m.re.FindAllString(text, -1) {
				if add(line) {
					break
				}
			}
			continue
		}
		if strings.Contains(text, m.literal) {
			if add(m.literal) {
				break
			}
		}
	}

	return found
}

// ExtractSolutions returns up to three remediation command lines found
// in text, whole line, trimmed, deduplicated within this call.
func ExtractSolutions(text string) []string {
	if text == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var found []string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !isSolutionLine(trimmed) {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		found = append(found, trimmed)
		if len(found) >= maxSolutions {
			break
		}
	}

	return found
}

// isSolutionLine reports whether a trimmed line contains a known
// remediation command.
func isSolutionLine(line string) bool {
	lower := strings.ToLower(line)
	for _, prefix := range solutionPrefixes {
		if strings.Contains(lower, prefix) {
			return true
		}
	}
	return false
}
