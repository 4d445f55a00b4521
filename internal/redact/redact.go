// Package redact rewrites sensitive substrings in operational text
// before it is hashed, keyword-extracted, or stored. Rewriting happens
// at the ingestion boundary so that nothing derived from the text can
// leak the original values.
package redact

import "regexp"

// Placeholder tokens substituted for detected values. They are plain
// words so keyword extraction still indexes them.
const (
	IPPlaceholder    = "REDACTED_IP"
	EmailPlaceholder = "REDACTED_EMAIL"
	HashPlaceholder  = "REDACTED_HASH"
	TokenPlaceholder = "REDACTED_TOKEN"
)

// Rewrite order matters: emails before the base64 rule (the local part
// of an address can look like a token) and hex hashes before the base64
// rule (a long hex string is also valid base64 alphabet).
var rules = []struct {
	re          *regexp.Regexp
	placeholder string
}{
	{regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`), EmailPlaceholder},
	{regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`), IPPlaceholder},
	{regexp.MustCompile(`\b[0-9a-fA-F]{32,}\b`), HashPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9+/]{20,}={0,2}`), TokenPlaceholder},
}

// Scrub replaces IPv4 addresses, email addresses, long hex hashes, and
// base64-looking tokens with fixed placeholders.
func Scrub(text string) string {
	for _, rule := range rules {
		text = rule.re.ReplaceAllString(text, rule.placeholder)
	}
	return text
}
