package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// PatternType classifies a mined pattern.
type PatternType string

const (
	// PatternError marks a recurring failure message.
	PatternError PatternType = "error"

	// PatternSolution marks a recurring remediation command line.
	PatternSolution PatternType = "solution"
)

// Pattern is a recurring error or solution substring with frequency and
// recency tracking. Frequency only increases, FirstSeen is immutable
// once set, and LastSeen advances monotonically.
type Pattern struct {
	// ID is a deterministic hash of type and text.
	ID string

	// Type is error or solution.
	Type PatternType

	// Text is the mined substring or command line, trimmed.
	Text string

	// Frequency is how many ingestions produced this pattern. Always >= 1.
	Frequency int

	// SuccessRate is reserved for future outcome tracking.
	SuccessRate float64

	// FirstSeen is when the pattern was first extracted.
	FirstSeen time.Time

	// LastSeen is when the pattern was most recently extracted.
	LastSeen time.Time
}

// PatternID computes the deterministic ID for a (type, text) pair.
func PatternID(patternType PatternType, text string) string {
	h := sha256.New()
	h.Write([]byte(patternType))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
