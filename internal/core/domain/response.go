package domain

import (
	"fmt"
	"strings"
)

// Response is a rule-synthesized diagnosis for a query, produced without
// any model inference. Confidence is on a 0-10 scale; the separate
// RetrievalConfidence expresses how much retrieved context backed the
// answer on a 0-1 scale.
type Response struct {
	// Diagnosis names the likely problem.
	Diagnosis string

	// Solution is the suggested remediation.
	Solution string

	// Prevention is an optional note about recurring patterns.
	Prevention string

	// Category is the last matching rule category, empty when no rule fired.
	Category string

	// Confidence is the rule confidence in [0, 10].
	Confidence int

	// ContextUsed is the number of retrieved documents consulted.
	ContextUsed int

	// RetrievalConfidence is in [0, 1] and grows with context quality.
	RetrievalConfidence float64

	// Method identifies how the response was produced.
	Method string
}

// Render formats the response as display text.
func (r Response) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Diagnosis: %s\n", r.Diagnosis)
	fmt.Fprintf(&b, "Solution: %s\n", r.Solution)
	if r.Prevention != "" {
		fmt.Fprintf(&b, "Prevention: %s\n", r.Prevention)
	}
	fmt.Fprintf(&b, "Confidence: %d/10", r.Confidence)
	return b.String()
}

// OutputAnalysis is the result of analyzing one automation job output.
type OutputAnalysis struct {
	// RunID uniquely identifies this analysis run.
	RunID string

	// Success is true when no error shapes were detected in the output.
	Success bool

	// DocumentID is the ingested document's ID, empty when storage was
	// skipped or failed.
	DocumentID string

	// ErrorSummary holds up to five detected error lines.
	ErrorSummary []string

	// Response is the synthesized diagnosis for the detected errors.
	Response Response

	// Recommendations lists suggested follow-up actions.
	Recommendations []string
}
