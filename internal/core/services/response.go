package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
	"github.com/fathomlabs/opsrecall/internal/core/ports/driven"
	"github.com/fathomlabs/opsrecall/internal/core/ports/driving"
	"github.com/fathomlabs/opsrecall/internal/keywords"
	"github.com/fathomlabs/opsrecall/internal/logger"
	"github.com/fathomlabs/opsrecall/internal/mining"
)

// Ensure ResponseService implements the interface.
var _ driving.ResponseService = (*ResponseService)(nil)

const (
	// methodRuleBased identifies the only synthesis method: templated
	// rule substitution, no model inference.
	methodRuleBased = "rule-based"

	// contextTopK and contextMinSimilarity bound the retrieval the
	// service runs for itself when the caller passes nil context.
	contextTopK          = 3
	contextMinSimilarity = 0.1

	// relevantPatternLimit caps the prevention-note pattern lookup.
	relevantPatternLimit = 3
)

// categoryRule matches query substrings to a diagnosis template.
type categoryRule struct {
	category   string
	keywords   []string
	diagnosis  string
	solution   string
	confidence int
}

// categoryRules is evaluated in order with last-match-wins semantics:
// every matching rule overwrites the result of earlier matches, so the
// list order is part of the contract.
var categoryRules = []categoryRule{
	{
		category:   "package-manager",
		keywords:   []string{"apt", "apt-get", "yum", "dnf", "snap", "dpkg", "package", "install"},
		diagnosis:  "Package manager issue detected",
		solution:   "Verify the package name and refresh the package index (apt update) before installing",
		confidence: 8,
	},
	{
		category:   "permission",
		keywords:   []string{"permission", "denied", "unauthorized", "sudo", "forbidden"},
		diagnosis:  "Permission or authorization issue detected",
		solution:   "Re-run with elevated privileges (sudo) or fix ownership with chown/chmod",
		confidence: 7,
	},
	{
		category:   "orchestration",
		keywords:   []string{"microk8s", "kubernetes", "kubectl", "k8s", "cluster", "pod"},
		diagnosis:  "Orchestration platform issue detected",
		solution:   "Check cluster status (microk8s status) and enable any missing addons",
		confidence: 6,
	},
	{
		category:   "connectivity",
		keywords:   []string{"connection refused", "unreachable", "timeout", "timed out", "ssh", "network"},
		diagnosis:  "Network connectivity issue detected",
		solution:   "Verify the target host is reachable and the service is listening on the expected port",
		confidence: 7,
	},
	{
		category:   "automation",
		keywords:   []string{"ansible", "playbook", "automation"},
		diagnosis:  "Automation tool issue detected",
		solution:   "Review the failing task output and re-run the playbook with increased verbosity",
		confidence: 6,
	},
}

// ResponseService synthesizes rule-based diagnoses.
type ResponseService struct {
	retrieval    driving.RetrievalService
	ingest       driving.IngestService
	patternStore driven.PatternStore
}

// NewResponseService creates a new response service.
func NewResponseService(
	retrieval driving.RetrievalService,
	ingest driving.IngestService,
	patternStore driven.PatternStore,
) *ResponseService {
	return &ResponseService{
		retrieval:    retrieval,
		ingest:       ingest,
		patternStore: patternStore,
	}
}

// GenerateResponse produces a diagnosis/solution/confidence triple for
// the query. When contextDocs is nil the service retrieves its own
// context; an explicit empty slice suppresses retrieval.
func (s *ResponseService) GenerateResponse(
	ctx context.Context, query string, contextDocs []domain.Document,
) domain.Response {
	logger.Section("Response Synthesis")
	now := time.Now().UTC()

	resp := domain.Response{
		Diagnosis:  "Unknown issue",
		Solution:   "Manual investigation required",
		Confidence: 3,
		Method:     methodRuleBased,
	}

	lowered := strings.ToLower(query)
	for _, rule := range categoryRules {
		if !matchesAny(lowered, rule.keywords) {
			continue
		}
		resp.Diagnosis = rule.diagnosis
		resp.Solution = rule.solution
		resp.Confidence = rule.confidence
		resp.Category = rule.category
		logger.Debug("Category rule matched: %s (confidence %d)", rule.category, rule.confidence)
	}

	if contextDocs == nil {
		for _, result := range s.retrieval.RetrieveSimilar(ctx, query, contextTopK, contextMinSimilarity) {
			contextDocs = append(contextDocs, result.Document)
		}
		logger.Debug("Retrieved %d context documents", len(contextDocs))
	}

	s.applyContext(&resp, contextDocs)
	s.applyPatterns(ctx, &resp, keywords.Extract(query))

	resp.ContextUsed = len(contextDocs)
	resp.RetrievalConfidence = retrievalConfidence(contextDocs, now)

	return resp
}

// applyContext refines the response from retrieved documents: the first
// solution line mined from a successful document replaces the templated
// solution, and the most frequent error line across all documents
// replaces the diagnosis.
func (s *ResponseService) applyContext(resp *domain.Response, contextDocs []domain.Document) {
	if len(contextDocs) == 0 {
		return
	}

	for _, doc := range contextDocs {
		if !doc.Metadata.Succeeded() {
			continue
		}
		if solutions := mining.ExtractSolutions(doc.Content); len(solutions) > 0 {
			resp.Solution = solutions[0]
			resp.Confidence = min(resp.Confidence+2, 9)
			break
		}
	}

	errCounts := make(map[string]int)
	var errOrder []string
	for _, doc := range contextDocs {
		for _, line := range mining.ExtractErrors(doc.Content) {
			if errCounts[line] == 0 {
				errOrder = append(errOrder, line)
			}
			errCounts[line]++
		}
	}
	if len(errOrder) > 0 {
		best := errOrder[0]
		for _, line := range errOrder {
			if errCounts[line] > errCounts[best] {
				best = line
			}
		}
		resp.Diagnosis = "Similar error pattern: " + best
	}
}

// applyPatterns attaches a prevention note when a mined pattern is
// relevant to the query keywords.
func (s *ResponseService) applyPatterns(ctx context.Context, resp *domain.Response, queryKeywords []string) {
	patterns := s.relevantPatterns(ctx, queryKeywords, relevantPatternLimit)
	if len(patterns) == 0 {
		return
	}
	resp.Prevention = "Common pattern: " + patterns[0]
	resp.Confidence = min(resp.Confidence+1, 10)
}

// relevantPatterns returns pattern texts whose content contains any
// query keyword, restricted to patterns seen more than once, ordered by
// frequency then recency. With no keyword match it falls back to the
// globally most frequent patterns seen more than twice.
func (s *ResponseService) relevantPatterns(ctx context.Context, queryKeywords []string, limit int) []string {
	candidates, err := s.patternStore.ListByFrequency(ctx, 2, 0)
	if err != nil {
		logger.Warn("List patterns: %v", err)
		return nil
	}

	var texts []string
	for _, p := range candidates {
		if !patternMatchesKeywords(p.Text, queryKeywords) {
			continue
		}
		texts = append(texts, p.Text)
		if len(texts) >= limit {
			return texts
		}
	}
	if len(texts) > 0 {
		return texts
	}

	fallback, err := s.patternStore.ListByFrequency(ctx, 3, limit)
	if err != nil {
		logger.Warn("List fallback patterns: %v", err)
		return nil
	}
	for _, p := range fallback {
		texts = append(texts, p.Text)
	}
	return texts
}

// patternMatchesKeywords reports whether the pattern text contains any
// query keyword as a substring, ignoring case.
func patternMatchesKeywords(text string, queryKeywords []string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range queryKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// retrievalConfidence expresses how much retrieved context backed the
// answer, on a 0-1 scale: a base of 0.3 plus 0.15 per context document,
// plus bonuses for having a recent document and a successful one.
func retrievalConfidence(contextDocs []domain.Document, now time.Time) float64 {
	confidence := 0.3 + 0.15*float64(len(contextDocs))

	weekAgo := now.AddDate(0, 0, -7)
	hasRecent := false
	hasSuccess := false
	for _, doc := range contextDocs {
		if !doc.CreatedAt.Before(weekAgo) {
			hasRecent = true
		}
		if doc.Metadata.Succeeded() {
			hasSuccess = true
		}
	}
	if hasRecent {
		confidence += 0.1
	}
	if hasSuccess {
		confidence += 0.1
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// matchesAny reports whether any needle appears in the lowercased query.
func matchesAny(lowered string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(lowered, needle) {
			return true
		}
	}
	return false
}

// AnalyzeToolOutput ingests one automation job output, synthesizes a
// query from the detected error lines, and returns the analysis.
func (s *ResponseService) AnalyzeToolOutput(
	ctx context.Context, output, jobName string, targets []string,
) domain.OutputAnalysis {
	logger.Section("Tool Output Analysis")

	errorSummary := mining.ExtractErrors(output)
	success := len(errorSummary) == 0
	logger.Debug("Job %q: %d error lines detected", jobName, len(errorSummary))

	meta := domain.Metadata{
		Type:     "command-output",
		Success:  &success,
		Playbook: jobName,
	}
	if len(targets) > 0 {
		meta.Extra = map[string]any{"targets": targets}
	}

	docID, stored := s.ingest.AddDocument(ctx, output, meta)
	if !stored {
		docID = ""
	}

	query := jobName
	if !success {
		query = jobName + " " + strings.Join(errorSummary, " ")
	}
	resp := s.GenerateResponse(ctx, query, nil)

	analysis := domain.OutputAnalysis{
		RunID:        uuid.NewString(),
		Success:      success,
		DocumentID:   docID,
		ErrorSummary: errorSummary,
		Response:     resp,
	}

	if success {
		analysis.Recommendations = []string{fmt.Sprintf("%s completed without detected errors; no action required", jobName)}
		return analysis
	}

	analysis.Recommendations = append(analysis.Recommendations, resp.Solution)
	if resp.Prevention != "" {
		analysis.Recommendations = append(analysis.Recommendations, resp.Prevention)
	}
	return analysis
}
