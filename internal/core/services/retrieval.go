package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
	"github.com/fathomlabs/opsrecall/internal/core/ports/driven"
	"github.com/fathomlabs/opsrecall/internal/core/ports/driving"
	"github.com/fathomlabs/opsrecall/internal/keywords"
	"github.com/fathomlabs/opsrecall/internal/logger"
	"github.com/fathomlabs/opsrecall/internal/metrics"
	"github.com/fathomlabs/opsrecall/internal/vocab"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// Retrieval defaults applied when the caller passes non-positive values.
const (
	defaultTopK = 5
)

// RetrievalService answers similarity queries over the indexed corpus.
type RetrievalService struct {
	docStore     driven.DocumentStore
	patternStore driven.PatternStore
	index        *vocab.Index
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	docStore driven.DocumentStore,
	patternStore driven.PatternStore,
	index *vocab.Index,
) *RetrievalService {
	return &RetrievalService{
		docStore:     docStore,
		patternStore: patternStore,
		index:        index,
	}
}

// RebuildIndex reloads the vocabulary index from a full document scan.
// Called once at startup, and again whenever the store may have been
// mutated outside the current process. A scan failure leaves the index
// empty, which degrades every query to "no results" rather than
// serving stale rarity statistics.
func (s *RetrievalService) RebuildIndex(ctx context.Context) {
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		logger.Warn("Rebuild vocabulary index: %v", err)
		metrics.StorageFailures.Inc()
		s.index.Rebuild(nil)
		return
	}
	s.index.Rebuild(docs)
	logger.Debug("Vocabulary index rebuilt: %d documents, %d terms", s.index.TotalDocuments(), s.index.Size())
}

// RetrieveSimilar scores every stored document against the query and
// returns up to topK results at or above minSimilarity, best first.
// Ties are broken by recency, newest document first.
func (s *RetrievalService) RetrieveSimilar(
	ctx context.Context, query string, topK int, minSimilarity float64,
) []domain.RetrievalResult {
	logger.Section("Similarity Retrieval")
	metrics.QueriesServed.Inc()

	queryKeywords := keywords.Extract(query)
	if len(queryKeywords) == 0 {
		logger.Debug("No query keywords after filtering, returning no results")
		return []domain.RetrievalResult{}
	}

	if topK <= 0 {
		topK = defaultTopK
	}

	if s.index.TotalDocuments() == 0 {
		logger.Debug("Empty corpus, returning no results")
		return []domain.RetrievalResult{}
	}

	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		logger.Warn("List documents: %v", err)
		metrics.StorageFailures.Inc()
		return []domain.RetrievalResult{}
	}

	// docs arrive newest first; the stable sort below preserves that
	// order among equal scores, which is the documented tie-break.
	results := make([]domain.RetrievalResult, 0, len(docs))
	for _, doc := range docs {
		score, matched := s.score(queryKeywords, doc.Keywords)
		if len(matched) == 0 || score < minSimilarity {
			continue
		}
		results = append(results, domain.RetrievalResult{
			Document:         doc,
			Score:            score,
			MatchingKeywords: matched,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}

	logger.Debug("Query %q: %d results", query, len(results))
	return results
}

// score computes the TF-IDF similarity between query keywords and one
// document's keywords, averaged over matched terms. It also returns the
// distinct matched terms in first-match order.
func (s *RetrievalService) score(queryKws, docKws []string) (float64, []string) {
	total := s.index.TotalDocuments()
	if total == 0 || len(queryKws) == 0 || len(docKws) == 0 {
		return 0, nil
	}

	queryCounts := termCounts(queryKws)
	docCounts := termCounts(docKws)

	var score float64
	matched := 0
	seen := make(map[string]struct{})
	var matchedTerms []string

	// Iterate the query list as-is: a repeated query term contributes
	// once per occurrence, and the final division by the match count
	// averages that back out.
	for _, term := range queryKws {
		docCount, present := docCounts[term]
		if !present {
			continue
		}

		tfQuery := float64(queryCounts[term]) / float64(len(queryKws))
		tfDoc := float64(docCount) / float64(len(docKws))
		idf := math.Log(float64(total) / float64(s.index.DocumentFrequency(term)+1))

		score += tfQuery * tfDoc * idf
		matched++

		if _, dup := seen[term]; !dup {
			seen[term] = struct{}{}
			matchedTerms = append(matchedTerms, term)
		}
	}

	if matched == 0 {
		return 0, nil
	}
	return score / float64(matched), matchedTerms
}

// termCounts returns occurrence counts for a keyword list.
func termCounts(kws []string) map[string]int {
	counts := make(map[string]int, len(kws))
	for _, kw := range kws {
		counts[kw]++
	}
	return counts
}

// Statistics summarizes the indexed corpus. Storage faults zero the
// affected fields rather than failing the call.
func (s *RetrievalService) Statistics(ctx context.Context) domain.Statistics {
	now := time.Now().UTC()
	stats := domain.Statistics{
		VocabularySize:  s.index.Size(),
		DocumentsByType: map[string]int{},
	}

	total, err := s.docStore.CountDocuments(ctx)
	if err != nil {
		logger.Warn("Count documents: %v", err)
		metrics.StorageFailures.Inc()
	} else {
		stats.TotalDocuments = total
	}

	byType, err := s.docStore.CountByType(ctx)
	if err != nil {
		logger.Warn("Count documents by type: %v", err)
		metrics.StorageFailures.Inc()
	} else {
		stats.DocumentsByType = byType
	}

	recent, err := s.docStore.CountSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		logger.Warn("Count recent documents: %v", err)
		metrics.StorageFailures.Inc()
	} else {
		stats.RecentDocuments = recent
	}

	patterns, err := s.patternStore.CountPatterns(ctx)
	if err != nil {
		logger.Warn("Count patterns: %v", err)
		metrics.StorageFailures.Inc()
	} else {
		stats.PatternsTracked = patterns
	}

	return stats
}
