package driving

import (
	"context"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
)

// RetrievalService answers similarity queries over the indexed corpus.
type RetrievalService interface {
	// RetrieveSimilar returns up to topK documents scoring at least
	// minSimilarity against the query, best first. An empty query or an
	// empty corpus yields an empty slice, never an error.
	RetrieveSimilar(ctx context.Context, query string, topK int, minSimilarity float64) []domain.RetrievalResult

	// Statistics summarizes the indexed corpus.
	Statistics(ctx context.Context) domain.Statistics
}
