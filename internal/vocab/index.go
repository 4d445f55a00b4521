// Package vocab maintains the in-memory term rarity statistics used for
// TF-IDF scoring: per-term document frequencies and the total document
// count. The index is a derived cache over the document store; it is
// rebuilt from a full scan at startup and updated incrementally on each
// true insert, and is never persisted.
package vocab

import (
	"sync"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
)

// Index holds document-frequency counters for the indexed corpus.
// Safe for concurrent reads; writes are serialized by the ingest path.
type Index struct {
	mu    sync.RWMutex
	df    map[string]int
	total int
}

// NewIndex creates an empty vocabulary index.
func NewIndex() *Index {
	return &Index{df: make(map[string]int)}
}

// Rebuild replaces the index contents from a full document scan.
func (x *Index) Rebuild(docs []domain.Document) {
	df := make(map[string]int)
	for _, doc := range docs {
		countDistinct(df, doc.Keywords)
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.df = df
	x.total = len(docs)
}

// AddDocument updates counters for one newly inserted document.
// Callers must not invoke this for replace-on-id-collision upserts;
// those do not change the corpus statistics.
func (x *Index) AddDocument(kws []string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	countDistinct(x.df, kws)
	x.total++
}

// DocumentFrequency returns how many documents contain term. Unknown
// terms return zero, which is a valid input to the IDF computation.
func (x *Index) DocumentFrequency(term string) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.df[term]
}

// TotalDocuments returns the indexed document count.
func (x *Index) TotalDocuments() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.total
}

// Size returns the number of distinct terms in the vocabulary.
func (x *Index) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.df)
}

// countDistinct increments df once per distinct term in kws, keeping
// the document_frequency[t] <= total_documents invariant.
func countDistinct(df map[string]int, kws []string) {
	seen := make(map[string]struct{}, len(kws))
	for _, kw := range kws {
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		df[kw]++
	}
}
