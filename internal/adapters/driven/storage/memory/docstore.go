package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
	"github.com/fathomlabs/opsrecall/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Used by tests and by callers embedding a non-durable engine.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	order     []string // insertion order, for recency tie-breaks
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
	}
}

// SaveDocument inserts or replaces a document by ID.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.documents[doc.ID]
	s.documents[doc.ID] = *doc
	if !exists {
		s.order = append(s.order, doc.ID)
	}
	return !exists, nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents, newest first.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(), nil
}

// ListRecent returns up to limit documents created at or after since,
// newest first.
func (s *DocumentStore) ListRecent(_ context.Context, since time.Time, limit int) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Document
	for _, doc := range s.sortedLocked() {
		if doc.CreatedAt.Before(since) {
			continue
		}
		result = append(result, doc)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// CountDocuments returns the total number of stored documents.
func (s *DocumentStore) CountDocuments(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents), nil
}

// CountByType returns document counts grouped by metadata type.
func (s *DocumentStore) CountByType(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, doc := range s.documents {
		counts[doc.Metadata.Type]++
	}
	return counts, nil
}

// CountSince returns the number of documents created at or after since.
func (s *DocumentStore) CountSince(_ context.Context, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, doc := range s.documents {
		if !doc.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// sortedLocked returns documents newest first, later-inserted first on
// equal timestamps. Caller must hold at least a read lock.
func (s *DocumentStore) sortedLocked() []domain.Document {
	result := make([]domain.Document, 0, len(s.documents))
	// Walk insertion order backwards so the stable sort keeps
	// last-in-first-out ordering for equal creation times.
	for i := len(s.order) - 1; i >= 0; i-- {
		if doc, ok := s.documents[s.order[i]]; ok {
			result = append(result, doc)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}
