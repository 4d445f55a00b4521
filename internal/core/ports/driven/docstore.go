package driven

import (
	"context"
	"time"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
)

// DocumentStore persists ingested documents.
// Backed by SQLite for durable storage; a memory implementation exists
// for tests and purely in-process embedding.
type DocumentStore interface {
	// SaveDocument inserts or replaces a document by ID. The returned
	// flag is true for a true insert and false for a replace; callers
	// use it to decide whether corpus statistics changed.
	SaveDocument(ctx context.Context, doc *domain.Document) (inserted bool, err error)

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents, newest first. Records with
	// unreadable serialized fields are skipped, not fatal.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// ListRecent returns up to limit documents created at or after
	// since, newest first. A non-positive limit means no cap.
	ListRecent(ctx context.Context, since time.Time, limit int) ([]domain.Document, error)

	// CountDocuments returns the total number of stored documents.
	CountDocuments(ctx context.Context) (int, error)

	// CountByType returns document counts grouped by metadata type.
	CountByType(ctx context.Context) (map[string]int, error)

	// CountSince returns the number of documents created at or after since.
	CountSince(ctx context.Context, since time.Time) (int, error)
}
