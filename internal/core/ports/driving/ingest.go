package driving

import (
	"context"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
)

// IngestService accepts raw operational text for storage and indexing.
type IngestService interface {
	// AddDocument stores text plus metadata, updating the vocabulary
	// index and pattern table. It returns the deterministic document ID
	// and whether the document was stored; stored == false with an
	// empty ID means a privacy gate declined the document or storage
	// failed, and no side effects took place.
	AddDocument(ctx context.Context, content string, meta domain.Metadata) (id string, stored bool)
}
