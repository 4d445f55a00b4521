package driven

import (
	"context"
	"time"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
)

// PatternStore persists mined error/solution patterns.
type PatternStore interface {
	// RecordPattern upserts one extracted pattern occurrence. A new
	// pattern starts at frequency 1 with first_seen = last_seen = now;
	// an existing one has its frequency incremented and last_seen
	// advanced. FirstSeen is never rewritten.
	RecordPattern(ctx context.Context, patternType domain.PatternType, text string, now time.Time) (*domain.Pattern, error)

	// ListByFrequency returns patterns with frequency >= minFrequency,
	// ordered by frequency descending then last_seen descending. A
	// non-positive limit means no cap.
	ListByFrequency(ctx context.Context, minFrequency, limit int) ([]domain.Pattern, error)

	// CountPatterns returns the total number of tracked patterns.
	CountPatterns(ctx context.Context) (int, error)
}
