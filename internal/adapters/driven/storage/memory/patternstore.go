package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
	"github.com/fathomlabs/opsrecall/internal/core/ports/driven"
)

// Ensure PatternStore implements the interface.
var _ driven.PatternStore = (*PatternStore)(nil)

// PatternStore is an in-memory implementation of driven.PatternStore.
type PatternStore struct {
	mu       sync.RWMutex
	patterns map[string]domain.Pattern
}

// NewPatternStore creates a new in-memory pattern store.
func NewPatternStore() *PatternStore {
	return &PatternStore{
		patterns: make(map[string]domain.Pattern),
	}
}

// RecordPattern upserts one extracted pattern occurrence.
func (s *PatternStore) RecordPattern(
	_ context.Context, patternType domain.PatternType, text string, now time.Time,
) (*domain.Pattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := domain.PatternID(patternType, text)
	p, ok := s.patterns[id]
	if !ok {
		p = domain.Pattern{
			ID:        id,
			Type:      patternType,
			Text:      text,
			Frequency: 1,
			FirstSeen: now,
			LastSeen:  now,
		}
	} else {
		p.Frequency++
		p.LastSeen = now
	}
	s.patterns[id] = p
	return &p, nil
}

// ListByFrequency returns patterns with frequency >= minFrequency,
// ordered by frequency descending then last_seen descending.
func (s *PatternStore) ListByFrequency(_ context.Context, minFrequency, limit int) ([]domain.Pattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Pattern
	for _, p := range s.patterns {
		if p.Frequency >= minFrequency {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Frequency != result[j].Frequency {
			return result[i].Frequency > result[j].Frequency
		}
		return result[i].LastSeen.After(result[j].LastSeen)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// CountPatterns returns the total number of tracked patterns.
func (s *PatternStore) CountPatterns(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patterns), nil
}
