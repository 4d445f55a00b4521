package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
)

func TestIndex_AddDocument(t *testing.T) {
	idx := NewIndex()
	idx.AddDocument([]string{"snap", "install", "snap"})
	idx.AddDocument([]string{"snap", "remove"})

	assert.Equal(t, 2, idx.TotalDocuments())
	assert.Equal(t, 2, idx.DocumentFrequency("snap"), "repeated term counts once per document")
	assert.Equal(t, 1, idx.DocumentFrequency("install"))
	assert.Equal(t, 0, idx.DocumentFrequency("unknown"))
	assert.Equal(t, 3, idx.Size())
}

func TestIndex_FrequencyNeverExceedsTotal(t *testing.T) {
	idx := NewIndex()
	idx.AddDocument([]string{"error", "error", "error"})
	idx.AddDocument([]string{"error"})
	idx.AddDocument([]string{"other"})

	assert.LessOrEqual(t, idx.DocumentFrequency("error"), idx.TotalDocuments())
	assert.LessOrEqual(t, idx.DocumentFrequency("other"), idx.TotalDocuments())
}

func TestIndex_Rebuild(t *testing.T) {
	idx := NewIndex()
	idx.AddDocument([]string{"stale"})

	idx.Rebuild([]domain.Document{
		{Keywords: []string{"fresh", "terms"}},
		{Keywords: []string{"fresh"}},
	})

	assert.Equal(t, 2, idx.TotalDocuments())
	assert.Equal(t, 0, idx.DocumentFrequency("stale"))
	assert.Equal(t, 2, idx.DocumentFrequency("fresh"))
	assert.Equal(t, 1, idx.DocumentFrequency("terms"))
}

func TestIndex_RebuildEmpty(t *testing.T) {
	idx := NewIndex()
	idx.AddDocument([]string{"something"})
	idx.Rebuild(nil)

	assert.Equal(t, 0, idx.TotalDocuments())
	assert.Equal(t, 0, idx.Size())
}
