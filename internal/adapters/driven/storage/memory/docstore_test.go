package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
)

func TestDocumentStore_SaveDocument_InsertThenReplace(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	doc := &domain.Document{ID: "doc-1", Content: "first", CreatedAt: time.Now()}

	inserted, err := store.SaveDocument(ctx, doc)
	require.NoError(t, err)
	assert.True(t, inserted)

	doc.Content = "replaced"
	inserted, err = store.SaveDocument(ctx, doc)
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "replaced", got.Content)

	count, err := store.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	store := NewDocumentStore()

	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ListDocuments_NewestFirst(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"old", "mid", "new"} {
		_, err := store.SaveDocument(ctx, &domain.Document{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "new", docs[0].ID)
	assert.Equal(t, "old", docs[2].ID)
}

func TestDocumentStore_ListDocuments_EqualTimesLastInFirst(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	now := time.Now()

	for _, id := range []string{"first", "second", "third"} {
		_, err := store.SaveDocument(ctx, &domain.Document{ID: id, CreatedAt: now})
		require.NoError(t, err)
	}

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "third", docs[0].ID)
}

func TestDocumentStore_ListRecent(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	now := time.Now()

	_, _ = store.SaveDocument(ctx, &domain.Document{ID: "stale", CreatedAt: now.AddDate(0, 0, -40)})
	_, _ = store.SaveDocument(ctx, &domain.Document{ID: "recent-1", CreatedAt: now.AddDate(0, 0, -2)})
	_, _ = store.SaveDocument(ctx, &domain.Document{ID: "recent-2", CreatedAt: now.AddDate(0, 0, -1)})

	docs, err := store.ListRecent(ctx, now.AddDate(0, 0, -30), 0)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, "recent-2", docs[0].ID)

	capped, err := store.ListRecent(ctx, now.AddDate(0, 0, -30), 1)
	require.NoError(t, err)
	assert.Len(t, capped, 1)
}

func TestDocumentStore_Counts(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	now := time.Now()

	_, _ = store.SaveDocument(ctx, &domain.Document{
		ID: "a", Metadata: domain.Metadata{Type: "command-output"}, CreatedAt: now,
	})
	_, _ = store.SaveDocument(ctx, &domain.Document{
		ID: "b", Metadata: domain.Metadata{Type: "command-output"}, CreatedAt: now.AddDate(0, 0, -10),
	})
	_, _ = store.SaveDocument(ctx, &domain.Document{
		ID: "c", Metadata: domain.Metadata{Type: "chat"}, CreatedAt: now,
	})

	byType, err := store.CountByType(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"command-output": 2, "chat": 1}, byType)

	recent, err := store.CountSince(ctx, now.AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Equal(t, 2, recent)
}
