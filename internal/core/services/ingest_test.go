package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
)

func TestAddDocument_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	meta := domain.Metadata{Type: "command-output", Success: boolPtr(false)}

	id1, stored := e.ingest.AddDocument(ctx, "fatal: disk full on /var", meta)
	require.True(t, stored)
	require.NotEmpty(t, id1)

	id2, stored := e.ingest.AddDocument(ctx, "fatal: disk full on /var", meta)
	require.True(t, stored)
	assert.Equal(t, id1, id2)

	count, err := e.docStore.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "re-ingesting identical input stores one record")
	assert.Equal(t, 1, e.index.TotalDocuments(), "replace must not inflate the corpus count")
}

func TestAddDocument_DistinctMetadataDistinctID(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	id1, _ := e.ingest.AddDocument(ctx, "same text", domain.Metadata{Type: "chat"})
	id2, _ := e.ingest.AddDocument(ctx, "same text", domain.Metadata{Type: "ops"})

	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, e.index.TotalDocuments())
}

func TestAddDocument_PrivacyGates(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, e.config.Set("privacy.store_chat_history", false))

	id, stored := e.ingest.AddDocument(ctx, "user asked about kubeconfig", domain.Metadata{Type: "chat"})
	assert.False(t, stored)
	assert.Empty(t, id)

	count, err := e.docStore.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "a declined document leaves no side effects")
	assert.Zero(t, e.index.TotalDocuments())

	// Other types pass the gate untouched.
	_, stored = e.ingest.AddDocument(ctx, "some ops note", domain.Metadata{Type: "ops"})
	assert.True(t, stored)
}

func TestAddDocument_CommandOutputGate(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, e.config.Set("privacy.store_command_output", false))

	_, stored := e.ingest.AddDocument(ctx, "PLAY RECAP ...", domain.Metadata{Type: "command-output"})
	assert.False(t, stored)
}

func TestAddDocument_GatesDefaultToAllow(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, stored := e.ingest.AddDocument(ctx, "hello", domain.Metadata{Type: "chat"})
	assert.True(t, stored)
	_, stored = e.ingest.AddDocument(ctx, "output", domain.Metadata{Type: "command-output"})
	assert.True(t, stored)
}

func TestAddDocument_AnonymizeBeforeHashing(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, e.config.Set("privacy.anonymize", true))
	meta := domain.Metadata{Type: "command-output"}

	id, stored := e.ingest.AddDocument(ctx, "ssh root@192.168.1.20 failed for admin@example.com", meta)
	require.True(t, stored)

	doc, err := e.docStore.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.NotContains(t, doc.Content, "192.168.1.20")
	assert.NotContains(t, doc.Content, "admin@example.com")
	assert.Contains(t, doc.Content, "REDACTED_IP")

	// The ID is computed over the scrubbed text, so the scrubbed form
	// re-ingested with anonymization off maps to the same document.
	require.NoError(t, e.config.Set("privacy.anonymize", false))
	id2, _ := e.ingest.AddDocument(ctx, doc.Content, meta)
	assert.Equal(t, id, id2)

	// Keywords index the placeholders, not the original values.
	joined := strings.Join(doc.Keywords, " ")
	assert.Contains(t, joined, "redacted")
	assert.NotContains(t, joined, "192")
}

func TestAddDocument_MinesPatterns(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	output := "fatal: snap command not found\nTry: sudo apt install snapd\n"
	_, stored := e.ingest.AddDocument(ctx, output, domain.Metadata{Type: "command-output", Success: boolPtr(false)})
	require.True(t, stored)

	patterns, err := e.patternStore.ListByFrequency(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, patterns, 2)

	byType := map[domain.PatternType]string{}
	for _, p := range patterns {
		byType[p.Type] = p.Text
	}
	assert.Equal(t, "fatal: snap command not found", byType[domain.PatternError])
	assert.Equal(t, "Try: sudo apt install snapd", byType[domain.PatternSolution])
}

func TestAddDocument_PatternFrequencyAcrossIngestions(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		// Vary the surrounding text so each call is a distinct document
		// but mines the same literal error.
		content := strings.Repeat("x ", i) + "Connection refused"
		_, stored := e.ingest.AddDocument(ctx, content, domain.Metadata{Type: "command-output"})
		require.True(t, stored)
	}

	patterns, err := e.patternStore.ListByFrequency(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, 3, patterns[0].Frequency)
	assert.False(t, patterns[0].LastSeen.Before(patterns[0].FirstSeen))
}
