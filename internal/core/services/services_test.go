package services

import (
	"testing"

	"github.com/fathomlabs/opsrecall/internal/adapters/driven/storage/memory"
	"github.com/fathomlabs/opsrecall/internal/vocab"
)

// testEngine bundles the full service graph over in-memory stores.
type testEngine struct {
	docStore     *memory.DocumentStore
	patternStore *memory.PatternStore
	config       *memory.ConfigStore
	index        *vocab.Index
	ingest       *IngestService
	retrieval    *RetrievalService
	response     *ResponseService
	insights     *InsightService
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	e := &testEngine{
		docStore:     memory.NewDocumentStore(),
		patternStore: memory.NewPatternStore(),
		config:       memory.NewConfigStore(),
		index:        vocab.NewIndex(),
	}
	e.ingest = NewIngestService(e.docStore, e.patternStore, e.config, e.index)
	e.retrieval = NewRetrievalService(e.docStore, e.patternStore, e.index)
	e.response = NewResponseService(e.retrieval, e.ingest, e.patternStore)
	e.insights = NewInsightService(e.docStore)
	return e
}

func boolPtr(b bool) *bool { return &b }
