package services

import (
	"context"
	"time"

	"github.com/fathomlabs/opsrecall/internal/core/domain"
	"github.com/fathomlabs/opsrecall/internal/core/ports/driven"
	"github.com/fathomlabs/opsrecall/internal/core/ports/driving"
	"github.com/fathomlabs/opsrecall/internal/keywords"
	"github.com/fathomlabs/opsrecall/internal/logger"
	"github.com/fathomlabs/opsrecall/internal/metrics"
	"github.com/fathomlabs/opsrecall/internal/mining"
	"github.com/fathomlabs/opsrecall/internal/redact"
	"github.com/fathomlabs/opsrecall/internal/vocab"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// Config keys consulted on every ingestion. Gates default to allow when
// the key is absent; anonymization defaults to off.
const (
	keyStoreChatHistory   = "privacy.store_chat_history"
	keyStoreCommandOutput = "privacy.store_command_output"
	keyAnonymize          = "privacy.anonymize"
)

// IngestService stores documents and mines patterns from them.
type IngestService struct {
	docStore     driven.DocumentStore
	patternStore driven.PatternStore
	config       driven.ConfigStore
	index        *vocab.Index
}

// NewIngestService creates a new ingest service. The config store is
// optional; a nil config means every privacy gate allows and
// anonymization is off.
func NewIngestService(
	docStore driven.DocumentStore,
	patternStore driven.PatternStore,
	config driven.ConfigStore,
	index *vocab.Index,
) *IngestService {
	return &IngestService{
		docStore:     docStore,
		patternStore: patternStore,
		config:       config,
		index:        index,
	}
}

// AddDocument stores content plus metadata, updating the vocabulary
// index on a true insert and recording mined patterns. A privacy gate
// declining the document returns ("", false) with no side effects, as
// does a storage failure.
func (s *IngestService) AddDocument(ctx context.Context, content string, meta domain.Metadata) (string, bool) {
	now := time.Now().UTC()

	if !s.gateAllows(meta.Type) {
		logger.Debug("Ingestion declined by privacy gate for type %q", meta.Type)
		metrics.DocumentsSkipped.Inc()
		return "", false
	}

	if s.boolSetting(keyAnonymize) {
		content = redact.Scrub(content)
	}

	doc := &domain.Document{
		ID:        domain.DocumentID(content, meta),
		Content:   content,
		Metadata:  meta,
		Keywords:  keywords.Extract(content),
		CreatedAt: now,
	}

	inserted, err := s.docStore.SaveDocument(ctx, doc)
	if err != nil {
		logger.Warn("Store document: %v", err)
		metrics.StorageFailures.Inc()
		return "", false
	}

	if inserted {
		s.index.AddDocument(doc.Keywords)
		metrics.DocumentsIngested.Inc()
		logger.Debug("Stored document %s (%d keywords)", doc.ID, len(doc.Keywords))
	} else {
		logger.Debug("Document %s already stored, replaced in place", doc.ID)
	}

	s.minePatterns(ctx, content, now)

	return doc.ID, true
}

// gateAllows evaluates the privacy gate for a metadata type. Only the
// chat and command-output types are gated; unknown types always store.
func (s *IngestService) gateAllows(docType string) bool {
	switch docType {
	case "chat":
		return s.gateSetting(keyStoreChatHistory)
	case "command-output":
		return s.gateSetting(keyStoreCommandOutput)
	default:
		return true
	}
}

// gateSetting reads a gate key, defaulting to allow when the key is
// absent or not a boolean.
func (s *IngestService) gateSetting(key string) bool {
	if s.config == nil {
		return true
	}
	val, ok := s.config.Get(key)
	if !ok {
		return true
	}
	b, isBool := val.(bool)
	if !isBool {
		return true
	}
	return b
}

// boolSetting reads an opt-in key, defaulting to off.
func (s *IngestService) boolSetting(key string) bool {
	if s.config == nil {
		return false
	}
	return s.config.GetBool(key)
}

// minePatterns extracts error and solution shapes from content and
// records each occurrence. Pattern storage failures are logged and do
// not affect the ingestion result.
func (s *IngestService) minePatterns(ctx context.Context, content string, now time.Time) {
	for _, text := range mining.ExtractErrors(content) {
		if _, err := s.patternStore.RecordPattern(ctx, domain.PatternError, text, now); err != nil {
			logger.Warn("Record error pattern: %v", err)
			metrics.StorageFailures.Inc()
			continue
		}
		metrics.PatternsRecorded.Inc()
	}

	for _, text := range mining.ExtractSolutions(content) {
		if _, err := s.patternStore.RecordPattern(ctx, domain.PatternSolution, text, now); err != nil {
			logger.Warn("Record solution pattern: %v", err)
			metrics.StorageFailures.Inc()
			continue
		}
		metrics.PatternsRecorded.Inc()
	}
}
