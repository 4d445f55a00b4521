package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Metadata describes an ingested document. Fields the engine reads for
// policy and scoring decisions are explicit; everything else the caller
// attaches travels in Extra.
type Metadata struct {
	// Type is a caller-defined label such as "command-output" or "chat".
	Type string `json:"type"`

	// Success records whether the operation that produced the text
	// succeeded. Nil means the caller did not say.
	Success *bool `json:"success,omitempty"`

	// Playbook names the automation job that produced the output, if any.
	Playbook string `json:"playbook,omitempty"`

	// Timestamp is an optional caller-supplied time label.
	Timestamp string `json:"timestamp,omitempty"`

	// Extra holds arbitrary additional key-value pairs.
	Extra map[string]any `json:"extra,omitempty"`
}

// Succeeded reports whether the metadata explicitly marks success.
func (m Metadata) Succeeded() bool {
	return m.Success != nil && *m.Success
}

// Failed reports whether the metadata explicitly marks failure.
func (m Metadata) Failed() bool {
	return m.Success != nil && !*m.Success
}

// Document is one ingested unit of text plus metadata plus derived
// keywords. Documents are never mutated after creation; re-ingesting
// identical content and metadata replaces the record under the same ID.
type Document struct {
	// ID is a deterministic hash of content and metadata.
	ID string

	// Content is the ingested text, after anonymization if that policy
	// was active at ingestion time.
	Content string

	// Metadata is the caller-supplied structured context.
	Metadata Metadata

	// Keywords is the derived, ordered keyword list. Terms may repeat;
	// frequency carries signal for similarity scoring.
	Keywords []string

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// DocumentID computes the deterministic ID for a (content, metadata)
// pair. Identical inputs always map to the same ID, which is what makes
// ingestion idempotent.
func DocumentID(content string, meta Metadata) string {
	// json.Marshal sorts map keys, so Extra serializes canonically.
	encoded, err := json.Marshal(meta)
	if err != nil {
		encoded = []byte(meta.Type)
	}
	h := sha256.New()
	h.Write([]byte(content))
	h.Write([]byte{0})
	h.Write(encoded)
	return hex.EncodeToString(h.Sum(nil))
}

// RetrievalResult is a single similarity hit. It is ephemeral and never
// persisted.
type RetrievalResult struct {
	// Document is the matched document.
	Document Document

	// Score is the TF-IDF similarity, always >= 0.
	Score float64

	// MatchingKeywords are the query terms found in the document.
	MatchingKeywords []string
}

// Statistics summarizes the current state of the engine's stores.
type Statistics struct {
	TotalDocuments  int
	VocabularySize  int
	DocumentsByType map[string]int
	RecentDocuments int // created within the last 7 days
	PatternsTracked int
}
