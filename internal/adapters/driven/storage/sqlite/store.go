package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/fathomlabs/opsrecall/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/fathomlabs/opsrecall/internal/core/domain"
	"github.com/fathomlabs/opsrecall/internal/core/ports/driven"
	"github.com/fathomlabs/opsrecall/internal/logger"
)

// Store is a unified SQLite-based storage that provides access to the
// document and pattern store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.opsrecall/data/recall.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".opsrecall", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "recall.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// PatternStore returns a PatternStore interface backed by this store.
func (s *Store) PatternStore() driven.PatternStore {
	return &patternStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument inserts or replaces a document by ID. The returned flag
// is true only for a true insert.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) (bool, error) {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return false, fmt.Errorf("marshalling metadata: %w", err)
	}
	keywordsJSON, err := json.Marshal(doc.Keywords)
	if err != nil {
		return false, fmt.Errorf("marshalling keywords: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE id = ?", doc.ID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking document existence: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, content, metadata, keywords, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			metadata = excluded.metadata,
			keywords = excluded.keywords,
			created_at = excluded.created_at
	`, doc.ID, doc.Content, string(metadataJSON), string(keywordsJSON), doc.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("saving document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing transaction: %w", err)
	}
	return exists == 0, nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, content, metadata, keywords, created_at
		FROM documents WHERE id = ?
	`, id)

	var doc domain.Document
	var metadataJSON, keywordsJSON string
	if err := row.Scan(&doc.ID, &doc.Content, &metadataJSON, &keywordsJSON, &doc.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshaling metadata: %w", err)
	}
	if err := json.Unmarshal([]byte(keywordsJSON), &doc.Keywords); err != nil {
		return nil, fmt.Errorf("unmarshaling keywords: %w", err)
	}

	return &doc, nil
}

// ListDocuments returns all documents, newest first. Records with
// corrupt serialized fields are skipped so one bad row cannot abort a
// full-corpus scan.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, content, metadata, keywords, created_at
		FROM documents
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// ListRecent returns up to limit documents created at or after since,
// newest first.
func (s *documentStore) ListRecent(ctx context.Context, since time.Time, limit int) ([]domain.Document, error) {
	query := `
		SELECT id, content, metadata, keywords, created_at
		FROM documents
		WHERE created_at >= ?
		ORDER BY created_at DESC, rowid DESC
	`
	args := []any{since}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying recent documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// CountDocuments returns the total number of stored documents.
func (s *documentStore) CountDocuments(ctx context.Context) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// CountByType returns document counts grouped by metadata type.
func (s *documentStore) CountByType(ctx context.Context) (map[string]int, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT json_extract(metadata, '$.type'), COUNT(*)
		FROM documents
		GROUP BY json_extract(metadata, '$.type')
	`)
	if err != nil {
		return nil, fmt.Errorf("counting documents by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var docType sql.NullString
		var count int
		if err := rows.Scan(&docType, &count); err != nil {
			return nil, fmt.Errorf("scanning type count: %w", err)
		}
		counts[docType.String] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating type counts: %w", err)
	}

	return counts, nil
}

// CountSince returns the number of documents created at or after since.
func (s *documentStore) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE created_at >= ?", since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting recent documents: %w", err)
	}
	return count, nil
}

// scanDocuments scans document rows, skipping records whose serialized
// fields cannot be decoded.
func scanDocuments(rows *sql.Rows) ([]domain.Document, error) {
	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		var metadataJSON, keywordsJSON string
		if err := rows.Scan(&doc.ID, &doc.Content, &metadataJSON, &keywordsJSON, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			logger.Warn("Skipping document %s: corrupt metadata: %v", doc.ID, err)
			continue
		}
		if err := json.Unmarshal([]byte(keywordsJSON), &doc.Keywords); err != nil {
			logger.Warn("Skipping document %s: corrupt keywords: %v", doc.ID, err)
			continue
		}

		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// ==================== Pattern Store ====================

// patternStore implements driven.PatternStore.
type patternStore struct {
	store *Store
}

var _ driven.PatternStore = (*patternStore)(nil)

// RecordPattern upserts one extracted pattern occurrence: new patterns
// start at frequency 1, known ones get frequency+1 and a newer
// last_seen. first_seen is never rewritten.
func (s *patternStore) RecordPattern(
	ctx context.Context, patternType domain.PatternType, text string, now time.Time,
) (*domain.Pattern, error) {
	id := domain.PatternID(patternType, text)

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO patterns (id, pattern_type, pattern_text, frequency, first_seen, last_seen)
		VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			frequency = frequency + 1,
			last_seen = excluded.last_seen
	`, id, string(patternType), text, now, now)
	if err != nil {
		return nil, fmt.Errorf("recording pattern: %w", err)
	}

	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, pattern_type, pattern_text, frequency, success_rate, first_seen, last_seen
		FROM patterns WHERE id = ?
	`, id)

	return scanPattern(row)
}

// ListByFrequency returns patterns with frequency >= minFrequency,
// ordered by frequency descending then last_seen descending.
func (s *patternStore) ListByFrequency(ctx context.Context, minFrequency, limit int) ([]domain.Pattern, error) {
	query := `
		SELECT id, pattern_type, pattern_text, frequency, success_rate, first_seen, last_seen
		FROM patterns
		WHERE frequency >= ?
		ORDER BY frequency DESC, last_seen DESC
	`
	args := []any{minFrequency}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying patterns: %w", err)
	}
	defer rows.Close()

	var patterns []domain.Pattern //nolint:prealloc // size unknown from query
	for rows.Next() {
		var p domain.Pattern
		var patternType string
		if err := rows.Scan(&p.ID, &patternType, &p.Text, &p.Frequency,
			&p.SuccessRate, &p.FirstSeen, &p.LastSeen); err != nil {
			return nil, fmt.Errorf("scanning pattern: %w", err)
		}
		p.Type = domain.PatternType(patternType)
		patterns = append(patterns, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating patterns: %w", err)
	}

	return patterns, nil
}

// CountPatterns returns the total number of tracked patterns.
func (s *patternStore) CountPatterns(ctx context.Context) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM patterns").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting patterns: %w", err)
	}
	return count, nil
}

// scanPattern scans a single pattern row.
func scanPattern(row *sql.Row) (*domain.Pattern, error) {
	var p domain.Pattern
	var patternType string
	if err := row.Scan(&p.ID, &patternType, &p.Text, &p.Frequency,
		&p.SuccessRate, &p.FirstSeen, &p.LastSeen); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning pattern: %w", err)
	}
	p.Type = domain.PatternType(patternType)
	return &p, nil
}
