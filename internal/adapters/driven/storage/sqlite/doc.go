// Package sqlite provides the durable storage adapter for documents and
// mined patterns, backed by modernc.org/sqlite (pure Go, no cgo).
//
// Documents and patterns live in one database file under the data
// directory. The store owns a single database handle for its lifetime;
// callers open it once at startup and close it on shutdown. Access is
// assumed single-writer: concurrent ingestion from multiple processes
// must be serialized by the embedding application.
package sqlite
