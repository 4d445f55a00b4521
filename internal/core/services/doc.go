// Package services implements the core business logic for the engine:
// document ingestion with privacy gates and pattern mining, TF-IDF
// similarity retrieval, rule-based response synthesis, and health
// insight aggregation.
//
// Services depend only on driven port interfaces and are wired with
// concrete adapters (SQLite, TOML config) by the embedding application.
// Per the engine contract, no public operation propagates storage
// errors to the caller: faults are logged and converted into empty or
// neutral results.
package services
