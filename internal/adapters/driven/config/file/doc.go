// Package file implements TOML-backed configuration storage.
//
// Settings live in a single config.toml under the opsrecall config
// directory. Nested tables are flattened into dot-notation keys
// (privacy.anonymize, storage.data_dir) so callers address settings
// uniformly regardless of how they were written.
package file
