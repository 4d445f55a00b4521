// Package domain contains the core types of the opsrecall engine:
// documents, mined patterns, retrieval results, synthesized responses,
// and health insights. Types here have no dependencies on storage or
// transport; adapters translate to and from them.
package domain
