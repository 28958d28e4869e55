// Package records provides the client-side persistence layer for territory
// records.
//
// # Overview
//
// The package defines a Repository interface for durable CRUD over the
// local record collection (see internal/client/models) and a JSON-file
// implementation (FileRepository). The whole collection is serialized as a
// single document and rewritten atomically on every mutation: an O(total
// records) write cost in exchange for never persisting a partially written
// record.
//
// # Failure model
//
// A missing store file is an empty collection. An unparseable store file is
// also treated as an empty collection, reported through the
// common.ErrorStorageCorrupt sentinel so callers can log it; it is never
// fatal.
//
// Key Types
//
//   - type Repository      — interface used by higher-level services
//   - type FileRepository  — JSON-file implementation
//
// Typical Usage
//
//	repo := records.NewFileRepository(dir)
//	all, _ := repo.List(ctx)
//	_ = repo.Create(ctx, rec)
//	_ = repo.Update(ctx, id, patch)
//	_ = repo.Delete(ctx, id)
package records
