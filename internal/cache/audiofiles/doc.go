// Package audiofiles provides the cache persistence layer for broadcast
// audio assets.
//
// # Overview
//
// The package defines a Repository interface for upserting, querying and
// deleting AudioFile rows, plus ReplaceAll-style primitives used by the
// reconciliation engine to swap in an authoritative remote view. Rows are
// keyed by the immutable file name; Upsert is an explicit insert-or-update
// on that key, backed by the primary-key index, so concurrent writers
// cannot produce duplicate rows.
//
// Key Types
//
//   - type Repository        — contract used by higher-level services
//   - type SQLiteRepository  — SQLite implementation over dbx.DBTX
//
// Typical Usage
//
//	repo := audiofiles.NewSQLiteRepository(db)
//	_ = repo.Upsert(ctx, file)
//	all, _ := repo.GetAll(ctx)
package audiofiles
