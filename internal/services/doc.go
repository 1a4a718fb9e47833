// Package services implements the application core: reconciliation of the
// broadcast audio list, upload/rename/delete coordination across the blob
// store, metadata store and local cache, DM conversation handling, the
// transcription pipeline and directory search.
//
// Services are constructed with their dependencies; none of them hold
// global state. The local cache is treated as a non-authoritative
// projection: mutations keep it optimistically in step, and reconciliation
// repairs whatever drifted.
package services
