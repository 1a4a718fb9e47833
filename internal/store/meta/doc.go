// Package meta adapts the remote metadata store: structured, queryable
// records about assets, directory users and DM messages.
//
// # Overview
//
// Three logical collections back the Store interface: audio metadata keyed
// by asset file name, the user directory keyed by user id, and DM message
// records partitioned by conversation key. The Postgres implementation
// runs over a dbx.DBTX and ships its schema as embedded goose migrations.
//
// The engine never treats this store as the authority for audio tags (the
// blob store's own tags win during reconciliation); the metadata record is
// a query-friendly projection written alongside each upload.
package meta
