// Package blob adapts the remote blob store that holds raw audio and
// transcript bytes.
//
// # Overview
//
// The Store interface covers the five operations the sync engine needs:
// prefix listing, tagged upload, tag read/update, deletion, and presigned
// retrieval URLs. The S3 implementation targets an S3-compatible endpoint
// (MinIO in development) configured with static credentials, the same way
// the rest of the infrastructure provisions it.
//
// Object tags are a typed schema (Tags), validated at this boundary:
// absent or unknown tag entries decode to empty fields, never to dynamic
// key/value bags.
package blob
