// Package common defines shared constants and sentinel errors used across
// the Whisper sync engine. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository / remote lookup errors.
	ErrNotFound = errors.New("not found")

	// Rename validation errors.
	ErrDuplicateName = errors.New("name already exists")
	ErrEmptyName     = errors.New("name cannot be empty")

	// Transcription pipeline errors.
	ErrTranscriptionUnavailable = errors.New("speech recognizer unavailable")
	ErrTranscriptionRunning     = errors.New("transcription already in progress")

	// Remote store I/O failure, blob or metadata. Wrapped around the
	// underlying error so callers can still inspect the cause.
	ErrStoreFailure = errors.New("remote store failure")
)
