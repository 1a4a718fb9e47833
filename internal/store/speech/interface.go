// Package speech adapts the speech-to-text service that turns downloaded
// audio into transcript text.
package speech

import "context"

// Recognizer is the speech-to-text contract. Transcription is single-shot
// per request: only the final result is returned, partial hypotheses are
// discarded by the implementation.
type Recognizer interface {
	// Available reports whether the recognizer can accept requests for
	// the configured locale. Must be checked before Transcribe.
	Available(ctx context.Context) error

	// Transcribe submits the local audio file and returns the final
	// transcript text.
	Transcribe(ctx context.Context, localPath string, locale string) (string, error)
}
