package cli

import (
	"context"
	"errors"
	"os"

	"github.com/whisperapp/whisper/internal/common"
)

// Transcribe runs the transcription pipeline for one recording. A cached
// transcript is shown without re-running the recognizer.
func (a *App) Transcribe(ctx context.Context) error {
	fileName, err := GetSimpleText(a.reader, "File name", os.Stdout)
	if err != nil {
		return err
	}

	if text, err := a.tr.CachedText(ctx, fileName); err == nil {
		printlnFn("Transcript (cached):", text)
		return nil
	}

	text, err := a.tr.Run(ctx, fileName)
	switch {
	case errors.Is(err, common.ErrTranscriptionUnavailable):
		printlnFn("Transcription is not available. Check the recognizer configuration.")
	case errors.Is(err, common.ErrTranscriptionRunning):
		printlnFn("Transcription for this recording is already running.")
	case err != nil:
		printlnFn("Error:", err.Error())
	default:
		printlnFn("Transcript:", text)
	}
	return err
}
