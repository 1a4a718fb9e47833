package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/whisperapp/whisper/internal/asset"
)

// Record stages a new recording under a fresh timestamp-derived name.
// Actual audio capture happens outside the app; the staged file is a
// placeholder the device recorder overwrites.
func (a *App) Record(ctx context.Context) error {
	name := asset.NewName(time.Now())
	path := filepath.Join(a.mediaDir, name)

	if err := os.WriteFile(path, nil, 0o600); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn("Staged recording:", path)
	return nil
}

// Upload pushes a staged recording to the remote stores.
func (a *App) Upload(ctx context.Context) error {
	fileName, err := GetSimpleText(a.reader, "File name", os.Stdout)
	if err != nil {
		return err
	}
	customName, err := GetSimpleText(a.reader, "Display name (empty to keep the file name)", os.Stdout)
	if err != nil {
		return err
	}

	file, err := a.audio.Upload(ctx, filepath.Join(a.mediaDir, fileName), customName)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn("Uploaded:", file.DisplayName())
	return nil
}
