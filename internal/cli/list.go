package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/whisperapp/whisper/internal/models"
)

func (a *App) printFiles(ctx context.Context, files []models.AudioFile) {
	snippets, err := a.tr.Snippets(ctx)
	if err != nil {
		a.log.Warn(ctx, "loading transcript snippets", "error", err)
	}

	for _, f := range files {
		local := " "
		if f.LocalPath != "" {
			local = "*"
		}
		badge := ""
		if s, ok := snippets[f.FileName]; ok {
			badge = " [" + s + "]"
		}
		fmt.Fprintf(os.Stdout, "%s %s (%s)%s\n", local, f.DisplayName(), f.FileName, badge)
	}
}

// List shows the cached view immediately and re-renders once the remote
// listing lands.
func (a *App) List(ctx context.Context) error {
	cached, authoritative := a.audio.Reconcile(ctx)

	printlnFn("--- cached ---")
	a.printFiles(ctx, cached)

	files := <-authoritative
	printlnFn("--- current ---")
	a.printFiles(ctx, files)

	return nil
}

// Play materializes a recording's bytes on device and prints the path a
// player can be pointed at.
func (a *App) Play(ctx context.Context) error {
	fileName, err := GetSimpleText(a.reader, "File name", os.Stdout)
	if err != nil {
		return err
	}

	path, err := a.audio.Materialize(ctx, fileName)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn("Ready to play:", path)
	return nil
}
