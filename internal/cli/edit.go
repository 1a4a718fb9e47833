package cli

import (
	"context"
	"errors"
	"os"

	"github.com/whisperapp/whisper/internal/common"
)

// Rename sets a recording's display name.
func (a *App) Rename(ctx context.Context) error {
	fileName, err := GetSimpleText(a.reader, "File name", os.Stdout)
	if err != nil {
		return err
	}
	newName, err := GetSimpleText(a.reader, "New display name", os.Stdout)
	if err != nil {
		return err
	}

	err = a.audio.Rename(ctx, fileName, newName)
	switch {
	case errors.Is(err, common.ErrEmptyName):
		printlnFn("The name cannot be empty.")
	case errors.Is(err, common.ErrDuplicateName):
		printlnFn("That name is already taken.")
	case err != nil:
		printlnFn("Error:", err.Error())
	default:
		printlnFn("Renamed.")
	}
	return err
}

// Delete removes a recording everywhere.
func (a *App) Delete(ctx context.Context) error {
	fileName, err := GetSimpleText(a.reader, "File name", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.audio.Delete(ctx, fileName); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn("Deleted.")
	return nil
}
