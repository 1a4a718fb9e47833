package cli

import (
	"context"
	"errors"
	"os"

	"github.com/whisperapp/whisper/internal/common"
)

// Search looks up directory usernames by prefix.
func (a *App) Search(ctx context.Context) error {
	prefix, err := GetSimpleText(a.reader, "Username prefix", os.Stdout)
	if err != nil {
		return err
	}

	names, err := a.directory.Search(ctx, prefix)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	if len(names) == 0 {
		printlnFn("No matches.")
		return nil
	}
	for _, name := range names {
		printlnFn(name)
	}
	return nil
}

// AddContact resolves a directory user and saves them locally.
func (a *App) AddContact(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", os.Stdout)
	if err != nil {
		return err
	}

	u, err := a.directory.AddContact(ctx, username)
	switch {
	case errors.Is(err, common.ErrNotFound):
		printlnFn("No such user.")
	case err != nil:
		printlnFn("Error:", err.Error())
	default:
		printlnFn("Added:", u.Username)
	}
	return err
}

// RemoveContact removes a contact and its cached conversation. Local only.
func (a *App) RemoveContact(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.dm.RemoveContact(ctx, username); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn("Removed.")
	return nil
}

// Contacts lists saved contacts.
func (a *App) Contacts(ctx context.Context) error {
	contacts, err := a.directory.Contacts(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	for _, c := range contacts {
		printlnFn(c.Username)
	}
	return nil
}
