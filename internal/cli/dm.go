package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/whisperapp/whisper/internal/asset"
	"github.com/whisperapp/whisper/internal/common"
	"github.com/whisperapp/whisper/internal/models"
)

// contact resolves a saved contact by username, prompting for it.
func (a *App) contact(ctx context.Context) (*models.User, error) {
	username, err := GetSimpleText(a.reader, "Contact username", os.Stdout)
	if err != nil {
		return nil, err
	}

	u, err := a.directory.Contact(ctx, username)
	if errors.Is(err, common.ErrNotFound) {
		printlnFn("No such contact. Use adduser first.")
		return nil, err
	}
	if err != nil {
		printlnFn("Error:", err.Error())
		return nil, err
	}
	return u, nil
}

// SendDM sends a staged recording to a contact.
func (a *App) SendDM(ctx context.Context) error {
	u, err := a.contact(ctx)
	if err != nil {
		return err
	}

	fileName, err := GetSimpleText(a.reader, "File name", os.Stdout)
	if err != nil {
		return err
	}

	msg, err := a.dm.Send(ctx, filepath.Join(a.mediaDir, fileName),
		asset.Identity{Username: u.Username, UserID: u.UserID})
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn("Sent:", msg.MessageID)
	return nil
}

func (a *App) printMessages(msgs []models.Message) {
	for _, m := range msgs {
		direction := "<-"
		if m.SenderUserID == a.self.UserID {
			direction = "->"
		}
		local := " "
		if m.LocalPath != "" {
			local = "*"
		}
		fmt.Fprintf(os.Stdout, "%s%s %s %s\n", local, direction, m.CreatedAt.Format("2006-01-02 15:04:05"), m.AudioFileName)
	}
}

// ListDM shows a conversation, falling back to the cache when the
// metadata store is unreachable.
func (a *App) ListDM(ctx context.Context) error {
	u, err := a.contact(ctx)
	if err != nil {
		return err
	}

	msgs, err := a.dm.ListMessages(ctx, u.UserID)
	if err != nil {
		a.log.Warn(ctx, "remote conversation listing failed, using cache", "error", err)
		msgs, err = a.dm.CachedMessages(ctx, u.UserID)
		if err != nil {
			printlnFn("Error:", err.Error())
			return err
		}
		printlnFn("--- cached ---")
	}

	a.printMessages(msgs)
	return nil
}

// SyncDM pulls a conversation's message records into the cache.
func (a *App) SyncDM(ctx context.Context) error {
	u, err := a.contact(ctx)
	if err != nil {
		return err
	}

	if err := a.dm.SyncConversation(ctx, u.UserID); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn("Synced.")
	return nil
}
