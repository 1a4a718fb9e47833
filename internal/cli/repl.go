package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Record(ctx context.Context) error
	Upload(ctx context.Context) error
	Play(ctx context.Context) error
	Rename(ctx context.Context) error
	Delete(ctx context.Context) error
	Transcribe(ctx context.Context) error
	SendDM(ctx context.Context) error
	ListDM(ctx context.Context) error
	SyncDM(ctx context.Context) error
	Search(ctx context.Context) error
	AddContact(ctx context.Context) error
	RemoveContact(ctx context.Context) error
	Contacts(ctx context.Context) error
}

// runREPL starts a read-eval-print loop for the Whisper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	help             — show available commands
//	list | l         — list broadcast recordings
//	record           — stage a new recording
//	upload           — upload a staged recording
//	play             — fetch a recording's bytes for playback
//	rename           — set a recording's display name
//	delete           — delete a recording everywhere
//	transcribe       — transcribe a recording
//	send             — send a voice message to a contact
//	msgs             — list a conversation
//	syncdm           — pull a conversation into the cache
//	search           — search the user directory
//	contacts         — list saved contacts
//	adduser          — add a directory user as a contact
//	rmuser           — remove a contact locally
//	exit | quit      — leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, username string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("whisper> %s > ", username))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands: (l)ist, record, upload, play, rename, delete, transcribe, send, msgs, syncdm, search, contacts, adduser, rmuser, exit")

		case "l", "list":
			_ = a.List(ctx)

		case "record":
			_ = a.Record(ctx)

		case "upload":
			_ = a.Upload(ctx)

		case "play":
			_ = a.Play(ctx)

		case "rename":
			_ = a.Rename(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "transcribe":
			_ = a.Transcribe(ctx)

		case "send":
			_ = a.SendDM(ctx)

		case "msgs":
			_ = a.ListDM(ctx)

		case "syncdm":
			_ = a.SyncDM(ctx)

		case "search":
			_ = a.Search(ctx)

		case "contacts":
			_ = a.Contacts(ctx)

		case "adduser":
			_ = a.AddContact(ctx)

		case "rmuser":
			_ = a.RemoveContact(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
