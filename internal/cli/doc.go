// Package cli provides the interactive Whisper command-line client.
//
// It wires configuration, the local cache, the remote stores and an
// interactive REPL. The list view renders the cached state first and
// re-renders when the remote listing lands, so the app stays usable when
// the stores are unreachable.
//
// Key features:
//   - List / record / upload / rename / delete broadcast recordings
//   - Materialize audio bytes on demand for playback
//   - Transcribe recordings and show transcript snippets
//   - Send and browse direct voice messages per contact
//   - Search the user directory and manage local contacts
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
