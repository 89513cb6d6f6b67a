// Package cli provides the interactive tablekeeper command-line client.
//
// It wires the session capability (services.SessionService) and the record
// view (records.RecordView) into a line-oriented REPL. Without a session
// only signup and login are offered; with one, the record table can be
// listed, searched, sorted, paged and edited.
//
// Every command that changes what is visible re-renders the table, so the
// screen always reflects the current view state.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
