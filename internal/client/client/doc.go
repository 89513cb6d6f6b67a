// Package client bootstraps local persistence for the tablekeeper CLI:
// it opens the SQLite database (pure-Go modernc driver) and applies the
// embedded goose migrations.
//
// # Error Handling
//
// Driver and migration failures are wrapped with context and returned;
// nothing here panics.
package client
