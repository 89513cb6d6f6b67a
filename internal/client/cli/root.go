package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	acc, ok := a.sessions.Current()
	if !ok {
		return ""
	}
	return fmt.Sprintf("(%s)", acc.Name)
}

// Root prints the greeting and runs the REPL over the app's input.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to tablekeeper (type 'help' for commands)")
	if acc, ok := a.sessions.Current(); ok {
		printlnFn("Logged in as", acc.Name)
	}
	a.log.Debug(ctx, "repl started", "page_size", a.config.PageSize, "signup_mode", a.config.SignupMode)
	runREPL(ctx, a, a.getStatus, a.reader)
	a.log.Debug(ctx, "repl finished")
}
