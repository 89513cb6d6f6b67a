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
	isLoggedIn() bool

	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	Reset(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	List(ctx context.Context) error
	Search(ctx context.Context, text string) error
	Sort(ctx context.Context, field string) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	GoToPage(ctx context.Context, page string) error
	Add(ctx context.Context, args []string) error
	Edit(ctx context.Context, id string) error
	Set(ctx context.Context, args []string) error
	Update(ctx context.Context) error
	Cancel(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}

const (
	guestHelp = "Available commands: signup, login, reset, exit"
	userHelp  = "Available commands: (l)ist, search [text], sort [field], next, prev, page <n>, " +
		"add [field=value ...], edit <id>, set field=value ..., update, cancel, delete <id>, " +
		"whoami, logout, deleteaccount, exit"
)

// runREPL starts a simple read-eval-print loop for the tablekeeper CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user
// types "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help                   show available commands
//	  - signup                 create an account
//	  - login                  authenticate
//	  - reset                  remove every stored account
//	  - exit | quit            leave the program
//
//	Logged in:
//	  - l | list               show the current page
//	  - search [text]          filter rows by the rest of the line; no text clears the filter
//	  - sort [field]           sort by id, name, email or role; again flips the order; none clears
//	  - next | prev | page n   move between pages
//	  - add [field=value ...]  add a record (prompts when no values are given)
//	  - edit <id>              load a record into the form
//	  - set field=value ...    change the form
//	  - update | cancel        save or drop the edit
//	  - delete <id>            remove a record
//	  - whoami | logout | deleteaccount
//
// Errors returned by command handlers are reported through printlnFn and
// never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("tk %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd))

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		var cmdErr error
		if a.isLoggedIn() {
			cmdErr = dispatchUser(ctx, a, cmd, args, rest)
		} else {
			cmdErr = dispatchGuest(ctx, a, cmd)
		}
		if cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
		}
	}
}

func dispatchGuest(ctx context.Context, a execIface, cmd string) error {
	switch cmd {
	case "help":
		printlnFn(guestHelp)
	case "signup", "register":
		return a.Signup(ctx)
	case "login":
		return a.Login(ctx)
	case "reset":
		return a.Reset(ctx)
	default:
		if isUserCommand(cmd) {
			printlnFn("Please log in first")
			return nil
		}
		printlnFn("Unknown command:", cmd)
	}
	return nil
}

// rest is the line after the command with inner spacing kept; search
// matches it literally.
func dispatchUser(ctx context.Context, a execIface, cmd string, args []string, rest string) error {
	switch cmd {
	case "help":
		printlnFn(userHelp)
	case "l", "list":
		return a.List(ctx)
	case "search":
		return a.Search(ctx, rest)
	case "sort":
		return a.Sort(ctx, strings.Join(args, " "))
	case "next":
		return a.NextPage(ctx)
	case "prev":
		return a.PrevPage(ctx)
	case "page":
		if len(args) != 1 {
			printlnFn("Usage: page <n>")
			return nil
		}
		return a.GoToPage(ctx, args[0])
	case "add":
		return a.Add(ctx, args)
	case "edit":
		if len(args) != 1 {
			printlnFn("Usage: edit <id>")
			return nil
		}
		return a.Edit(ctx, args[0])
	case "set":
		if len(args) == 0 {
			printlnFn("Usage: set field=value ...")
			return nil
		}
		return a.Set(ctx, args)
	case "update":
		return a.Update(ctx)
	case "cancel":
		return a.Cancel(ctx)
	case "delete":
		if len(args) != 1 {
			printlnFn("Usage: delete <id>")
			return nil
		}
		return a.Delete(ctx, args[0])
	case "whoami":
		return a.WhoAmI(ctx)
	case "logout":
		return a.Logout(ctx)
	case "deleteaccount":
		return a.DeleteAccount(ctx)
	case "signup", "register", "login", "reset":
		printlnFn("Already logged in; logout first")
	default:
		printlnFn("Unknown command:", cmd)
	}
	return nil
}

func isUserCommand(cmd string) bool {
	switch cmd {
	case "l", "list", "search", "sort", "next", "prev", "page", "add", "edit", "set",
		"update", "cancel", "delete", "whoami", "logout", "deleteaccount":
		return true
	}
	return false
}
