package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tablekeeper/internal/client/models"
	"github.com/dmitrijs2005/tablekeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup prompts for name, email and a password entered twice, then creates
// the account through the SessionService.
//
// Mismatched passwords are refused before the service is called. In manual
// signup mode the user is told to log in; in auto-login mode the new
// session is announced. Password buffers are wiped before returning.
func (a *App) Signup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.out, "Confirm password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if name == "" || email == "" || len(password) == 0 {
		return ErrRequiredInput
	}
	if !bytes.Equal(password, confirm) {
		return ErrPasswordMismatch
	}

	acc, err := a.sessions.Signup(ctx, models.Profile{Name: name, Email: email}, password)
	if err != nil {
		return err
	}

	if cur, ok := a.sessions.Current(); ok && cur.Email == acc.Email {
		fmt.Fprintf(a.out, "Account created. Logged in as %s\n", acc.Name)
		return a.List(ctx)
	}
	fmt.Fprintf(a.out, "Account created for %s. Please log in.\n", acc.Email)
	return nil
}

// Login prompts for credentials and opens a session. On success the first
// page of records is shown.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sessions.Login(ctx, email, password); err != nil {
		return err
	}

	acc, _ := a.sessions.Current()
	fmt.Fprintf(a.out, "Welcome, %s\n", acc.Name)
	return a.List(ctx)
}

// Logout ends the session and drops any unfinished edit.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Logout(ctx); err != nil {
		return err
	}
	a.view.CancelEdit()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// DeleteAccount removes the current account after the user types "yes".
func (a *App) DeleteAccount(ctx context.Context) error {
	acc, ok := a.sessions.Current()
	if !ok {
		return nil
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete account %s? Type 'yes' to confirm", acc.Email), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.sessions.DeleteAccount(ctx); err != nil {
		return err
	}
	a.view.CancelEdit()
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}

// Reset wipes every stored account after the user types "yes". It is only
// offered to guests.
func (a *App) Reset(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Remove all accounts from this machine? Type 'yes' to confirm", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.sessions.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "All accounts removed")
	return nil
}

// WhoAmI prints the profile of the session account.
func (a *App) WhoAmI(ctx context.Context) error {
	acc, ok := a.sessions.Current()
	if !ok {
		return common.ErrMissingSession
	}
	fmt.Fprintf(a.out, "Name:  %s\nEmail: %s\n", acc.Name, acc.Email)
	return nil
}
