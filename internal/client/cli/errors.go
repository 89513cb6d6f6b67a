package cli

import (
	"errors"

	"github.com/dmitrijs2005/tablekeeper/internal/common"
)

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrRequiredInput    = errors.New("all fields are required")
	ErrNotEditing       = errors.New("no record is being edited; use edit <id> first")
)

// describe maps errors from the core to the text shown in the REPL.
func describe(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, common.ErrDuplicateAccount):
		return "an account with this email already exists"
	case errors.Is(err, common.ErrNotFound):
		return "no record with that id"
	case errors.Is(err, common.ErrStorage):
		return "could not save changes: " + err.Error()
	}
	return err.Error()
}
