package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tablekeeper/internal/common"
)

func TestRootCommand_RunsREPL(t *testing.T) {
	out := capturePrintln(t)

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader("help\nexit\n"))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--db", ":memory:", "--log-level", "debug"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, *out, guestHelp)
	assert.Contains(t, stderr.String(), "run_id=")
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--db", ":memory:", "--page-size", "0"})

	err := cmd.ExecuteContext(context.Background())
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})
	require.Error(t, cmd.ExecuteContext(context.Background()))
}
