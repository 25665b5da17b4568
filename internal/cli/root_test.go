package cli

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmpmail/internal/config"
)

func newTestCmd() (*bytes.Buffer, Deps) {
	return &bytes.Buffer{}, Deps{
		Config:  &config.Config{},
		Logger:  slog.Default(),
		Version: "test",
	}
}

func TestRootCmdArguments(t *testing.T) {
	t.Run("unknown flag is an error", func(t *testing.T) {
		buf, deps := newTestCmd()
		cmd := NewRootCmd(deps)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs([]string{"--definitely-not-a-flag"})

		assert.Error(t, cmd.Execute())
	})

	t.Run("non-numeric message id is an error", func(t *testing.T) {
		buf, deps := newTestCmd()
		cmd := NewRootCmd(deps)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs([]string{"not-a-number"})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "message id")
	})

	t.Run("exclusive mode flags cannot be combined", func(t *testing.T) {
		buf, deps := newTestCmd()
		cmd := NewRootCmd(deps)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs([]string{"-g", "-d"})

		assert.Error(t, cmd.Execute())
	})

	t.Run("version flag prints the version", func(t *testing.T) {
		buf, deps := newTestCmd()
		cmd := NewRootCmd(deps)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
		cmd.SetArgs([]string{"--version"})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, buf.String(), "test")
	})
}
