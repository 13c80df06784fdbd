package command_test

import (
	"context"
	"testing"

	"github.com/meelinux/sssdcfg/internal/adapters/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealRunner_Run(t *testing.T) {
	t.Parallel()

	runner := command.NewRealRunner()

	result, err := runner.Run(context.Background(), "echo", "hello")

	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Contains(t, result.Stdout, "hello")
}

func TestRealRunner_Run_NonZeroExit(t *testing.T) {
	t.Parallel()

	runner := command.NewRealRunner()

	result, err := runner.Run(context.Background(), "false")

	require.NoError(t, err)
	assert.False(t, result.Success())
	assert.NotZero(t, result.ExitCode)
}

func TestRealRunner_Run_CommandNotFound(t *testing.T) {
	t.Parallel()

	runner := command.NewRealRunner()

	_, err := runner.Run(context.Background(), "definitely-not-a-command-xyz")

	require.Error(t, err)
}
