package exec

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if !CheckCommand("sh") {
		t.Skip("sh not available")
	}
}

func run(name string, args ...string) *Result {
	return Run(context.Background(), name, args, DefaultOptions())
}

func TestRunCapturesOutput(t *testing.T) {
	requireShell(t)

	res := run("sh", "-c", "echo out; echo err >&2")
	require.NoError(t, res.Err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.NoError(t, res.Error())
}

func TestRunExitCode(t *testing.T) {
	requireShell(t)

	res := run("sh", "-c", "echo broken >&2; exit 3")
	require.Error(t, res.Err)
	assert.Equal(t, 3, res.ExitCode)
	assert.ErrorContains(t, res.Error(), "broken")
}

func TestRunTimeout(t *testing.T) {
	requireShell(t)

	opts := DefaultOptions()
	opts.Timeout = 50 * time.Millisecond
	res := Run(context.Background(), "sh", []string{"-c", "sleep 5; echo late"}, opts)
	assert.Error(t, res.Err)
	assert.Less(t, res.Duration, 2*time.Second)
}

func TestRunDoesNotWaitForDetachedChildren(t *testing.T) {
	requireShell(t)

	res := run("sh", "-c", "sleep 5 & echo started")
	require.NoError(t, res.Err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Less(t, res.Duration, 2*time.Second)
}

func TestRunMissingCommand(t *testing.T) {
	res := run("definitely-not-a-command-startpage")
	assert.Error(t, res.Err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "xdg-open https://x", FormatCommand("xdg-open", []string{"https://x"}))
	assert.Equal(t, "c\nd", LastNLines("a\nb\nc\nd", 2))
	assert.Equal(t, "a", LastNLines("a", 3))
}
