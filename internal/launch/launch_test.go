package launch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iiroan/startpage/internal/config"
	"github.com/iiroan/startpage/internal/exec"
)

func newTestOpener(desktop bool) (*Opener, *[]string) {
	var opened []string
	o := New(config.OpenerConfig{}, 0, nil)
	o.openURL = func(u string) error {
		opened = append(opened, u)
		return nil
	}
	o.hasDesktop = func() bool { return desktop }
	return o, &opened
}

func TestOpenUsesBrowser(t *testing.T) {
	o, opened := newTestOpener(true)
	require.NoError(t, o.Open("https://www.google.com/search?q=go"))
	assert.Equal(t, []string{"https://www.google.com/search?q=go"}, *opened)
}

func TestOpenWithoutDesktop(t *testing.T) {
	o, opened := newTestOpener(false)
	err := o.Open("https://example.com")
	assert.True(t, errors.Is(err, ErrNoOpener))
	assert.Empty(t, *opened)
}

func TestOpenBrowserFailure(t *testing.T) {
	o, _ := newTestOpener(true)
	o.openURL = func(string) error { return errors.New("xdg-open missing") }
	assert.ErrorContains(t, o.Open("https://example.com"), "opening browser")
}

func TestOpenRejectsUnsupportedURLs(t *testing.T) {
	o, opened := newTestOpener(true)
	for _, target := range []string{"file:///etc/passwd", "javascript:alert(1)", "https://", "not a url"} {
		assert.Error(t, o.Open(target), target)
	}
	assert.Empty(t, *opened)
}

func TestCommandArgs(t *testing.T) {
	o := New(config.OpenerConfig{Command: "firefox", Args: []string{"--new-tab", "{url}"}}, 0, nil)
	assert.Equal(t, []string{"--new-tab", "https://x.example"}, o.commandArgs("https://x.example"))

	o = New(config.OpenerConfig{Command: "open", Args: []string{"-g"}}, 0, nil)
	assert.Equal(t, []string{"-g", "https://x.example"}, o.commandArgs("https://x.example"))
}

func TestOpenRunsConfiguredCommand(t *testing.T) {
	if !exec.CheckCommand("sh") {
		t.Skip("sh not available")
	}
	out := filepath.Join(t.TempDir(), "opened")
	o := New(config.OpenerConfig{
		Command: "sh",
		Args:    []string{"-c", `printf %s "$1" > "` + out + `"`, "opener", "{url}"},
	}, 0, nil)

	require.NoError(t, o.Open("https://example.com/?q=a%20b"))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/?q=a%20b", string(data))
}

func TestOpenCommandFailure(t *testing.T) {
	if !exec.CheckCommand("sh") {
		t.Skip("sh not available")
	}
	o := New(config.OpenerConfig{Command: "sh", Args: []string{"-c", "exit 1", "x"}}, 0, nil)
	assert.ErrorContains(t, o.Open("https://example.com"), "running opener")
}

func TestOpenCommandThatBackgroundsBrowser(t *testing.T) {
	if !exec.CheckCommand("sh") {
		t.Skip("sh not available")
	}
	o := New(config.OpenerConfig{Command: "sh", Args: []string{"-c", "sleep 3 & echo {url}"}}, 200*time.Millisecond, nil)

	start := time.Now()
	require.NoError(t, o.Open("https://example.com"))
	assert.Less(t, time.Since(start), 2*time.Second)
}
