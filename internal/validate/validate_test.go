package validate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iiroan/startpage/internal/config"
	"github.com/iiroan/startpage/internal/kv"
	"github.com/iiroan/startpage/internal/prefs"
)

func statuses(r Result) []Status {
	out := make([]Status, len(r.Items))
	for i, item := range r.Items {
		out[i] = item.Status
	}
	return out
}

func TestConfigMissingIsPending(t *testing.T) {
	r := Config(context.Background(), filepath.Join(t.TempDir(), "config.yaml"))

	assert.True(t, r.OK())
	assert.Equal(t, []Status{StatusPending}, statuses(r))
}

func TestConfigValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.DefaultConfig().Save(path))

	r := Config(context.Background(), path)

	assert.True(t, r.OK())
	assert.Equal(t, []Status{StatusSuccess}, statuses(r))
	assert.Equal(t, "6 engines, 6 links", r.Items[0].Details)
}

func TestConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: redis\n"), 0o644))

	r := Config(context.Background(), path)

	assert.False(t, r.OK())
	assert.Equal(t, []Status{StatusError}, statuses(r))
}

func TestStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	r := Storage(context.Background(), kv.BackendFile, path)

	assert.True(t, r.OK())
	assert.Equal(t, []Status{StatusSuccess}, statuses(r))

	store, err := kv.OpenFile(path)
	require.NoError(t, err)
	_, ok, err := store.Get(probeKey)
	require.NoError(t, err)
	assert.False(t, ok, "probe key is cleaned up")
}

func TestStorageCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2"), 0o644))

	r := Storage(context.Background(), kv.BackendFile, path)

	assert.False(t, r.OK())
	assert.Equal(t, []Status{StatusError}, statuses(r))
	assert.Contains(t, r.Items[0].Details, "moved aside")
}

func TestStorageUnknownBackend(t *testing.T) {
	r := Storage(context.Background(), "redis", "")

	assert.False(t, r.OK())
}

func TestRecords(t *testing.T) {
	opts := prefs.DefaultOptions()
	store := kv.NewMemory()
	require.NoError(t, store.Set(opts.Key, `{"theme":"dark","iconWidth":48,"iconHeight":48}`))
	require.NoError(t, store.Set(opts.LegacyKey, "light"))
	require.NoError(t, store.Set("searchData", `{not json`))

	r := Records(context.Background(), store, opts, "searchData")

	assert.True(t, r.OK())
	assert.Equal(t, []Status{StatusSuccess, StatusPending, StatusWarning}, statuses(r))
	assert.Len(t, r.Pending, 1)
	assert.Len(t, r.Warnings, 1)
}

func TestRecordsEmptyStore(t *testing.T) {
	r := Records(context.Background(), kv.NewMemory(), prefs.DefaultOptions(), "searchData")

	assert.True(t, r.OK())
	assert.Equal(t, []Status{StatusPending, StatusPending}, statuses(r))
}

func TestOpenerMissingCommand(t *testing.T) {
	r := Opener(context.Background(), config.OpenerConfig{Command: "definitely-not-a-real-opener"})

	assert.False(t, r.OK())
	assert.Equal(t, []Status{StatusError}, statuses(r))
}

func TestMerge(t *testing.T) {
	var total Result
	a := Result{}
	a.AddItem(StatusSuccess, "a", "")
	b := Result{}
	b.AddItem(StatusError, "b", "")
	b.AddError("b failed")

	total.Merge(a)
	total.Merge(b)

	assert.Len(t, total.Items, 2)
	assert.False(t, total.OK())
}
