package prefs

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iiroan/startpage/internal/kv"
)

// brokenStore fails every operation, like storage disabled in private mode.
type brokenStore struct{}

func (brokenStore) Get(string) (string, bool, error) { return "", false, errors.New("denied") }
func (brokenStore) Set(string, string) error         { return errors.New("denied") }
func (brokenStore) Delete(string) error              { return errors.New("denied") }

// writeFailStore reads from an inner store but rejects writes.
type writeFailStore struct{ *kv.Memory }

func (writeFailStore) Set(string, string) error { return errors.New("quota exceeded") }

func TestRangeClamp(t *testing.T) {
	r := Range{Min: 32, Max: 96}

	tests := []struct {
		name string
		in   float64
		want int
	}{
		{name: "in range", in: 64, want: 64},
		{name: "below", in: 1, want: 32},
		{name: "above", in: 200, want: 96},
		{name: "rounds", in: 47.6, want: 48},
		{name: "nan", in: math.NaN(), want: 32},
		{name: "inf", in: math.Inf(1), want: 32},
		{name: "negative inf", in: math.Inf(-1), want: 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Clamp(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, r.Contains(got))
			assert.Equal(t, got, r.Clamp(float64(got)), "clamp is idempotent")
		})
	}
}

func TestLoadDefaultsWithoutStorage(t *testing.T) {
	store := New(kv.NewMemory(), DefaultOptions(), nil)

	got := store.Load()
	assert.Equal(t, Settings{Theme: ThemeSystem, IconWidth: 48, IconHeight: 48}, got)
}

func TestLoadValidatesFieldsIndependently(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   Settings
	}{
		{
			name:   "out of range width clamps",
			stored: `{"theme":"dark","iconWidth":200}`,
			want:   Settings{Theme: ThemeDark, IconWidth: 96, IconHeight: 48},
		},
		{
			name:   "non numeric width falls back",
			stored: `{"theme":"light","iconWidth":"wide","iconHeight":64}`,
			want:   Settings{Theme: ThemeLight, IconWidth: 48, IconHeight: 64},
		},
		{
			name:   "unknown theme falls back",
			stored: `{"theme":"sepia","iconWidth":40,"iconHeight":40}`,
			want:   Settings{Theme: ThemeSystem, IconWidth: 40, IconHeight: 40},
		},
		{
			name:   "system literal is accepted",
			stored: `{"theme":"system"}`,
			want:   Settings{Theme: ThemeSystem, IconWidth: 48, IconHeight: 48},
		},
		{
			name:   "corrupt json yields defaults",
			stored: `{"theme":`,
			want:   Settings{Theme: ThemeSystem, IconWidth: 48, IconHeight: 48},
		},
		{
			name:   "non object yields defaults",
			stored: `[1,2,3]`,
			want:   Settings{Theme: ThemeSystem, IconWidth: 48, IconHeight: 48},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := kv.NewMemory()
			require.NoError(t, mem.Set("startpage:settings", tt.stored))

			got := New(mem, DefaultOptions(), nil).Load()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	records := []Settings{
		{Theme: ThemeDark, IconWidth: 64, IconHeight: 80},
		{Theme: ThemeLight, IconWidth: 500, IconHeight: 1},
		{Theme: ThemeSystem, IconWidth: 33, IconHeight: 95},
	}

	for _, rec := range records {
		store := New(kv.NewMemory(), DefaultOptions(), nil)
		store.Save(rec)
		assert.Equal(t, store.Normalize(rec), store.Load())
	}
}

func TestSaveReplacesCorruptedWidth(t *testing.T) {
	mem := kv.NewMemory()
	require.NoError(t, mem.Set("startpage:settings", `{"theme":"dark","iconWidth":200}`))
	store := New(mem, DefaultOptions(), nil)

	store.Save(store.Load())

	raw, ok, err := mem.Get("startpage:settings")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"theme":"dark","iconWidth":96,"iconHeight":48}`, raw)
}

func TestSystemThemeIsOmitted(t *testing.T) {
	mem := kv.NewMemory()
	New(mem, DefaultOptions(), nil).Save(Settings{Theme: ThemeSystem, IconWidth: 48, IconHeight: 48})

	raw, _, err := mem.Get("startpage:settings")
	require.NoError(t, err)
	assert.JSONEq(t, `{"iconWidth":48,"iconHeight":48}`, raw)
}

func TestLegacyMigration(t *testing.T) {
	t.Run("legacy dark is adopted and removed after save", func(t *testing.T) {
		mem := kv.NewMemory()
		require.NoError(t, mem.Set("theme", "dark"))
		store := New(mem, DefaultOptions(), nil)

		loaded := store.Load()
		assert.Equal(t, ThemeDark, loaded.Theme)

		_, stillThere, _ := mem.Get("theme")
		assert.True(t, stillThere, "load alone never deletes the legacy key")

		store.Save(loaded)
		_, stillThere, _ = mem.Get("theme")
		assert.False(t, stillThere)

		assert.Equal(t, ThemeDark, store.Load().Theme)

		store.Save(loaded)
		_, stillThere, _ = mem.Get("theme")
		assert.False(t, stillThere, "rerunning the migration is a no-op")
	})

	t.Run("current record theme wins", func(t *testing.T) {
		mem := kv.NewMemory()
		require.NoError(t, mem.Set("theme", "dark"))
		require.NoError(t, mem.Set("startpage:settings", `{"theme":"light"}`))

		assert.Equal(t, ThemeLight, New(mem, DefaultOptions(), nil).Load().Theme)
	})

	t.Run("legacy fills a record without theme", func(t *testing.T) {
		mem := kv.NewMemory()
		require.NoError(t, mem.Set("theme", "light"))
		require.NoError(t, mem.Set("startpage:settings", `{"iconWidth":60}`))

		got := New(mem, DefaultOptions(), nil).Load()
		assert.Equal(t, Settings{Theme: ThemeLight, IconWidth: 60, IconHeight: 48}, got)
	})

	t.Run("invalid legacy value is ignored", func(t *testing.T) {
		mem := kv.NewMemory()
		require.NoError(t, mem.Set("theme", "system"))

		theme, ok := New(mem, DefaultOptions(), nil).MigrateLegacy()
		assert.False(t, ok)
		assert.Equal(t, ThemeSystem, theme)
	})

	t.Run("failed save keeps the legacy key", func(t *testing.T) {
		mem := kv.NewMemory()
		require.NoError(t, mem.Set("theme", "dark"))
		store := New(writeFailStore{mem}, DefaultOptions(), nil)

		store.Save(store.Load())

		value, ok, _ := mem.Get("theme")
		assert.True(t, ok)
		assert.Equal(t, "dark", value)
	})
}

func TestBrokenStorageDegrades(t *testing.T) {
	store := New(brokenStore{}, DefaultOptions(), nil)

	assert.Equal(t, store.Defaults(), store.Load())
	assert.NotPanics(t, func() { store.Save(Settings{Theme: ThemeDark, IconWidth: 50, IconHeight: 50}) })
	assert.NotPanics(t, store.Reset)

	nilStore := New(nil, DefaultOptions(), nil)
	assert.Equal(t, nilStore.Defaults(), nilStore.Load())
	assert.False(t, nilStore.SaveJSON("k", 1))
}

func TestParseTheme(t *testing.T) {
	theme, ok := ParseTheme(" Dark ")
	assert.True(t, ok)
	assert.Equal(t, ThemeDark, theme)

	theme, ok = ParseTheme("")
	assert.True(t, ok)
	assert.Equal(t, ThemeSystem, theme)

	_, ok = ParseTheme("blue")
	assert.False(t, ok)

	assert.True(t, ThemeLight.Explicit())
	assert.False(t, ThemeSystem.Explicit())
}
