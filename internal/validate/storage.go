package validate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/iiroan/startpage/internal/kv"
	"github.com/iiroan/startpage/internal/prefs"
)

const probeKey = "startpage:doctor"

// Storage checks that the backend opens and round-trips a value
func Storage(_ context.Context, backend, path string) Result {
	result := Result{}
	name := "storage (" + backend + ")"

	store, err := kv.Open(backend, path)
	if errors.Is(err, kv.ErrCorrupt) {
		result.AddError(fmt.Sprintf("Storage: %v", err))
		result.AddItem(StatusError, name, "corrupt, it is moved aside and replaced on the next start")
		return result
	}
	if err != nil {
		result.AddError(fmt.Sprintf("Storage: %v", err))
		result.AddItem(StatusError, name, err.Error())
		return result
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	want := strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := store.Set(probeKey, want); err != nil {
		result.AddError(fmt.Sprintf("Storage: %v", err))
		result.AddItem(StatusError, name, "not writable: "+err.Error())
		return result
	}
	got, ok, err := store.Get(probeKey)
	if err != nil || !ok || got != want {
		result.AddError("Storage: written value did not read back")
		result.AddItem(StatusError, name, "value did not read back")
		return result
	}
	if err := store.Delete(probeKey); err != nil {
		result.AddWarning(fmt.Sprintf("Storage: probe key left behind: %v", err))
	}

	result.AddItem(StatusSuccess, name, path)
	return result
}

// Records checks the stored preference records the page reads
func Records(_ context.Context, store kv.Store, opts prefs.Options, engineKey string) Result {
	result := Result{}

	raw, ok, err := store.Get(opts.Key)
	switch {
	case err != nil:
		result.AddError(fmt.Sprintf("Settings: %v", err))
		result.AddItem(StatusError, opts.Key, err.Error())
	case !ok:
		result.AddItem(StatusPending, opts.Key, "not set, defaults apply")
	case !json.Valid([]byte(raw)):
		result.AddWarning(opts.Key + " is not valid JSON and will be ignored")
		result.AddItem(StatusWarning, opts.Key, "corrupt, defaults apply")
	default:
		result.AddItem(StatusSuccess, opts.Key, raw)
	}

	if opts.LegacyKey != "" {
		if legacy, ok, err := store.Get(opts.LegacyKey); err == nil && ok {
			result.AddPending("legacy theme " + strconv.Quote(legacy) + " awaits migration")
			result.AddItem(StatusPending, opts.LegacyKey, "legacy value "+strconv.Quote(legacy)+", run 'startpage prefs migrate'")
		}
	}

	if engineKey != "" {
		raw, ok, err := store.Get(engineKey)
		switch {
		case err != nil:
			result.AddError(fmt.Sprintf("Engines: %v", err))
			result.AddItem(StatusError, engineKey, err.Error())
		case !ok:
			result.AddItem(StatusPending, engineKey, "not set, first engine is active")
		case !json.Valid([]byte(raw)):
			result.AddWarning(engineKey + " is not valid JSON and will be ignored")
			result.AddItem(StatusWarning, engineKey, "corrupt, first engine is active")
		default:
			result.AddItem(StatusSuccess, engineKey, raw)
		}
	}
	return result
}
