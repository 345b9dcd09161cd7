package validate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iiroan/startpage/internal/config"
)

// Config validates the startpage configuration file. A missing file is fine: defaults apply.
func Config(_ context.Context, path string) Result {
	result := Result{}
	name := filepath.Base(path)

	if _, err := os.Stat(path); err != nil {
		result.AddPending(name + " not found, using defaults")
		result.AddItem(StatusPending, name, "not found, using defaults")
		return result
	}

	loaded, err := config.Load(path)
	if err != nil {
		result.AddError(fmt.Sprintf("Config: %v", err))
		result.AddItem(StatusError, name, err.Error())
		return result
	}
	if err := loaded.Validate(); err != nil {
		result.AddError(fmt.Sprintf("Config: %v", err))
		result.AddItem(StatusError, name, err.Error())
		return result
	}
	result.AddItem(StatusSuccess, name, fmt.Sprintf("%d engines, %d links", len(loaded.Search.Engines), len(loaded.Links)))
	return result
}
