package validate

import (
	"context"

	"github.com/iiroan/startpage/internal/config"
	"github.com/iiroan/startpage/internal/exec"
	"github.com/iiroan/startpage/internal/platform"
)

// Opener checks that search results and links can be opened
func Opener(_ context.Context, cfg config.OpenerConfig) Result {
	result := Result{}

	if cfg.Command != "" {
		if !exec.CheckCommand(cfg.Command) {
			result.AddError("opener command not found: " + cfg.Command)
			result.AddItem(StatusError, "opener", cfg.Command+" not found")
			return result
		}
		result.AddItem(StatusSuccess, "opener", exec.FormatCommand(cfg.Command, cfg.Args))
		return result
	}

	if err := platform.RequireDesktop("opening links"); err != nil {
		result.AddWarning(err.Error() + "; set opener.command instead")
		result.AddItem(StatusWarning, "opener", "system browser needs a graphical session")
		return result
	}
	result.AddItem(StatusSuccess, "opener", "system browser")
	return result
}
