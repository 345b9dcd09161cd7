package platform

import (
	"fmt"
	"os"
	"runtime"
)

// RequireDesktop returns an error if URLs cannot be handed to a browser on this machine
func RequireDesktop(feature string) error {
	if !HasDesktop() {
		if feature == "" {
			feature = "opening a browser"
		}
		return fmt.Errorf("%s needs a graphical session (current: %s, no DISPLAY or WAYLAND_DISPLAY)", feature, runtime.GOOS)
	}
	return nil
}

// HasDesktop reports whether a graphical session is likely reachable
func HasDesktop() bool {
	switch runtime.GOOS {
	case "darwin", "windows":
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
