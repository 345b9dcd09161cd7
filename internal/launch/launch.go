// Package launch opens URLs in a new browser context
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/browser"

	"github.com/iiroan/startpage/internal/config"
	"github.com/iiroan/startpage/internal/exec"
	"github.com/iiroan/startpage/internal/platform"
)

// ErrNoOpener is returned when neither a configured command nor a desktop browser is available
var ErrNoOpener = errors.New("no way to open a browser")

// URLPlaceholder in opener arguments is replaced by the URL
const URLPlaceholder = "{url}"

// Opener hands URLs to a browser. It satisfies engine.Navigator.
type Opener struct {
	command string
	args    []string
	timeout time.Duration
	logger  *log.Logger

	openURL    func(string) error
	hasDesktop func() bool
}

// New returns an opener for cfg. An empty command uses the system browser.
func New(cfg config.OpenerConfig, timeout time.Duration, logger *log.Logger) *Opener {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Opener{
		command:    strings.TrimSpace(cfg.Command),
		args:       cfg.Args,
		timeout:    timeout,
		logger:     logger,
		openURL:    browser.OpenURL,
		hasDesktop: platform.HasDesktop,
	}
}

// Quiet silences the output of the system browser launcher, for use under a full-screen UI
func Quiet() {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Open opens target. Only absolute http and https URLs are accepted.
func (o *Opener) Open(target string) error {
	return o.OpenContext(context.Background(), target)
}

// OpenContext is Open with a context bounding a configured command
func (o *Opener) OpenContext(ctx context.Context, target string) error {
	if err := checkURL(target); err != nil {
		return err
	}

	if o.command != "" {
		args := o.commandArgs(target)
		opts := exec.DefaultOptions()
		if o.timeout > 0 {
			opts.Timeout = o.timeout
		}
		opts.Logger = o.logger
		res := exec.Run(ctx, o.command, args, opts)
		if err := res.Error(); err != nil {
			return fmt.Errorf("running opener: %w", err)
		}
		return nil
	}

	if o.hasDesktop != nil && !o.hasDesktop() {
		return ErrNoOpener
	}
	o.logger.Debug("opening in browser", "url", target)
	if err := o.openURL(target); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	return nil
}

func (o *Opener) commandArgs(target string) []string {
	args := make([]string, 0, len(o.args)+1)
	replaced := false
	for _, a := range o.args {
		if strings.Contains(a, URLPlaceholder) {
			a = strings.ReplaceAll(a, URLPlaceholder, target)
			replaced = true
		}
		args = append(args, a)
	}
	if !replaced {
		args = append(args, target)
	}
	return args
}

func checkURL(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", target, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: only http and https are supported", target)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url %q: missing host", target)
	}
	return nil
}
