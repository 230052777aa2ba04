// Package core wires the argos client, dispatcher, uploader and history
// into the operations the CLI exposes.
package core

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/argosnews/argosctl/internal/client"
	"github.com/argosnews/argosctl/internal/config"
	"github.com/argosnews/argosctl/internal/dispatch"
	"github.com/argosnews/argosctl/internal/hooks"
	"github.com/argosnews/argosctl/internal/logging"
	"github.com/argosnews/argosctl/internal/storage"
	"github.com/argosnews/argosctl/internal/toast"
)

// ErrNotified marks failures the user has already been shown.
var ErrNotified = errors.New("notified")

// Options configures a Core. Zero durations take the toast defaults.
type Options struct {
	Client     *client.Client
	History    storage.History
	Hooks      *hooks.Runner
	Console    dispatch.Notifier
	Logger     logging.Logger
	Clock      toast.Clock
	Dwell      time.Duration
	Transition time.Duration
}

// Core runs argos operations for one server.
type Core struct {
	client     *client.Client
	history    storage.History
	hooks      *hooks.Runner
	console    dispatch.Notifier
	logger     logging.Logger
	clock      toast.Clock
	dwell      time.Duration
	transition time.Duration
}

// NewCore returns a Core. Client and Console are required.
func NewCore(opts Options) (*Core, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("core: client is required")
	}
	if opts.Console == nil {
		return nil, fmt.Errorf("core: console is required")
	}
	if opts.History == nil {
		opts.History = storage.Nop()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}
	if opts.Hooks == nil {
		opts.Hooks = hooks.New(hooks.Options{Logger: opts.Logger})
	}
	if opts.Clock == nil {
		opts.Clock = toast.RealClock()
	}
	return &Core{
		client:     opts.Client,
		history:    opts.History,
		hooks:      opts.Hooks,
		console:    opts.Console,
		logger:     opts.Logger,
		clock:      opts.Clock,
		dwell:      opts.Dwell,
		transition: opts.Transition,
	}, nil
}

// NewFromConfig builds a Core from the loaded configuration.
func NewFromConfig(console dispatch.Notifier) (*Core, error) {
	logger := logging.GetGlobal()
	c, err := client.New(client.Config{
		BaseURL:       config.Get("base_url", ""),
		SessionCookie: config.Get("session_cookie", "session"),
		SessionToken:  config.Get("session_token", ""),
		Timeout:       time.Duration(config.GetInt("request_timeout_seconds", 10)) * time.Second,
		RatePerSecond: config.GetFloat("rate_limit_per_second", 5),
		Burst:         config.GetInt("rate_limit_burst", 5),
	}, logger)
	if err != nil {
		return nil, err
	}
	history, err := storage.NewFromConfig()
	if err != nil {
		logger.Warn("history unavailable", "error", err)
		history = storage.Nop()
	}
	return NewCore(Options{
		Client:     c,
		History:    history,
		Hooks:      hooks.NewFromConfig(logger),
		Console:    console,
		Logger:     logger,
		Dwell:      config.GetMillis("toast_dwell_ms", toast.DefaultDwell),
		Transition: config.GetMillis("toast_transition_ms", toast.DefaultTransition),
	})
}

// Close waits for background hooks and releases the history database.
func (c *Core) Close() error {
	c.hooks.Wait()
	return c.history.Close()
}

// BaseURL returns the server the Core talks to.
func (c *Core) BaseURL() string {
	return c.client.BaseURL()
}

// onShow records a notification under source and starts the notify hooks.
func (c *Core) onShow(source string) func(string) {
	record := storage.NewRecorder(c.history, source, c.logger)
	return func(message string) {
		record(message)
		c.hooks.Start(hooks.PointNotify, map[string]string{
			"ARGOS_MESSAGE": message,
			"ARGOS_SOURCE":  source,
		})
	}
}

// consoleNotifier prints notifications and passes them to onShow.
type consoleNotifier struct {
	console dispatch.Notifier
	onShow  func(string)

	mu     sync.Mutex
	called bool
}

func (c *Core) notifier(source string) *consoleNotifier {
	return &consoleNotifier{
		console: c.console,
		onShow:  c.onShow(source),
	}
}

func (n *consoleNotifier) Notify(message string) {
	n.mu.Lock()
	n.called = true
	n.mu.Unlock()
	n.console.Notify(message)
	n.onShow(message)
}

// wrap marks err as shown when the notifier already printed it.
func (n *consoleNotifier) wrap(err error) error {
	if err == nil {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.called {
		return fmt.Errorf("%w: %w", ErrNotified, err)
	}
	return err
}
