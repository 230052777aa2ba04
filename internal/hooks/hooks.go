// Package hooks runs user scripts when argosctl events happen.
//
// Scripts live in {hooks_dir}/{point}/ and run in name order when they are
// executable. Event details reach them as ARGOS_* environment variables.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/argosnews/argosctl/internal/colors"
	"github.com/argosnews/argosctl/internal/config"
	"github.com/argosnews/argosctl/internal/logging"
)

// Hook points.
const (
	// PointNotify runs for every notification shown to the user.
	PointNotify = "notify"
	// PointPostToggle runs after a bookmark or watch toggle succeeded.
	PointPostToggle = "post-toggle"
	// PointPostUpload runs after a source icon was uploaded.
	PointPostUpload = "post-upload"
)

// Failure modes.
const (
	FailAbort  = "abort"
	FailWarn   = "warn"
	FailIgnore = "ignore"
)

const defaultMaxAsync = 10

// ErrHookFailed is returned by Run in abort mode when a script fails.
var ErrHookFailed = errors.New("hook failed")

// Options configures a Runner. An empty Dir disables every hook.
type Options struct {
	Dir         string
	FailureMode string
	Timeout     time.Duration
	MaxAsync    int
	Logger      logging.Logger
}

// Runner executes hook scripts.
type Runner struct {
	opts Options

	mu      sync.Mutex
	pending sync.WaitGroup
	count   int
}

// New returns a Runner.
func New(opts Options) *Runner {
	if opts.FailureMode == "" {
		opts.FailureMode = FailWarn
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxAsync <= 0 {
		opts.MaxAsync = defaultMaxAsync
	}
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}
	return &Runner{opts: opts}
}

// NewFromConfig builds a Runner from hooks_enabled, hooks_dir,
// hooks_failure_mode and hooks_timeout_seconds.
func NewFromConfig(logger logging.Logger) *Runner {
	dir := ""
	if config.GetBool("hooks_enabled", true) {
		dir = config.Get("hooks_dir", "")
	}
	return New(Options{
		Dir:         dir,
		FailureMode: config.Get("hooks_failure_mode", FailWarn),
		Timeout:     time.Duration(config.GetInt("hooks_timeout_seconds", 10)) * time.Second,
		Logger:      logger,
	})
}

// Scripts lists the executable scripts of a hook point in run order.
func (r *Runner) Scripts(point string) []string {
	if r.opts.Dir == "" {
		return nil
	}
	dir := filepath.Join(r.opts.Dir, point)
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var scripts []string
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		path := filepath.Join(dir, f.Name())
		info, err := os.Stat(path)
		if err != nil || info.Mode()&0o111 == 0 {
			continue
		}
		scripts = append(scripts, path)
	}
	sort.Strings(scripts)
	return scripts
}

// Run executes the scripts of point one after the other. In abort mode the
// first failure stops the run and is returned; otherwise failures are
// logged and Run returns nil.
func (r *Runner) Run(ctx context.Context, point string, env map[string]string) error {
	scripts := r.Scripts(point)
	if len(scripts) == 0 {
		return nil
	}
	r.opts.Logger.Debug("running hooks", "point", point, "count", len(scripts))
	vars := r.environ(point, env)
	for _, script := range scripts {
		if err := r.exec(ctx, script, vars); err != nil {
			if r.opts.FailureMode == FailAbort {
				return fmt.Errorf("hooks: %s %s: %w: %w", point, filepath.Base(script), ErrHookFailed, err)
			}
		}
	}
	return nil
}

// Start runs the scripts of point in the background. At most MaxAsync runs
// are pending at once; extra runs are dropped. Failures are only logged.
func (r *Runner) Start(point string, env map[string]string) {
	if len(r.Scripts(point)) == 0 {
		return
	}
	r.mu.Lock()
	if r.count >= r.opts.MaxAsync {
		r.mu.Unlock()
		r.opts.Logger.Warn("too many pending hooks, skipping", "point", point, "max", r.opts.MaxAsync)
		return
	}
	r.count++
	r.pending.Add(1)
	r.mu.Unlock()

	go func() {
		defer func() {
			r.mu.Lock()
			r.count--
			r.mu.Unlock()
			r.pending.Done()
		}()
		_ = r.Run(context.Background(), point, env)
	}()
}

// Pending returns the number of background runs not finished yet.
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Wait blocks until every background run has finished.
func (r *Runner) Wait() {
	r.pending.Wait()
}

func (r *Runner) environ(point string, env map[string]string) []string {
	vars := append(os.Environ(),
		"ARGOS_HOOK_POINT="+point,
		"ARGOS_HOOK_FAILURE_MODE="+r.opts.FailureMode,
		"ARGOS_HOOK_TIMESTAMP="+time.Now().Format(time.RFC3339),
	)
	if exe, err := os.Executable(); err == nil {
		vars = append(vars, "ARGOS_BINARY="+exe)
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		vars = append(vars, k+"="+env[k])
	}
	return vars
}

func (r *Runner) exec(ctx context.Context, script string, vars []string) error {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, script)
	cmd.Env = vars
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	duration := time.Since(start)
	output := strings.TrimSpace(out.String())

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", r.opts.Timeout, err)
		}
		if r.opts.FailureMode != FailIgnore {
			r.opts.Logger.Warn("hook failed", "script", script, "error", err, "output", output)
			colors.Debug(fmt.Sprintf("hook %s failed: %v", filepath.Base(script), err))
		}
		return err
	}
	r.opts.Logger.Debug("hook completed", "script", script, "duration", duration.String(), "output", output)
	return nil
}
