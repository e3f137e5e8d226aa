// Package hooks discovers the hooks attached to an event and runs them
// through a worker pool, aggregating their exit statuses into one code.
package hooks

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/yaklabco/hookrun/config"
	"github.com/yaklabco/hookrun/internal/log"
	"github.com/yaklabco/hookrun/internal/parallelism"
)

// PoolFunc runs the tasks supplied by opts.Source and returns when they are
// done. parallelism.Run is the production implementation.
type PoolFunc func(ctx context.Context, opts parallelism.Options) error

// RunOptions configures a single Run.
type RunOptions struct {
	// Jobs is the number of hooks to run at once. Zero uses hook.jobs or the
	// processor count.
	Jobs int

	// ErrorIfMissing makes Run fail when no hook is found for the event.
	ErrorIfMissing bool

	// StdinFile is opened for each hook and given to it as standard input.
	StdinFile string

	// StdinLines, when non-nil, is written to each hook's standard input one
	// line at a time. It cannot be combined with StdinFile.
	StdinLines []string

	// Args are passed to every hook verbatim.
	Args []string

	// Env holds KEY=VALUE pairs added to the inherited environment. Later
	// entries win.
	Env []string

	// Dir is the working directory for hooks. The filesystem hook's path is
	// made absolute when it is set.
	Dir string

	// ConsumeSideband holds grouped hook output back until every hook is done.
	ConsumeSideband bool

	// Invoked, if set, reports whether any hook ran to completion.
	Invoked *bool
}

// Runtime runs hooks for events. A Runtime is meant to live for the whole
// process: it remembers the resolved job count and which hints were shown.
type Runtime struct {
	// Config supplies hook declarations and settings.
	Config *config.Config

	// HooksDir is the directory holding filesystem hooks. Empty disables them.
	HooksDir string

	// Stderr receives hook output and messages.
	Stderr io.Writer

	// Pool runs the hooks. If nil, parallelism.Run is used.
	Pool PoolFunc

	jobsOnce sync.Once
	jobs     int

	resolverOnce sync.Once
	resolver     *Resolver
	console      *log.Console
}

// NewRuntime creates a Runtime for cfg looking up filesystem hooks in hooksDir.
func NewRuntime(cfg *config.Config, hooksDir string) *Runtime {
	return &Runtime{
		Config:   cfg,
		HooksDir: hooksDir,
		Stderr:   os.Stderr,
	}
}

// Run runs every hook attached to event and returns the bitwise OR of their
// exit statuses, with 1 added for each hook that could not be started.
//
// A run with no hooks returns 0, or 1 and ErrNoHook when opts.ErrorIfMissing
// is set. An error that aborts the run is returned with the exit status it
// carries.
func (r *Runtime) Run(ctx context.Context, event string, opts *RunOptions) (int, error) {
	if opts == nil {
		return StatusFatal, fatalErrorf("%w", ErrNilOptions)
	}
	if opts.Invoked != nil {
		*opts.Invoked = false
	}

	feeder, err := newStdinFeeder(opts)
	if err != nil {
		return ExitStatus(err), err
	}

	list := r.BuildList(event)
	if list.Len() == 0 {
		if opts.ErrorIfMissing {
			return StatusUserError, userErrorf("%w %s", ErrNoHook, event)
		}
		return 0, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = r.Jobs()
	}
	ungroup := jobs == 1 || list.Len() == 1

	runID := uuid.NewString()
	slog.Debug("running hooks",
		slog.String(log.RunID, runID),
		slog.String(log.Event, event),
		slog.Any(log.Hook, list.Names()),
		slog.Int(log.Jobs, jobs),
		slog.Bool(log.Ungroup, ungroup))

	dispatch := newDispatcher(runID, event, list, opts, r.entries(), feeder, r.messages())
	err = r.pool()(ctx, parallelism.Options{
		MaxParallel:     jobs,
		Ungroup:         ungroup,
		ConsumeSideband: opts.ConsumeSideband,
		Source:          dispatch,
		Output:          r.stderr(),
	})
	if err != nil {
		return ExitStatus(err), err
	}

	slog.Debug("hooks finished",
		slog.String(log.RunID, runID),
		slog.String(log.Event, event),
		slog.Int(log.Status, dispatch.code))
	return dispatch.code, nil
}

// List returns the hooks that would run for event, in order. The filesystem
// hook is shown as its path.
func (r *Runtime) List(event string) []string {
	return r.BuildList(event).Names()
}

// Exists reports whether any hook is attached to event.
func (r *Runtime) Exists(event string) bool {
	return r.BuildList(event).Len() > 0
}

// Jobs returns the number of hooks to run at once when a run does not ask for
// a specific count. The value is computed once per Runtime.
func (r *Runtime) Jobs() int {
	r.jobsOnce.Do(func() {
		configured := 0
		if r.Config != nil {
			configured = r.Config.Hook.Jobs
		}
		r.jobs = parallelism.ResolveJobs(configured)
	})
	return r.jobs
}

// Resolver returns the Runtime's filesystem hook resolver.
func (r *Runtime) Resolver() *Resolver {
	r.resolverOnce.Do(func() {
		advise := config.DefaultAdviceIgnoredHook
		if r.Config != nil {
			advise = r.Config.Advice.IgnoredHook
		}
		r.resolver = &Resolver{
			HooksDir: r.HooksDir,
			Advise:   advise,
			Console:  r.messages(),
		}
	})
	return r.resolver
}

func (r *Runtime) entries() *config.Entries {
	if r.Config == nil {
		return nil
	}
	return r.Config.Entries
}

func (r *Runtime) pool() PoolFunc {
	if r.Pool != nil {
		return r.Pool
	}
	return parallelism.Run
}

func (r *Runtime) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

func (r *Runtime) messages() *log.Console {
	if r.console == nil {
		r.console = log.NewConsole(r.stderr())
	}
	return r.console
}
