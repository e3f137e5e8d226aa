package hooks

import (
	"bytes"
	"log/slog"
	"path/filepath"

	"github.com/yaklabco/hookrun/config"
	"github.com/yaklabco/hookrun/internal/ish"
	"github.com/yaklabco/hookrun/internal/log"
	"github.com/yaklabco/hookrun/internal/parallelism"
)

// dispatcher hands the hooks of one run to the pool in list order and folds
// their outcomes into one exit code. The pool calls it from one goroutine.
type dispatcher struct {
	runID   string
	event   string
	list    *List
	cursor  int
	code    int
	opts    *RunOptions
	entries *config.Entries
	stdin   stdinFeeder
	console *log.Console
}

func newDispatcher(runID, event string, list *List, opts *RunOptions, entries *config.Entries,
	stdin stdinFeeder, console *log.Console,
) *dispatcher {
	return &dispatcher{
		runID:   runID,
		event:   event,
		list:    list,
		cursor:  list.First(),
		opts:    opts,
		entries: entries,
		stdin:   stdin,
		console: console,
	}
}

// Next returns the task for the hook under the cursor and advances it.
func (d *dispatcher) Next() (*parallelism.Task, error) {
	if d.cursor == noIndex {
		return nil, nil
	}
	hook := d.list.At(d.cursor)
	d.cursor = d.list.Next(d.cursor)

	task := &parallelism.Task{
		Label:          hook.Label(),
		Env:            d.opts.Env,
		Dir:            d.opts.Dir,
		StdoutToStderr: true,
		Data:           hook,
	}

	if hook.Anonymous() {
		if hook.Path == "" {
			return nil, fatalErrorf("%w: the %s hook for '%s' has no path", ErrHookVanished, anonymousLabel, d.event)
		}
		path := hook.Path
		if d.opts.Dir != "" {
			abs, err := filepath.Abs(path)
			if err != nil {
				return nil, fatalErrorf("%w: %w", ErrHookVanished, err)
			}
			path = abs
		}
		task.Command = path
		task.Args = d.opts.Args
	} else {
		command, ok := d.entries.HookCommand(hook.Name)
		if !ok {
			return nil, fatalErrorf("%w: '%s' must be configured or '%s' must be removed; aborting",
				ErrMissingCommand,
				config.HookKey(hook.Name, config.CommandField),
				config.HookKey(hook.Name, config.EventField))
		}
		task.Command, task.Args = ish.ShellCommand(command, d.opts.Args)
	}

	mode, reader, err := d.stdin.open(hook)
	if err != nil {
		return nil, err
	}
	task.StdinMode = mode
	task.Stdin = reader

	slog.Debug("dispatching hook",
		slog.String(log.RunID, d.runID),
		slog.String(log.Event, d.event),
		slog.String(log.Hook, hook.Label()),
		slog.String(log.Cmd, task.Command))

	return task, nil
}

// Feed writes the next chunk of generated stdin for the task's hook.
func (d *dispatcher) Feed(task *parallelism.Task, buf *bytes.Buffer) bool {
	hook, ok := task.Data.(*Hook)
	if !ok {
		return true
	}
	return d.stdin.feed(hook, buf)
}

// OnStartFailure marks the run as failed and carries on with the next hook.
func (d *dispatcher) OnStartFailure(task *parallelism.Task, err error) {
	d.code |= 1
	d.console.Error("failed to start hook '%s'", task.Label)
	slog.Debug("hook failed to start",
		slog.String(log.RunID, d.runID),
		slog.String(log.Hook, task.Label),
		slog.Any(log.Error, err))
}

// OnFinished folds the hook's exit status into the run's code.
func (d *dispatcher) OnFinished(task *parallelism.Task, status int) {
	d.code |= status
	if d.opts.Invoked != nil {
		*d.opts.Invoked = true
	}
	slog.Debug("hook finished",
		slog.String(log.RunID, d.runID),
		slog.String(log.Hook, task.Label),
		slog.Int(log.Status, status))
}
