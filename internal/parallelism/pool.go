package parallelism

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/hookrun/internal/ish"
	"github.com/yaklabco/hookrun/internal/log"
)

// StdinMode selects how a task's standard input is populated.
type StdinMode int

//go:generate go tool golang.org/x/tools/cmd/stringer -type=StdinMode -trimprefix=Stdin
const (
	// StdinNone gives the process an empty standard input.
	StdinNone StdinMode = iota
	// StdinReader hands Task.Stdin to the process.
	StdinReader
	// StdinPipe fills standard input by polling TaskSource.Feed.
	StdinPipe
)

// waitDelay bounds how long a cancelled task's output pipes are drained after
// the process is killed, in case it left children holding them open.
const waitDelay = 2 * time.Second

// ErrNoSource is returned by Run when Options.Source is nil.
var ErrNoSource = errors.New("parallelism: no task source")

// Task is one process to run.
type Task struct {
	// Label names the task in log records.
	Label string

	Command string
	Args    []string

	// Env is appended to the inherited environment; later entries win.
	Env []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	StdinMode StdinMode

	// Stdin is read when StdinMode is StdinReader. If it is an io.Closer it
	// is closed once the process has exited or failed to start.
	Stdin io.Reader

	// StdoutToStderr sends standard output to the same stream as standard
	// error instead of the parent's standard output.
	StdoutToStderr bool

	// Data is opaque to the pool and belongs to the TaskSource.
	Data any
}

// TaskSource supplies tasks and receives their outcomes. Run calls every
// method from a single goroutine, so implementations need no locking.
type TaskSource interface {
	// Next returns the next task, or nil when there are no more. An error
	// stops the run: in-flight tasks are cancelled and Run returns it.
	Next() (*Task, error)

	// Feed appends the next chunk of standard input for a StdinPipe task and
	// reports whether input is complete.
	Feed(task *Task, buf *bytes.Buffer) (done bool)

	// OnStartFailure is called when a task's process could not be started.
	OnStartFailure(task *Task, err error)

	// OnFinished is called with the exit status of a task that ran.
	OnFinished(task *Task, status int)
}

// Options configures Run.
type Options struct {
	// MaxParallel bounds the number of processes running at once. Values
	// below one are treated as one.
	MaxParallel int

	// Ungroup streams output as it is produced instead of buffering it per
	// task and writing it when the task finishes.
	Ungroup bool

	// ConsumeSideband holds grouped output back until every task is done.
	ConsumeSideband bool

	Source TaskSource

	// Output receives task output. If nil, os.Stderr is used.
	Output io.Writer
}

type result struct {
	task   *Task
	status int
	output *bytes.Buffer
}

type pool struct {
	opts     Options
	output   io.Writer
	sideband bytes.Buffer
	done     chan result
	group    errgroup.Group
	running  int
}

// Run pulls tasks from opts.Source and runs up to opts.MaxParallel of them at
// once, in the order Next returns them. It returns when every started task has
// finished. Cancelling ctx stops new tasks from being offered and kills the
// running ones.
func Run(ctx context.Context, opts Options) error {
	if opts.Source == nil {
		return ErrNoSource
	}

	maxParallel := max(opts.MaxParallel, 1)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := &pool{
		opts:   opts,
		output: outputWriter(opts.Output, opts.Ungroup),
		done:   make(chan result, maxParallel),
	}

	slog.Debug("pool starting",
		slog.Int(log.Jobs, maxParallel),
		slog.Bool(log.Ungroup, opts.Ungroup))

	var runErr error
	exhausted := false
	for {
		for !exhausted && p.running < maxParallel {
			if err := ctx.Err(); err != nil {
				runErr = err
				exhausted = true
				break
			}

			task, err := opts.Source.Next()
			if err != nil {
				runErr = err
				exhausted = true
				cancel()
				break
			}
			if task == nil {
				exhausted = true
				break
			}
			p.start(runCtx, task)
		}

		if p.running == 0 {
			break
		}
		res := <-p.done
		p.running--
		p.finish(res)
	}

	_ = p.group.Wait()

	if p.sideband.Len() > 0 {
		_, _ = p.output.Write(p.sideband.Bytes())
	}

	if runErr == nil {
		runErr = ctx.Err()
	}
	return runErr
}

func (p *pool) start(ctx context.Context, task *Task) {
	cmd := exec.CommandContext(ctx, task.Command, task.Args...)
	cmd.Dir = task.Dir
	cmd.WaitDelay = waitDelay
	if len(task.Env) > 0 {
		cmd.Env = append(os.Environ(), task.Env...)
	}

	var captured *bytes.Buffer
	stdout := p.output
	if !p.opts.Ungroup {
		captured = &bytes.Buffer{}
		stdout = captured
	}
	cmd.Stderr = stdout
	if task.StdoutToStderr {
		cmd.Stdout = stdout
	} else {
		cmd.Stdout = os.Stdout
	}

	switch task.StdinMode {
	case StdinReader:
		cmd.Stdin = task.Stdin
	case StdinPipe:
		var input bytes.Buffer
		for done := false; !done; {
			done = p.opts.Source.Feed(task, &input)
		}
		cmd.Stdin = bytes.NewReader(input.Bytes())
	case StdinNone:
	}

	slog.Debug("starting task",
		slog.String(log.Label, task.Label),
		slog.String(log.Cmd, task.Command),
		slog.Any(log.Args, task.Args),
		slog.String(log.Dir, task.Dir),
		slog.String(log.Stdin, task.StdinMode.String()))

	if err := cmd.Start(); err != nil {
		closeStdin(task)
		slog.Debug("task failed to start",
			slog.String(log.Label, task.Label),
			slog.Any(log.Error, err))
		p.opts.Source.OnStartFailure(task, err)
		return
	}

	p.running++
	p.group.Go(func() error {
		err := cmd.Wait()
		closeStdin(task)
		status := ish.ExitStatus(err)
		if err != nil {
			// exited is false when a signal or I/O failure ended the task.
			slog.Debug("task failed",
				slog.String(log.Label, task.Label),
				slog.Int(log.Status, status),
				slog.Bool(log.Exited, ish.CmdRan(err)),
				slog.Any(log.Error, err))
		}
		p.done <- result{task: task, status: status, output: captured}
		return nil
	})
}

func (p *pool) finish(res result) {
	if res.output != nil && res.output.Len() > 0 {
		if p.opts.ConsumeSideband {
			p.sideband.Write(res.output.Bytes())
		} else {
			_, _ = p.output.Write(res.output.Bytes())
		}
	}

	slog.Debug("task finished",
		slog.String(log.Label, res.task.Label),
		slog.Int(log.Status, res.status))
	p.opts.Source.OnFinished(res.task, res.status)
}

func closeStdin(task *Task) {
	if task.StdinMode != StdinReader {
		return
	}
	if closer, ok := task.Stdin.(io.Closer); ok {
		_ = closer.Close()
	}
}

// outputWriter returns the writer tasks share. Ungrouped processes writing to
// a file get the file itself so their output interleaves as the kernel orders
// it; any other writer is guarded by a mutex.
func outputWriter(w io.Writer, ungroup bool) io.Writer {
	if w == nil {
		w = os.Stderr
	}
	if f, ok := w.(*os.File); ok && ungroup {
		return f
	}
	return &lockedWriter{w: w}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
