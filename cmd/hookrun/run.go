package hookrun

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hookrun/internal/env"
	"github.com/yaklabco/hookrun/internal/hooks"
	"github.com/yaklabco/hookrun/internal/log"
)

// Usage errors for `hookrun run`.
var (
	ErrArgsWithoutDash = errors.New("hook arguments must follow '--'")
	ErrNegativeJobs    = errors.New("--jobs must not be negative")
)

type runFlags struct {
	ignoreMissing bool
	toStdin       string
	stdinLines    bool
	jobs          int
	env           []string
}

func newRunCmd(state *app) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <event> [-- <hook-args>...]",
		Short: "Run the hooks attached to an event",
		Long: `Run every hook attached to an event: configured commands in the order
they were declared, then the script of the same name in the hooks directory.

The exit status is the bitwise OR of the hooks' exit statuses.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			event, hookArgs, err := splitRunArgs(cmd, args)
			if err != nil {
				return err
			}
			if flags.jobs < 0 {
				return ErrNegativeJobs
			}
			if err := env.CheckAssignments(flags.env); err != nil {
				return err
			}

			sess, ok := state.loadOrReport(cmd)
			if !ok {
				return nil
			}

			dir, err := state.workDir()
			if err != nil {
				return err
			}

			stdinFile := flags.toStdin
			if dir != "" && stdinFile != "" && !filepath.IsAbs(stdinFile) {
				stdinFile = filepath.Join(dir, stdinFile)
			}

			opts := &hooks.RunOptions{
				Jobs:           flags.jobs,
				ErrorIfMissing: !flags.ignoreMissing,
				StdinFile:      stdinFile,
				Args:           hookArgs,
				Env:            flags.env,
				Dir:            dir,
			}
			if flags.stdinLines {
				lines, err := readLines(cmd.InOrStdin())
				if err != nil {
					sess.console.Fatal("reading standard input: %s", err)
					state.setExitCode(hooks.StatusFatal)
					return nil
				}
				opts.StdinLines = lines
			}

			code, err := sess.runtime.Run(cmd.Context(), event, opts)
			if err != nil {
				reportRunError(sess.console, err)
			}
			slog.Debug("run finished",
				slog.String(log.Event, event),
				slog.Int(log.Status, code))
			state.setExitCode(code)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.ignoreMissing, "ignore-missing", false, "exit quietly with status 0 if no hook is attached to the event")
	cmd.Flags().StringVar(&flags.toStdin, "to-stdin", "", "give each hook the contents of this file on standard input")
	cmd.Flags().BoolVar(&flags.stdinLines, "stdin-lines", false, "read lines from standard input and replay them to each hook")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of hooks to run at once (0 uses hook.jobs or the CPU count)")
	cmd.Flags().StringArrayVarP(&flags.env, "env", "e", nil, "set KEY=VALUE in the hooks' environment, may be repeated")
	cmd.MarkFlagsMutuallyExclusive("to-stdin", "stdin-lines")

	return cmd
}

// splitRunArgs separates the event name from the hook arguments, which are
// only accepted after "--".
func splitRunArgs(cmd *cobra.Command, args []string) (string, []string, error) {
	dash := cmd.ArgsLenAtDash()
	switch {
	case dash < 0 && len(args) > 1:
		return "", nil, fmt.Errorf("%w: unexpected %q", ErrArgsWithoutDash, args[1])
	case dash < 0:
		return args[0], nil, nil
	case dash != 1:
		return "", nil, fmt.Errorf("%w: expected exactly one event before it", ErrArgsWithoutDash)
	default:
		return args[0], args[1:], nil
	}
}

// reportRunError prints err with the prefix its exit status calls for.
func reportRunError(console *log.Console, err error) {
	if hooks.IsFatal(err) {
		console.Fatal("%s", err)
		return
	}
	console.Error("%s", err)
}

// readLines reads r to the end and returns its lines without terminators.
func readLines(r io.Reader) ([]string, error) {
	lines := []string{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
