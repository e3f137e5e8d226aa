package hookrun

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hookrun/config"
	"github.com/yaklabco/hookrun/internal/hooks"
	"github.com/yaklabco/hookrun/internal/log"
)

// ErrNoHooksDir is reported when neither a repository nor core.hooks_path
// gives a place to install shims.
var ErrNoHooksDir = errors.New("no hooks directory: run inside a git repository or set core.hooks_path")

func newInstallCmd(state *app) *cobra.Command {
	var (
		force bool
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "install [event...]",
		Short: "Install shims that make git run hookrun",
		Long: `Write a small script into the hooks directory for each event, so that git
runs "hookrun run <event>" when the event fires.

Without arguments, shims are installed for every event named by a
hook.<name>.event setting. Existing hooks not written by hookrun are left
alone unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ok := state.loadOrReport(cmd)
			if !ok {
				return nil
			}
			if sess.hooksDir == "" {
				sess.console.Fatal("%s", ErrNoHooksDir)
				state.setExitCode(hooks.StatusFatal)
				return nil
			}

			events := args
			switch {
			case all:
				events = config.KnownGitHookNames()
			case len(events) == 0:
				events = sess.cfg.Entries.EventNames()
			}
			if len(events) == 0 {
				sess.console.Error("no hook events configured")
				sess.console.Hint("Declare hooks with hook.<name>.command and hook.<name>.event,\nor name the events to install.")
				state.setExitCode(hooks.StatusUserError)
				return nil
			}

			state.setExitCode(installShims(cmd, sess, events, force))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing hooks not installed by hookrun")
	cmd.Flags().BoolVar(&all, "all", false, "install shims for every git hook event")

	return cmd
}

func installShims(cmd *cobra.Command, sess *session, events []string, force bool) int {
	out := cmd.OutOrStdout()
	code := 0
	installed := 0

	for _, event := range events {
		if !config.IsKnownGitHook(event) {
			sess.console.Hint("'%s' is not a git hook event; git will not run it on its own.", event)
		}

		path, err := hooks.InstallShim(sess.hooksDir, event, force)
		switch {
		case errors.Is(err, hooks.ErrForeignHook):
			sess.console.Error("%s already exists and was not installed by hookrun", path)
			sess.console.Hint("Use --force to overwrite, or remove the existing hook first.")
			code = hooks.StatusUserError
			continue
		case err != nil:
			sess.console.Error("could not install %s: %s", event, err)
			code = hooks.StatusUserError
			continue
		}

		slog.Info("installed shim",
			slog.String(log.Event, event),
			slog.String(log.Path, path))
		_, _ = fmt.Fprintf(out, "Installed %s\n", event)
		installed++
	}

	_, _ = fmt.Fprintf(out, "\nInstalled %d hook(s) to %s\n", installed, sess.hooksDir)
	return code
}

func newUninstallCmd(state *app) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall [event...]",
		Short: "Remove shims installed by hookrun",
		Long: `Remove the shims hookrun installed. Without arguments every git hook event
is checked. Hooks not written by hookrun are never removed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ok := state.loadOrReport(cmd)
			if !ok {
				return nil
			}
			if sess.hooksDir == "" {
				sess.console.Fatal("%s", ErrNoHooksDir)
				state.setExitCode(hooks.StatusFatal)
				return nil
			}

			events := args
			if len(events) == 0 {
				events = config.KnownGitHookNames()
			}

			out := cmd.OutOrStdout()
			code := 0
			removed := 0
			for _, event := range events {
				ok, err := hooks.RemoveShim(sess.hooksDir, event)
				if err != nil {
					sess.console.Error("could not remove %s: %s", event, err)
					code = hooks.StatusUserError
					continue
				}
				if ok {
					_, _ = fmt.Fprintf(out, "Removed %s\n", event)
					removed++
				}
			}
			if removed == 0 && code == 0 {
				_, _ = fmt.Fprintln(out, "No hookrun-managed hooks found to remove.")
			}
			state.setExitCode(code)
			return nil
		},
	}
}
