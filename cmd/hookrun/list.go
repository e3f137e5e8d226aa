package hookrun

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hookrun/internal/hooks"
)

func newListCmd(state *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <event>",
		Short: "List the hooks attached to an event",
		Long: `List the hooks that would run for an event, one per line, in the order
they would run. The script in the hooks directory is shown as its path.

Exits with status 1 when no hook is attached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ok := state.loadOrReport(cmd)
			if !ok {
				return nil
			}

			names := sess.runtime.List(args[0])
			if len(names) == 0 {
				state.setExitCode(hooks.StatusUserError)
				return nil
			}
			for _, name := range names {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			state.setExitCode(0)
			return nil
		},
	}
}
