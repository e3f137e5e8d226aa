// Package hookrun wires the hook runtime to the hookrun command line.
package hookrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/charmbracelet/fang"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/hookrun/cmd/hookrun/version"
	"github.com/yaklabco/hookrun/config"
	"github.com/yaklabco/hookrun/internal/hooks"
	"github.com/yaklabco/hookrun/internal/log"
	"github.com/yaklabco/hookrun/internal/prettylog"
)

const (
	shortDescription = "hookrun runs the hooks attached to git events, " +
		"both configured commands and scripts in the hooks directory."

	// StatusUsage is the exit status for invalid command lines.
	StatusUsage = 129
)

type rootCmdOptions struct {
	exitCode *int
	pool     hooks.PoolFunc
}

type Option func(*rootCmdOptions)

// WithExitCode makes subcommands record the process exit status in code.
// Hook failures are reported through it rather than as command errors.
func WithExitCode(code *int) Option {
	return func(opts *rootCmdOptions) {
		opts.exitCode = code
	}
}

// This is intentionally unexported, as it exists purely for testing purposes.
func withPool(pool hooks.PoolFunc) Option {
	return func(opts *rootCmdOptions) {
		opts.pool = pool
	}
}

type globalFlags struct {
	dir       string
	overrides []string
	debug     bool
	verbose   bool
}

// app carries state shared by the subcommands of one root command.
type app struct {
	opts   *rootCmdOptions
	flags  globalFlags
	logger *charmlog.Logger
}

// session is everything a subcommand needs after configuration is loaded.
type session struct {
	repo     *hooks.GitRepo
	cfg      *config.Config
	hooksDir string
	runtime  *hooks.Runtime
	console  *log.Console
}

func NewRootCmd(ctx context.Context, opts ...Option) *cobra.Command {
	rootCmdOpts := &rootCmdOptions{}
	for _, opt := range opts {
		opt(rootCmdOpts)
	}

	state := &app{opts: rootCmdOpts}
	rootCmd := &cobra.Command{
		Use:   "hookrun <command> [flags]",
		Short: shortDescription,
		Example: `	# Run the pre-commit hooks with the arguments git passes
	hookrun run pre-commit

	# Pass arguments through to every hook
	hookrun run commit-msg -- .git/COMMIT_EDITMSG

	# Show which hooks would run
	hookrun list pre-push

	# Install shims so git calls hookrun
	hookrun install`,
		Version: version.OverallVersionStringColorized(ctx),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			state.logger = prettylog.Setup(cmd.ErrOrStderr(), prettylog.Level(state.flags.debug, state.flags.verbose))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&state.flags.dir, "dir", "C", "", "run as if hookrun was started in this directory")
	rootCmd.PersistentFlags().StringArrayVarP(&state.flags.overrides, "config", "c", nil, "set a configuration value (key=value), may be repeated")
	rootCmd.PersistentFlags().BoolVarP(&state.flags.debug, "debug", "d", false, "turn on debug messages")
	rootCmd.PersistentFlags().BoolVarP(&state.flags.verbose, "verbose", "v", false, "show informational messages")

	rootCmd.AddCommand(
		newRunCmd(state),
		newListCmd(state),
		newInstallCmd(state),
		newUninstallCmd(state),
	)

	return rootCmd
}

// ExecuteWithFang runs the root Cobra command with Fang-specific options.
// It accepts a context and a root Cobra command as input parameters.
// Returns an error if the command line could not be parsed or executed.
func ExecuteWithFang(ctx context.Context, rootCmd *cobra.Command) error {
	//nolint:wrapcheck // top-level error from cobra, wrapping not needed
	return fang.Execute(
		ctx, rootCmd, fang.WithVersion(rootCmd.Version), fang.WithoutManpage())
}

// setExitCode records code, clamping negative values to 1.
func (a *app) setExitCode(code int) {
	if code < 0 {
		code = 1
	}
	if a.opts.exitCode != nil {
		*a.opts.exitCode = code
	}
}

// workDir returns the directory given with -C as an absolute path, or "".
func (a *app) workDir() (string, error) {
	if a.flags.dir == "" {
		return "", nil
	}
	dir, err := filepath.Abs(a.flags.dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", a.flags.dir, err)
	}
	return dir, nil
}

// load finds the repository, reads configuration and builds the hook runtime.
func (a *app) load(cmd *cobra.Command) (*session, error) {
	console := log.NewConsole(cmd.ErrOrStderr())

	dir, err := a.workDir()
	if err != nil {
		return nil, err
	}

	repo, err := hooks.DiscoverRepo(cmd.Context(), dir)
	if err != nil {
		if !errors.Is(err, hooks.ErrNotGitRepo) {
			return nil, err
		}
		slog.Debug("not in a git repository", slog.String(log.Dir, dir))
		repo = nil
	}

	projectDir := dir
	if repo != nil {
		projectDir = repo.RootDir
	}

	cfg, err := config.Load(&config.LoadOptions{
		ProjectDir: projectDir,
		Overrides:  a.flags.overrides,
		Stderr:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	if a.logger != nil {
		a.logger.SetLevel(prettylog.Level(a.flags.debug || cfg.Debug, a.flags.verbose || cfg.Verbose))
	}

	hooksDir, err := hooks.ResolveHooksDir(repo, dir, cfg.Core.HooksPath)
	if err != nil {
		return nil, err
	}

	runtime := hooks.NewRuntime(cfg, hooksDir)
	runtime.Stderr = cmd.ErrOrStderr()
	runtime.Pool = a.opts.pool

	return &session{
		repo:     repo,
		cfg:      cfg,
		hooksDir: hooksDir,
		runtime:  runtime,
		console:  console,
	}, nil
}

// loadOrReport is load for subcommands: a failure is printed as fatal and
// recorded as the fatal exit status.
func (a *app) loadOrReport(cmd *cobra.Command) (*session, bool) {
	sess, err := a.load(cmd)
	if err != nil {
		log.NewConsole(cmd.ErrOrStderr()).Fatal("%s", err)
		a.setExitCode(hooks.StatusFatal)
		return nil, false
	}
	return sess, true
}
