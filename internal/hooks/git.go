package hooks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/yaklabco/hookrun/internal/log"
)

// ErrNotGitRepo is returned by DiscoverRepo outside any work tree.
var ErrNotGitRepo = errors.New("not a git repository")

// GitRepo is a discovered work tree. Paths are absolute with symlinks
// resolved.
type GitRepo struct {
	RootDir string
	GitDir  string

	// hooksPath is core.hooksPath as git reports it, possibly relative.
	hooksPath string
}

// DiscoverRepo asks git for the work tree containing dir (the process
// directory when dir is empty) and reads its core.hooksPath.
func DiscoverRepo(ctx context.Context, dir string) (*GitRepo, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}
	start, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	out, err := git(ctx, start, "rev-parse", "--show-toplevel", "--absolute-git-dir")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotGitRepo, start)
	}
	root, gitDir, found := strings.Cut(out, "\n")
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotGitRepo, start)
	}

	repo := &GitRepo{}
	// macOS temp directories live behind the /var -> /private/var link.
	if repo.RootDir, err = canonical(root); err != nil {
		return nil, err
	}
	if repo.GitDir, err = canonical(gitDir); err != nil {
		return nil, err
	}
	// git config exits 1 for an unset key.
	repo.hooksPath, _ = git(ctx, start, "config", "--get", "core.hooksPath")

	slog.Debug("discovered repository",
		slog.String(log.Dir, repo.RootDir),
		slog.String("git_dir", repo.GitDir),
		slog.String("core_hooks_path", repo.hooksPath))
	return repo, nil
}

func canonical(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(strings.TrimSpace(path))
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return filepath.Clean(resolved), nil
}

// HooksPath is where git looks for hooks: core.hooksPath, taken relative to
// RootDir, or GitDir/hooks.
func (r *GitRepo) HooksPath() string {
	switch {
	case r.hooksPath == "":
		return filepath.Join(r.GitDir, "hooks")
	case filepath.IsAbs(r.hooksPath):
		return r.hooksPath
	default:
		return filepath.Join(r.RootDir, r.hooksPath)
	}
}

// HasCustomHooksPath reports whether core.hooksPath is set.
func (r *GitRepo) HasCustomHooksPath() bool {
	return r.hooksPath != ""
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	return strings.TrimSpace(string(out)), err
}

// ResolveHooksDir returns the directory filesystem hooks are read from.
//
// A non-empty override (core.hooks_path) wins and is resolved against the
// repository root, or against dir when repo is nil. Otherwise the
// repository's own hooks directory is used. With no repository and no
// override there is no hooks directory and "" is returned.
func ResolveHooksDir(repo *GitRepo, dir, override string) (string, error) {
	var hooksDir string
	switch {
	case override != "" && filepath.IsAbs(override):
		hooksDir = override
	case override != "" && repo != nil:
		hooksDir = filepath.Join(repo.RootDir, override)
	case override != "":
		base, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("resolving absolute path: %w", err)
		}
		hooksDir = filepath.Join(base, override)
	case repo != nil:
		hooksDir = repo.HooksPath()
		slog.Debug("using repository hooks directory",
			slog.Bool("core_hooks_path", repo.HasCustomHooksPath()))
	}

	slog.Debug("hooks directory resolved",
		slog.String(log.Dir, dir),
		slog.String(log.HooksDir, hooksDir))
	return hooksDir, nil
}
