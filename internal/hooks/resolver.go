package hooks

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/yaklabco/hookrun/internal/log"
)

var errIsDirectory = errors.New("is a directory")

// Resolver finds the executable hook for an event in a hooks directory.
type Resolver struct {
	// HooksDir is the directory hooks are looked up in. Empty means there is
	// no repository, and so no filesystem hooks.
	HooksDir string

	// Advise prints a hint when a hook exists but is not executable.
	Advise bool

	// Console receives hints.
	Console *log.Console

	advised map[string]struct{}
}

// Find returns the path of the executable hook for event. A hook that exists
// but cannot be executed is reported as absent, with a hint printed once per
// event for the lifetime of the Resolver. Shims written by InstallShim are
// skipped.
func (r *Resolver) Find(event string) (string, bool) {
	if r == nil || r.HooksDir == "" {
		return "", false
	}

	path := filepath.Join(r.HooksDir, event)
	err := executable(path)
	if err == nil {
		return r.unlessShim(event, path)
	}
	if stripExtension != "" {
		if executable(path+stripExtension) == nil {
			return r.unlessShim(event, path+stripExtension)
		}
	}

	slog.Debug("no executable hook",
		slog.String(log.Event, event),
		slog.String(log.Path, path),
		slog.Any(log.Error, err))

	if errors.Is(err, fs.ErrPermission) && r.Advise {
		r.adviseOnce(event, path)
	}
	return "", false
}

// unlessShim reports path as found unless it is a hookrun shim, which would
// only call back into hookrun.
func (r *Resolver) unlessShim(event, path string) (string, bool) {
	if managed, _ := IsManaged(path); managed {
		slog.Debug("skipping hookrun shim",
			slog.String(log.Event, event),
			slog.String(log.Path, path))
		return "", false
	}
	return path, true
}

func (r *Resolver) adviseOnce(event, path string) {
	if _, done := r.advised[event]; done {
		return
	}
	if r.advised == nil {
		r.advised = make(map[string]struct{})
	}
	r.advised[event] = struct{}{}

	r.Console.Hint("The '%s' hook was ignored because it's not set as executable.\n"+
		"You can disable this warning with `hookrun -c advice.ignored_hook=false`.", path)
}
