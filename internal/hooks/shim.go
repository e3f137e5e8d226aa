package hooks

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/yaklabco/hookrun/internal/log"
)

// ShimMarker identifies hook files written by hookrun.
const ShimMarker = "# Installed by hookrun: DO NOT EDIT BY HAND"

// EnvHooks controls installed shims: "0" skips them, "debug" traces them.
const EnvHooks = "HOOKRUN_HOOKS"

// ErrForeignHook is returned when installing over a hook hookrun did not write.
var ErrForeignHook = errors.New("hook was not installed by hookrun")

// ErrInvalidEvent is returned for event names that cannot be a file in the
// hooks directory.
var ErrInvalidEvent = errors.New("invalid hook event name")

// ValidateEventName rejects names that are empty, "." or "..", or that use
// characters outside [A-Za-z0-9._-].
func ValidateEventName(event string) error {
	if event == "" || event == "." || event == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidEvent, event)
	}
	for _, r := range event {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidEvent, event)
		}
	}
	return nil
}

// shellQuote wraps s in single quotes for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ShimParams configures shim generation.
type ShimParams struct {
	// Event is the hook event the shim forwards, e.g. "pre-commit".
	Event string

	// StdinLines forwards the shim's standard input to every hook.
	StdinLines bool
}

// stdinEvents are the events git feeds on standard input.
//
//nolint:gochecknoglobals // constant lookup table
var stdinEvents = map[string]bool{
	"pre-push":              true,
	"pre-receive":           true,
	"post-receive":          true,
	"post-rewrite":          true,
	"reference-transaction": true,
	"proc-receive":          true,
}

// NewShimParams returns the shim parameters for event.
func NewShimParams(event string) ShimParams {
	return ShimParams{Event: event, StdinLines: stdinEvents[event]}
}

const shimTemplate = `#!/bin/sh
` + ShimMarker + `

# Optional user-level initialization (PATH, version managers, etc.)
init_script="${XDG_CONFIG_HOME:-$HOME/.config}/hookrun/init.sh"
[ -f "$init_script" ] && . "$init_script"

if [ "${HOOKRUN_HOOKS-}" = "0" ]; then
  exit 0
fi
[ "${HOOKRUN_HOOKS-}" = "debug" ] && set -x

if command -v hookrun >/dev/null 2>&1; then
  exec hookrun run --ignore-missing{{if .StdinLines}} --stdin-lines{{end}} {{quote .Event}} -- "$@"
else
  printf "hookrun: 'hookrun' binary not found on PATH; skipping %s hook.\n" {{quote .Event}} >&2
  exit 0
fi
`

//nolint:gochecknoglobals // template is parsed once at init
var shimTmpl = template.Must(template.New("shim").
	Funcs(template.FuncMap{"quote": shellQuote}).
	Parse(shimTemplate))

// GenerateShim returns the POSIX shell script that forwards a git hook to
// `hookrun run`. Panics if template execution fails.
func GenerateShim(params ShimParams) string {
	var buf bytes.Buffer
	if err := shimTmpl.Execute(&buf, params); err != nil {
		panic("hooks: shim template execution failed: " + err.Error())
	}
	return buf.String()
}

// markerLines is how many leading lines are searched for ShimMarker.
const markerLines = 5

// IsManaged reports whether the file at path is a hookrun shim. A missing
// file is not managed.
func IsManaged(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for lineCount := 0; lineCount < markerLines && scanner.Scan(); lineCount++ {
		if strings.Contains(scanner.Text(), "Installed by hookrun") {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, bufio.ErrTooLong) {
		return false, err
	}
	return false, nil
}

// Permission modes for shims and the hooks directory.
const (
	execPerm = 0o755
	dirPerm  = 0o755
)

// InstallShim writes the shim for event into hooksDir, creating the directory
// if needed. An existing hook that hookrun did not write is left alone and
// ErrForeignHook is returned, unless force is set. Event names failing
// ValidateEventName are rejected with ErrInvalidEvent.
func InstallShim(hooksDir, event string, force bool) (string, error) {
	if err := ValidateEventName(event); err != nil {
		return "", err
	}
	path := filepath.Join(hooksDir, event)

	managed, err := IsManaged(path)
	if err != nil {
		return path, err
	}
	if !managed && !force {
		if _, statErr := os.Stat(path); statErr == nil {
			return path, fmt.Errorf("%w: %s", ErrForeignHook, path)
		}
	}

	if err := os.MkdirAll(hooksDir, dirPerm); err != nil {
		return path, fmt.Errorf("creating hooks directory: %w", err)
	}

	slog.Debug("writing shim",
		slog.String(log.Path, path),
		slog.String(log.Event, event))

	// #nosec G306 -- hooks must be executable
	if err := os.WriteFile(path, []byte(GenerateShim(NewShimParams(event))), execPerm); err != nil {
		return path, err
	}
	// WriteFile keeps the mode of a file it overwrites.
	if err := os.Chmod(path, execPerm); err != nil {
		return path, err
	}
	return path, nil
}

// RemoveShim removes the shim for event from hooksDir. It reports false
// without error when the file is missing or was not written by hookrun.
func RemoveShim(hooksDir, event string) (bool, error) {
	if err := ValidateEventName(event); err != nil {
		return false, err
	}
	path := filepath.Join(hooksDir, event)

	managed, err := IsManaged(path)
	if err != nil {
		return false, err
	}
	if !managed {
		slog.Debug("leaving hook in place",
			slog.String(log.Path, path))
		return false, nil
	}

	if err := os.Remove(path); err != nil {
		return false, err
	}
	return true, nil
}
