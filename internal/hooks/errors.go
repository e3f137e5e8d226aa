package hooks

import (
	"errors"
	"fmt"

	"github.com/yaklabco/hookrun/internal/ish"
)

// Exit statuses carried by run errors.
const (
	// StatusUserError is returned for problems the caller can fix, such as a
	// missing hook or an unreadable stdin file.
	StatusUserError = 1

	// StatusFatal is returned when the run cannot proceed because of
	// inconsistent configuration or API misuse.
	StatusFatal = 128
)

// User errors.
var (
	ErrNoHook    = errors.New("cannot find a hook named")
	ErrStdinOpen = errors.New("could not open stdin file")
)

// Configuration errors.
var (
	ErrMissingCommand = errors.New("missing command for hook")
)

// Contract errors, returned when Run is called incorrectly.
var (
	ErrNilOptions    = errors.New("run options are required")
	ErrStdinConflict = errors.New("stdin file and generated stdin lines are mutually exclusive")
)

// ErrHookVanished is returned when the filesystem hook lost its path between
// discovery and dispatch.
var ErrHookVanished = errors.New("hook path vanished")

type statusError struct {
	code int
	error
}

func (e statusError) ExitStatus() int {
	return e.code
}

func (e statusError) Unwrap() error {
	return e.error
}

func userErrorf(format string, args ...any) error {
	return statusError{code: StatusUserError, error: fmt.Errorf(format, args...)}
}

func fatalErrorf(format string, args ...any) error {
	return statusError{code: StatusFatal, error: fmt.Errorf(format, args...)}
}

// ExitStatus returns the exit status an error from this package carries. It
// returns 0 for nil and 1 for errors that carry no status.
func ExitStatus(err error) int {
	return ish.ExitStatus(err)
}

// IsFatal reports whether err carries the fatal exit status.
func IsFatal(err error) bool {
	return err != nil && ExitStatus(err) == StatusFatal
}
