// Package ish holds the process-level helpers hookrun needs: building shell
// invocations for configured hook commands and decoding exit statuses.
package ish

import (
	"errors"
	"os/exec"
	"runtime"
	"syscall"
)

// signalBase is added to the signal number of a killed process, matching the
// status a POSIX shell reports.
const signalBase = 128

// ShellCommand returns the program and arguments that run command through the
// platform shell with args passed verbatim as positional parameters.
//
// On Unix the command runs as `sh -c '<command> "$@"' '<command>' args...`, so
// the command string may use shell syntax while args are never re-split.
func ShellCommand(command string, args []string) (string, []string) {
	if runtime.GOOS == "windows" {
		shellArgs := make([]string, 0, len(args)+2)
		shellArgs = append(shellArgs, "/C", command)
		return "cmd", append(shellArgs, args...)
	}

	script := command
	if len(args) > 0 {
		script += ` "$@"`
	}
	shellArgs := make([]string, 0, len(args)+3)
	shellArgs = append(shellArgs, "-c", script, command)
	return "sh", append(shellArgs, args...)
}

// CmdRan examines the error to determine if it was generated as a result of a
// command running via os/exec.Command.
func CmdRan(err error) bool {
	if err == nil {
		return true
	}
	var ee *exec.ExitError
	ok := errors.As(err, &ee)
	if ok {
		return ee.Exited()
	}
	return false
}

// ExitStatuser is implemented by errors that carry an exit status.
type ExitStatuser interface {
	ExitStatus() int
}

// ExitStatus returns the exit status of the error if it is an exec.ExitError
// or if it implements ExitStatus() int. A process killed by a signal reports
// 128 plus the signal number. It returns 0 for nil and 1 for any other error.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exit ExitStatuser
	if errors.As(err, &exit) {
		return exit.ExitStatus()
	}
	var e *exec.ExitError
	if errors.As(err, &e) {
		if ws, ok := e.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return signalBase + int(ws.Signal())
		}
		if code := e.ExitCode(); code >= 0 {
			return code
		}
	}
	return 1
}
