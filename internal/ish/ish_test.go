package ish

import (
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusErr struct{ code int }

func (e statusErr) Error() string   { return "status" }
func (e statusErr) ExitStatus() int { return e.code }

func TestExitStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ExitStatus(nil))
	assert.Equal(t, 1, ExitStatus(errors.New("boom")))
	assert.Equal(t, 7, ExitStatus(statusErr{code: 7}))
}

func TestExitStatus_FromProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	t.Parallel()

	err := exec.Command("sh", "-c", "exit 3").Run()
	require.Error(t, err)
	assert.True(t, CmdRan(err))
	assert.Equal(t, 3, ExitStatus(err))
}

func TestExitStatus_Signaled(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires POSIX signals")
	}
	t.Parallel()

	err := exec.Command("sh", "-c", "kill -TERM $$").Run()
	require.Error(t, err)
	assert.False(t, CmdRan(err))
	assert.Equal(t, 128+15, ExitStatus(err))
}

func TestCmdRan_NotFound(t *testing.T) {
	t.Parallel()

	err := exec.Command("hookrun-definitely-not-a-binary").Run()
	require.Error(t, err)
	assert.False(t, CmdRan(err))
	assert.True(t, CmdRan(nil))
}

func TestShellCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix shell layout")
	}
	t.Parallel()

	name, args := ShellCommand("make lint", nil)
	assert.Equal(t, "sh", name)
	assert.Equal(t, []string{"-c", "make lint", "make lint"}, args)

	name, args = ShellCommand("echo", []string{"a b", "$HOME"})
	assert.Equal(t, "sh", name)
	assert.Equal(t, []string{"-c", `echo "$@"`, "echo", "a b", "$HOME"}, args)
}

func TestShellCommand_ArgsPassedVerbatim(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	t.Parallel()

	name, args := ShellCommand(`printf '%s|'`, []string{"a b", "$HOME", "*"})
	out, err := exec.Command(name, args...).Output()
	require.NoError(t, err)
	assert.Equal(t, "a b|$HOME|*|", string(out))
}
