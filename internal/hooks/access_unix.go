//go:build !windows

package hooks

import (
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// stripExtension is the suffix tried when the bare hook name is not found.
const stripExtension = ""

// executable reports whether path can be executed by the current user.
func executable(path string) error {
	if err := unix.Access(path, unix.X_OK); err != nil {
		return &fs.PathError{Op: "access", Path: path, Err: err}
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return &fs.PathError{Op: "access", Path: path, Err: errIsDirectory}
	}
	return nil
}
