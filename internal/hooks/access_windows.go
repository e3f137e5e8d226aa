//go:build windows

package hooks

import (
	"io/fs"
	"os"
)

const stripExtension = ".exe"

// executable reports whether path names a regular file. Windows has no
// execute bit, so any file is runnable.
func executable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &fs.PathError{Op: "access", Path: path, Err: errIsDirectory}
	}
	return nil
}
