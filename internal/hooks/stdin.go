package hooks

import (
	"bytes"
	"io"
	"os"

	"github.com/yaklabco/hookrun/internal/parallelism"
)

// feedCursor tracks how far a hook has read through generated stdin lines.
// The zero value is inactive.
type feedCursor struct {
	active bool
	index  int
}

// step returns the line at the cursor and the advanced cursor. When the lines
// are exhausted it returns an inactive cursor and ok == false, so the next
// dispatch of the same hook starts over.
func (c feedCursor) step(lines []string) (feedCursor, string, bool) {
	if !c.active {
		c = feedCursor{active: true}
	}
	if c.index >= len(lines) {
		return feedCursor{}, "", false
	}
	return feedCursor{active: true, index: c.index + 1}, lines[c.index], true
}

// stdinFeeder decides what each dispatched hook reads on standard input.
type stdinFeeder interface {
	// open returns the stdin mode and, for StdinReader, the reader for hook.
	open(hook *Hook) (parallelism.StdinMode, io.Reader, error)

	// feed appends the next chunk of input for hook and reports whether the
	// input is complete.
	feed(hook *Hook, buf *bytes.Buffer) bool
}

// newStdinFeeder selects the feeder for a run. Setting both a stdin file and
// generated lines is a caller error.
func newStdinFeeder(opts *RunOptions) (stdinFeeder, error) {
	switch {
	case opts.StdinFile != "" && opts.StdinLines != nil:
		return nil, fatalErrorf("%w", ErrStdinConflict)
	case opts.StdinFile != "":
		return fileStdin{path: opts.StdinFile}, nil
	case opts.StdinLines != nil:
		return linesStdin{lines: opts.StdinLines}, nil
	default:
		return noStdin{}, nil
	}
}

type noStdin struct{}

func (noStdin) open(*Hook) (parallelism.StdinMode, io.Reader, error) {
	return parallelism.StdinNone, nil, nil
}

func (noStdin) feed(*Hook, *bytes.Buffer) bool {
	return true
}

// fileStdin reopens the same file for every hook, so each one reads it from
// the start.
type fileStdin struct {
	path string
}

func (f fileStdin) open(*Hook) (parallelism.StdinMode, io.Reader, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return parallelism.StdinNone, nil, userErrorf("%w '%s': %w", ErrStdinOpen, f.path, err)
	}
	return parallelism.StdinReader, file, nil
}

func (fileStdin) feed(*Hook, *bytes.Buffer) bool {
	return true
}

// linesStdin writes each line followed by a newline, one line per poll.
type linesStdin struct {
	lines []string
}

func (linesStdin) open(hook *Hook) (parallelism.StdinMode, io.Reader, error) {
	hook.feed = feedCursor{}
	return parallelism.StdinPipe, nil, nil
}

func (s linesStdin) feed(hook *Hook, buf *bytes.Buffer) bool {
	next, line, ok := hook.feed.step(s.lines)
	hook.feed = next
	if !ok {
		return true
	}
	buf.WriteString(line)
	buf.WriteByte('\n')
	return false
}
