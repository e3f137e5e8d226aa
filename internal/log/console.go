package log

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/yaklabco/hookrun/pkg/ui"
)

// Console writes git-style prefixed messages ("hint: ", "error: ", "fatal: ")
// for the user, as opposed to slog records meant for debugging.
type Console struct {
	w      io.Writer
	styles ui.PrefixStyles
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w, styles: ui.GetPrefixStyles()}
}

type prefixKind int

const (
	hintPrefix prefixKind = iota
	errorPrefix
	fatalPrefix
)

// Hint writes each line of the formatted message prefixed with "hint: ".
func (c *Console) Hint(format string, args ...any) {
	c.write(hintPrefix, format, args...)
}

// Error writes the formatted message prefixed with "error: ".
func (c *Console) Error(format string, args ...any) {
	c.write(errorPrefix, format, args...)
}

// Fatal writes the formatted message prefixed with "fatal: ".
func (c *Console) Fatal(format string, args ...any) {
	c.write(fatalPrefix, format, args...)
}

// render styles the prefix word. A nil Console is a no-op, so this is only
// reached with c set.
func (c *Console) render(kind prefixKind) string {
	switch kind {
	case errorPrefix:
		return c.styles.Error.Render("error:")
	case fatalPrefix:
		return c.styles.Fatal.Render("fatal:")
	default:
		return c.styles.Hint.Render("hint:")
	}
}

func (c *Console) write(kind prefixKind, format string, args ...any) {
	if c == nil || c.w == nil {
		return
	}
	prefix := c.render(kind)
	var b strings.Builder
	for _, line := range strings.Split(fmt.Sprintf(format, args...), "\n") {
		b.WriteString(prefix)
		if line != "" {
			b.WriteByte(' ')
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
	// Fprint downsamples colors to what w supports and strips them for non-terminals.
	_, _ = lipgloss.Fprint(c.w, b.String())
}
