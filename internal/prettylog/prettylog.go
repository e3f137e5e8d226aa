// Package prettylog installs a charmbracelet/log handler as the default slog logger.
package prettylog

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// Level picks the log level from the debug and verbose switches.
func Level(debug, verbose bool) log.Level {
	switch {
	case debug:
		return log.DebugLevel
	case verbose:
		return log.InfoLevel
	default:
		return log.WarnLevel
	}
}

// Setup installs a charmbracelet/log handler writing to w as the default slog
// logger and returns it so callers can adjust it further.
func Setup(w io.Writer, level log.Level) *log.Logger {
	logHandler := log.NewWithOptions(
		w,
		log.Options{
			Level:           level,
			ReportTimestamp: true,
			ReportCaller:    level == log.DebugLevel,
			Prefix:          "hookrun",
		},
	)
	slog.SetDefault(slog.New(logHandler))

	return logHandler
}
