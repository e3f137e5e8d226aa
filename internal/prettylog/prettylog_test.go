package prettylog

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, log.DebugLevel, Level(true, true))
	assert.Equal(t, log.DebugLevel, Level(true, false))
	assert.Equal(t, log.InfoLevel, Level(false, true))
	assert.Equal(t, log.WarnLevel, Level(false, false))
}

func TestSetup_InstallsDefaultLogger(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	handler := Setup(&buf, log.InfoLevel)

	slog.Debug("hidden message")
	slog.Info("visible message", slog.String("hook", "lint"))

	out := buf.String()
	assert.NotContains(t, out, "hidden message")
	assert.Contains(t, out, "visible message")
	assert.Contains(t, out, "lint")

	handler.SetLevel(log.DebugLevel)
	slog.Debug("now shown")
	assert.Contains(t, buf.String(), "now shown")
}
