// Package version reports which hookrun build is running.
package version

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/yaklabco/hookrun/pkg/ui"
)

// Build metadata, overridden at release time via:
//
//	-ldflags "-X github.com/yaklabco/hookrun/cmd/hookrun/version.Version=v0.1.0"
var (
	Version   = "dev" //nolint:gochecknoglobals // Populated by goreleaser ldflags.
	Commit    = ""    //nolint:gochecknoglobals // Populated by goreleaser ldflags.
	BuildDate = ""    //nolint:gochecknoglobals // Populated by goreleaser ldflags.
)

// Build is the resolved version, commit and build time of the binary.
type Build struct {
	Version string
	Commit  string
	Time    time.Time
	RawTime string
}

// readBuildInfo is swapped out in tests.
var readBuildInfo = debug.ReadBuildInfo //nolint:gochecknoglobals // test seam

// Current resolves the build metadata. Values injected through ldflags win;
// otherwise the Go build info is consulted (the module version for
// `go install module@version`, then the VCS stamp).
func Current(_ context.Context) Build {
	settings := map[string]string{}
	mainVersion := ""
	if info, ok := readBuildInfo(); ok && info != nil {
		mainVersion = strings.TrimSpace(info.Main.Version)
		for _, setting := range info.Settings {
			settings[setting.Key] = setting.Value
		}
	}

	var build Build

	switch version := strings.TrimSpace(Version); {
	case version != "" && version != "dev":
		build.Version = version
	case mainVersion != "" && mainVersion != "(devel)":
		build.Version = mainVersion
	case settings["vcs.revision"] != "":
		build.Version = settings["vcs.revision"]
		if settings["vcs.modified"] == "true" {
			build.Version += "-dirty"
		}
	default:
		build.Version = "dev"
	}

	build.Commit = strings.TrimSpace(Commit)
	if build.Commit == "" {
		build.Commit = settings["vcs.revision"]
	}

	build.RawTime = strings.TrimSpace(BuildDate)
	if build.RawTime == "" {
		build.RawTime = settings["vcs.time"]
	}
	if parsed, ok := parseTime(build.RawTime); ok {
		build.Time = parsed
	}

	return build
}

func parseTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// parts returns the version, commit and build time that are known, in order.
func (b Build) parts() []string {
	parts := []string{b.Version}
	if b.Commit != "" && b.Commit != b.Version {
		parts = append(parts, b.Commit)
	}
	switch {
	case !b.Time.IsZero():
		parts = append(parts, b.Time.In(time.Local).Format(time.RFC3339))
	case b.RawTime != "":
		parts = append(parts, b.RawTime)
	}
	return parts
}

// String joins the known parts with "-".
func (b Build) String() string {
	return strings.Join(b.parts(), "-")
}

// Colorized renders the same line with the colors fang uses for help output.
func (b Build) Colorized() string {
	colorScheme := ui.GetFangScheme()
	styles := []lipgloss.Style{
		lipgloss.NewStyle().Foreground(colorScheme.QuotedString),
		lipgloss.NewStyle().Foreground(colorScheme.Program),
		lipgloss.NewStyle().Foreground(colorScheme.Flag),
	}
	sep := lipgloss.NewStyle().Foreground(colorScheme.Base).Render("-")

	parts := b.parts()
	for i, part := range parts {
		parts[i] = styles[min(i, len(styles)-1)].Render(part)
	}
	return strings.Join(parts, sep)
}

// OverallVersionStringColorized is the version line shown by --version.
func OverallVersionStringColorized(ctx context.Context) string {
	return Current(ctx).Colorized()
}
