package version

import (
	"runtime/debug"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func stubBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	original := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	t.Cleanup(func() { readBuildInfo = original })
}

func setLdflags(t *testing.T, version, commit, date string) {
	t.Helper()
	oldVersion, oldCommit, oldDate := Version, Commit, BuildDate
	Version, Commit, BuildDate = version, commit, date
	t.Cleanup(func() { Version, Commit, BuildDate = oldVersion, oldCommit, oldDate })
}

func TestCurrent(t *testing.T) {
	vcs := &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "vcs.time", Value: "2025-01-02T03:04:05Z"},
		},
	}

	tests := []struct {
		name        string
		ldVersion   string
		ldCommit    string
		ldDate      string
		info        *debug.BuildInfo
		wantVersion string
		wantCommit  string
		wantRaw     string
	}{
		{
			name:        "ldflags win",
			ldVersion:   "v1.2.3",
			ldCommit:    "deadbeef",
			ldDate:      "2025-06-01T00:00:00Z",
			info:        vcs,
			wantVersion: "v1.2.3",
			wantCommit:  "deadbeef",
			wantRaw:     "2025-06-01T00:00:00Z",
		},
		{
			name:        "go install version",
			ldVersion:   "dev",
			info:        &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}},
			wantVersion: "v0.4.0",
		},
		{
			name:        "vcs stamp",
			ldVersion:   "dev",
			info:        vcs,
			wantVersion: "abc123-dirty",
			wantCommit:  "abc123",
			wantRaw:     "2025-01-02T03:04:05Z",
		},
		{
			name:        "nothing known",
			ldVersion:   "",
			wantVersion: "dev",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setLdflags(t, tt.ldVersion, tt.ldCommit, tt.ldDate)
			stubBuildInfo(t, tt.info)

			build := Current(t.Context())
			assert.Equal(t, tt.wantVersion, build.Version)
			assert.Equal(t, tt.wantCommit, build.Commit)
			assert.Equal(t, tt.wantRaw, build.RawTime)
			assert.Equal(t, tt.wantRaw != "", !build.Time.IsZero())
		})
	}
}

func TestBuild_String(t *testing.T) {
	stamp := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, "dev", Build{Version: "dev"}.String())
	assert.Equal(t, "v1.0.0-abc", Build{Version: "v1.0.0", Commit: "abc"}.String())
	assert.Equal(t, "abc", Build{Version: "abc", Commit: "abc"}.String(), "commit is not repeated")
	assert.Equal(t, "v1.0.0-not a time", Build{Version: "v1.0.0", RawTime: "not a time"}.String())
	assert.Equal(t,
		"v1.0.0-"+stamp.In(time.Local).Format(time.RFC3339),
		Build{Version: "v1.0.0", Time: stamp, RawTime: "ignored"}.String())
}

func TestBuild_ColorizedKeepsText(t *testing.T) {
	setLdflags(t, "v9.9.9", "", "")
	stubBuildInfo(t, nil)

	assert.Contains(t, OverallVersionStringColorized(t.Context()), "v9.9.9")
}
