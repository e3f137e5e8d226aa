package config

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestResolveConfigHome_WithXDGEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/xdg/config")

	result := resolveConfigHome()
	if result != "/custom/xdg/config" {
		t.Errorf("resolveConfigHome() = %q, want %q", result, "/custom/xdg/config")
	}
}

func TestResolveConfigHome_FallsBackToHome(t *testing.T) {
	if runtime.GOOS == osWindows {
		t.Skip("APPDATA takes precedence on Windows")
	}
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tester")

	result := resolveConfigHome()
	if result != filepath.Join("/home/tester", ".config") {
		t.Errorf("resolveConfigHome() = %q, want %q", result, "/home/tester/.config")
	}
}

func TestUserHomeDir(t *testing.T) {
	home := userHomeDir()
	if home == "" {
		t.Skip("Could not determine home directory")
	}

	// Should be an absolute path
	if home[0] != '/' && (runtime.GOOS != osWindows || (len(home) < 2 || home[1] != ':')) {
		t.Errorf("userHomeDir() = %q, should be absolute path", home)
	}
}

func TestXDGPaths_Methods(t *testing.T) {
	paths := XDGPaths{
		ConfigHome: "/config",
	}

	tests := []struct {
		name     string
		method   func() string
		expected string
	}{
		{"ConfigDir", paths.ConfigDir, filepath.Join("/config", "hookrun")},
		{"ConfigFilePath", paths.ConfigFilePath, filepath.Join("/config", "hookrun", "config.yaml")},
		{"ProjectConfigPath", func() string { return ProjectConfigPath("/repo") }, filepath.Join("/repo", ".hookrun.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.method(); got != tt.expected {
				t.Errorf("%s() = %q, want %q", tt.name, got, tt.expected)
			}
		})
	}
}
