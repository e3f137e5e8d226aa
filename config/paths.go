// Package config loads hookrun settings and the ordered hook declarations
// from the user and project configuration files.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the application name used in configuration paths.
const AppName = "hookrun"

// ConfigFileName is the name of the user configuration file (without extension).
const ConfigFileName = "config"

// ProjectConfigFileName is the name of the project configuration file (without extension).
const ProjectConfigFileName = ".hookrun"

// osWindows is the GOOS value for Windows.
const osWindows = "windows"

// XDGPaths holds the resolved XDG base directory paths for the current platform.
type XDGPaths struct {
	ConfigHome string // User configuration directory
}

// ResolveXDGPaths returns the XDG base directory paths for the current platform.
// It respects XDG environment variables on Linux and uses platform-appropriate
// defaults on macOS and Windows.
func ResolveXDGPaths() XDGPaths {
	return XDGPaths{
		ConfigHome: resolveConfigHome(),
	}
}

// ConfigDir returns the application-specific configuration directory.
func (p XDGPaths) ConfigDir() string {
	return filepath.Join(p.ConfigHome, AppName)
}

// ConfigFilePath returns the full path to the configuration file.
func (p XDGPaths) ConfigFilePath() string {
	return filepath.Join(p.ConfigDir(), ConfigFileName+".yaml")
}

// ProjectConfigPath returns the path of the project configuration file in dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigFileName+".yaml")
}

// resolveConfigHome returns the XDG_CONFIG_HOME equivalent for the current platform.
func resolveConfigHome() string {
	// Check XDG_CONFIG_HOME first (works on all platforms if user sets it)
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}

	home := userHomeDir()

	switch runtime.GOOS {
	case osWindows:
		// Windows: use APPDATA
		if appData := os.Getenv("APPDATA"); appData != "" {
			return appData
		}
		return filepath.Join(home, "AppData", "Roaming")
	default:
		// Linux, macOS and other Unix: ~/.config
		return filepath.Join(home, ".config")
	}
}

// userHomeDir returns the user's home directory.
func userHomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	// Windows fallback
	if home := os.Getenv("USERPROFILE"); home != "" {
		return home
	}
	// Last resort for Windows
	if drive := os.Getenv("HOMEDRIVE"); drive != "" {
		if path := os.Getenv("HOMEPATH"); path != "" {
			return filepath.Join(drive, path)
		}
	}
	return ""
}
