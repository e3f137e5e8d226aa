package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/viper"

	"github.com/yaklabco/hookrun/internal/env"
)

// Config holds hookrun settings together with the ordered entry snapshot that
// hook declarations are scanned from.
type Config struct {
	// Verbose enables informational output.
	Verbose bool `mapstructure:"verbose"`

	// Debug enables debug messages.
	Debug bool `mapstructure:"debug"`

	// Hook holds the scalar settings of the hook section.
	Hook HookSettings `mapstructure:"hook"`

	// Advice toggles optional hints.
	Advice AdviceSettings `mapstructure:"advice"`

	// Core holds repository-level settings.
	Core CoreSettings `mapstructure:"core"`

	// Entries is every key/value pair seen, in load order.
	Entries *Entries `mapstructure:"-"`

	// configFiles lists the files that were loaded, in load order.
	configFiles []string
}

// HookSettings holds scalar settings under the "hook" key. Named hook
// declarations live in the same section and are read from Entries.
type HookSettings struct {
	// Jobs is the number of hooks to run in parallel. Zero means the CPU count.
	Jobs int `mapstructure:"jobs"`
}

// AdviceSettings toggles hints printed to the user.
type AdviceSettings struct {
	// IgnoredHook prints a hint when a hook file exists but is not executable.
	IgnoredHook bool `mapstructure:"ignored_hook"`
}

// CoreSettings holds repository-level settings.
type CoreSettings struct {
	// HooksPath overrides the directory filesystem hooks are looked up in.
	// Relative paths are resolved against the project directory.
	HooksPath string `mapstructure:"hooks_path"`
}

// ConfigFiles returns the paths of the configuration files that were loaded.
func (c *Config) ConfigFiles() []string {
	return c.configFiles
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectDir is the directory to search for project-level config.
	// If empty, the current working directory is used.
	ProjectDir string

	// Overrides are "key=value" assignments applied after all files.
	Overrides []string

	// Stderr is where warnings are written.
	// If nil, os.Stderr is used.
	Stderr io.Writer

	// SkipProjectConfig skips loading project-level configuration.
	SkipProjectConfig bool

	// SkipUserConfig skips loading user-level configuration.
	SkipUserConfig bool

	// SkipEnv skips reading environment variables.
	SkipEnv bool
}

// Load reads configuration from all sources and returns a Config struct.
// Configuration is loaded in the following order (later sources override
// earlier ones for scalar settings, and append to Entries):
//  1. Defaults
//  2. User config file (~/.config/hookrun/config.yaml)
//  3. Project config file (<project>/.hookrun.yaml)
//  4. Command-line overrides (-c key=value)
//  5. Environment variables (HOOKRUN_*), scalar settings only
//
// If opts is nil, default options are used.
func Load(opts *LoadOptions) (*Config, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}

	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	viperInstance := viper.New()
	setDefaults(viperInstance)
	viperInstance.SetConfigType("yaml")

	entries := &Entries{}
	var configFiles []string

	if !opts.SkipUserConfig {
		userConfigPath := ResolveXDGPaths().ConfigFilePath()
		loaded, err := mergeFile(viperInstance, entries, userConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read user config file: %w", err)
		}
		if loaded {
			configFiles = append(configFiles, userConfigPath)
		}
	}

	if !opts.SkipProjectConfig {
		projectDir := opts.ProjectDir
		if projectDir == "" {
			var err error
			projectDir, err = os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		projectConfigPath := ProjectConfigPath(projectDir)
		loaded, err := mergeFile(viperInstance, entries, projectConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read project config file: %w", err)
		}
		if loaded {
			configFiles = append(configFiles, projectConfigPath)
		}
	}

	for _, assignment := range opts.Overrides {
		entry, err := ParseOverride(assignment)
		if err != nil {
			return nil, err
		}
		entries.Add(entry.Key, entry.Value, entry.Origin)
		viperInstance.Set(entry.Key, entry.Value)
	}

	var cfg Config
	if err := viperInstance.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if !opts.SkipEnv {
		if err := applyEnvironmentOverrides(&cfg); err != nil {
			return nil, err
		}
	}

	cfg.Entries = entries
	cfg.configFiles = configFiles

	slog.Debug("configuration loaded",
		slog.Any("files", configFiles),
		slog.Int("entries", entries.Len()))

	result := cfg.Validate()
	result.WriteWarnings(opts.Stderr)
	if err := result.Err(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeFile merges a YAML file into both the viper settings and the ordered
// entry snapshot. A missing file is not an error.
func mergeFile(viperInstance *viper.Viper, entries *Entries, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	parsed, err := ParseEntries(data, path)
	if err != nil {
		return false, err
	}
	if err := viperInstance.MergeConfig(bytes.NewReader(data)); err != nil {
		return false, fmt.Errorf("merging %s: %w", path, err)
	}

	for _, entry := range parsed {
		entries.Add(entry.Key, entry.Value, entry.Origin)
	}
	return true, nil
}

// Environment variables that override scalar settings.
const (
	EnvDebug   = "HOOKRUN_DEBUG"
	EnvVerbose = "HOOKRUN_VERBOSE"
	EnvJobs    = "HOOKRUN_JOBS"
)

// applyEnvironmentOverrides applies environment variable overrides to the config.
// Environment variables take precedence over config file values.
func applyEnvironmentOverrides(cfg *Config) error {
	for envVar, target := range map[string]*bool{EnvDebug: &cfg.Debug, EnvVerbose: &cfg.Verbose} {
		value, set, err := env.LookupBool(envVar)
		if err != nil {
			return err
		}
		if set {
			*target = value
		}
	}
	if v := os.Getenv(EnvJobs); v != "" {
		jobs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvJobs, v, err)
		}
		cfg.Hook.Jobs = jobs
	}
	return nil
}

// DefaultConfig returns a Config with all default values and no entries.
func DefaultConfig() *Config {
	return &Config{
		Verbose: DefaultVerbose,
		Debug:   DefaultDebug,
		Hook: HookSettings{
			Jobs: DefaultJobs,
		},
		Advice: AdviceSettings{
			IgnoredHook: DefaultAdviceIgnoredHook,
		},
		Entries: &Entries{},
	}
}
