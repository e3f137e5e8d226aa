package config

import (
	"github.com/spf13/viper"
)

// Default configuration values.
const (
	// DefaultVerbose is the default verbose setting.
	DefaultVerbose = false

	// DefaultDebug is the default debug setting.
	DefaultDebug = false

	// DefaultJobs is the default hook.jobs setting; zero defers to the CPU count.
	DefaultJobs = 0

	// DefaultAdviceIgnoredHook controls whether the non-executable hook hint is shown.
	DefaultAdviceIgnoredHook = true
)

// setDefaults configures default values in the viper instance.
func setDefaults(viperInstance *viper.Viper) {
	viperInstance.SetDefault("verbose", DefaultVerbose)
	viperInstance.SetDefault("debug", DefaultDebug)
	viperInstance.SetDefault(JobsKey, DefaultJobs)
	viperInstance.SetDefault("advice.ignored_hook", DefaultAdviceIgnoredHook)
	viperInstance.SetDefault("core.hooks_path", "")
}
