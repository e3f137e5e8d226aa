// Package parallelism decides how many hooks may run at once and runs them
// as OS processes pulled from a TaskSource.
package parallelism

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/yaklabco/hookrun/internal/log"
)

// NumProcessorsEnvVar overrides the detected CPU count.
const NumProcessorsEnvVar = "HOOKRUN_NUM_PROCESSORS"

func getNumProcessors() int {
	return runtime.NumCPU()
}

// NumProcessors returns the processor count from HOOKRUN_NUM_PROCESSORS, or
// the detected CPU count when the variable is unset.
func NumProcessors() (int, error) {
	strFromEnv := strings.TrimSpace(os.Getenv(NumProcessorsEnvVar))
	if strFromEnv == "" {
		return getNumProcessors(), nil
	}

	numProcessors, err := strconv.Atoi(strFromEnv)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", NumProcessorsEnvVar, err)
	}
	if numProcessors < 1 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %d", NumProcessorsEnvVar, numProcessors)
	}
	return numProcessors, nil
}

// ResolveJobs returns configured when it is positive, and the processor count
// otherwise. An invalid processor override is logged and ignored.
func ResolveJobs(configured int) int {
	if configured > 0 {
		return configured
	}

	numProcessors, err := NumProcessors()
	if err != nil {
		slog.Warn("ignoring processor override",
			slog.String(log.Error, err.Error()))
		return getNumProcessors()
	}
	return numProcessors
}
