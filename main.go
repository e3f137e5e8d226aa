package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/yaklabco/hookrun/cmd/hookrun"
)

func main() {
	os.Exit(actualMain())
}

func actualMain() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exitCode := 0
	rootCmd := hookrun.NewRootCmd(ctx, hookrun.WithExitCode(&exitCode))

	// fang has already printed the error.
	if err := hookrun.ExecuteWithFang(ctx, rootCmd); err != nil {
		return hookrun.StatusUsage
	}

	return exitCode
}
