// Package main provides the main entry point for the undock CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bnema/undock/internal/cli"
	"github.com/bnema/undock/internal/config"
	"github.com/bnema/undock/internal/logging"
)

// Build information set via ldflags
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing configuration: %v\n", err)
		os.Exit(1)
	}

	// Live reload keeps long playground sessions on the current config.
	if err := config.Watch(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to start config watching: %v\n", err)
	}

	cfg := config.Get()
	log := logging.NewFromStrings(cfg.Logging.Level, cfg.Logging.Format)
	log.Debug().
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Msg("starting undock")
	ctx := logging.WithContext(context.Background(), log)

	rootCmd := cli.NewRootCmd(version, commit, buildDate)
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
