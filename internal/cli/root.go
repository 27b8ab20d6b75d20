// Package cli provides the command-line interface for undock.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bnema/undock/internal/config"
	"github.com/bnema/undock/internal/logging"
	"github.com/bnema/undock/internal/store"
)

// CLI holds the layout store and configuration for the CLI commands.
type CLI struct {
	Config *config.Config
	Store  *store.Store
	Log    zerolog.Logger
}

// NewCLI opens the layout store using the loaded configuration. The
// logger rides in on the command context, attached in main.
func NewCLI(ctx context.Context) (*CLI, error) {
	cfg := config.Get()
	log := logging.FromContext(ctx)

	st, err := store.Open(cfg.Layouts.Path, *log)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout store: %w", err)
	}

	return &CLI{Config: cfg, Store: st, Log: *log}, nil
}

// Close releases the layout store.
func (c *CLI) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// NewRootCmd creates the root command for undock.
func NewRootCmd(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "undock",
		Short: "A docking bridge for multi-window tiling layouts",
		Long: `Undock tears tiles out of a dock tree into their own windows, drags
them between windows and docks them back.

The demo command runs an interactive playground where the terminal grid
plays the desk. Layouts persist to a local SQLite database and can be
listed, rendered to PNG images and deleted from here.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("undock %s\n", version)
			fmt.Printf("commit: %s\n", commit)
			fmt.Printf("built: %s\n", buildDate)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(NewDemoCmd())
	rootCmd.AddCommand(NewLayoutsCmd())
	rootCmd.AddCommand(NewRenderCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}
