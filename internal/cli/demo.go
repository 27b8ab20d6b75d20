package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bnema/undock/internal/config"
	"github.com/bnema/undock/internal/demo"
	"github.com/bnema/undock/internal/logging"
)

// NewDemoCmd creates the demo command.
func NewDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive docking playground",
		Long: `Run the docking playground in the terminal.

Windows are bordered boxes on the desk. Drag a pane title or a tab with
the mouse to rearrange, drag past the tear-off distance to open a new
window, and drag a window's title row over a dock to dock it back.
Layouts autosave to the layout database between runs.`,
		RunE: runDemo,
	}
	cmd.Flags().Bool("no-persist", false, "Run without the layout database")
	cmd.Flags().String("log-file", "", "Append debug logs to a file")
	cmd.Flags().String("render-dir", "", "Directory for rendered PNG snapshots (default current directory)")
	return cmd
}

func runDemo(cmd *cobra.Command, _ []string) error {
	// The playground owns the alternate screen, so stderr logging is
	// out; logs go to a file or nowhere.
	log := zerolog.Nop()
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()

		level, lerr := zerolog.ParseLevel(config.Get().Logging.Level)
		if lerr != nil {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(f).Level(level).With().Timestamp().Logger()
	}

	cfg := *config.Get()
	if noPersist, _ := cmd.Flags().GetBool("no-persist"); noPersist {
		cfg.Layouts.Path = ""
	}
	renderDir, _ := cmd.Flags().GetString("render-dir")

	// Replace the stderr logger riding on the context so nothing can
	// write over the alternate screen.
	ctx := logging.WithContext(cmd.Context(), log)
	return demo.Run(ctx, &cfg, renderDir, log)
}
