package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/undock/internal/export"
	"github.com/bnema/undock/internal/store"
	"github.com/bnema/undock/pkg/geom"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Render a saved layout to a PNG image",
		Long: `Render a saved layout to a PNG image.

The root dock is drawn at the given width and height in layout units,
with every detached and floating window around it. Playground layouts
use one terminal cell per unit, so the defaults match a saved demo
desk.`,
		Args: cobra.ExactArgs(1),
		RunE: runRender,
	}
	cmd.Flags().StringP("out", "o", "", "Output file (default <name>.png)")
	cmd.Flags().Float64("scale", 16, "Pixels per layout unit")
	cmd.Flags().Float64("width", 48, "Root dock width in layout units")
	cmd.Flags().Float64("height", 20, "Root dock height in layout units")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	cli, err := NewCLI(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to initialize CLI: %w", err)
	}
	defer closeCLI(cli)

	snap, err := cli.Store.Load(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no layout named %q", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to load layout: %w", err)
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = args[0] + ".png"
	}
	scale, _ := cmd.Flags().GetFloat64("scale")
	width, _ := cmd.Flags().GetFloat64("width")
	height, _ := cmd.Flags().GetFloat64("height")

	opts := export.Options{
		RootRect:             geom.R(0, 0, width, height),
		Scale:                scale,
		Padding:              2,
		TitleBandHeight:      1,
		TabBarHeight:         1,
		FloatingHeaderHeight: 1,
	}
	if err := export.RenderPNG(snap, out, opts); err != nil {
		return fmt.Errorf("failed to render layout: %w", err)
	}

	fmt.Printf("Rendered %q to %s\n", args[0], out)
	return nil
}
