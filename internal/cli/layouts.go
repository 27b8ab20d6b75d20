package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bnema/undock/internal/store"
	"github.com/bnema/undock/pkg/dock"
)

const timestampDisplay = "2006-01-02 15:04"

// NewLayoutsCmd creates the layouts command.
func NewLayoutsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "Manage saved layouts",
		Long: `Manage saved layouts with various subcommands:
  list   - Show saved layouts
  show   - Print a layout's dock tree
  delete - Delete a saved layout`,
		RunE: listLayouts,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved layouts",
		RunE:  listLayouts,
	}

	showCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a layout's dock tree",
		Long:  `Print the dock trees of a saved layout: the root dock, every detached window and every floating window.`,
		Args:  cobra.ExactArgs(1),
		RunE:  showLayout,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved layout",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteLayout,
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(showCmd)
	cmd.AddCommand(deleteCmd)

	return cmd
}

func listLayouts(cmd *cobra.Command, _ []string) error {
	cli, err := NewCLI(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to initialize CLI: %w", err)
	}
	defer closeCLI(cli)

	entries, err := cli.Store.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list layouts: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No saved layouts.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() {
		_ = w.Flush()
	}()

	fmt.Fprintln(w, "NAME\tCREATED\tUPDATED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name,
			e.CreatedAt.Local().Format(timestampDisplay),
			e.UpdatedAt.Local().Format(timestampDisplay))
	}
	return nil
}

func showLayout(cmd *cobra.Command, args []string) error {
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

	// Rebuild a bridge around the snapshot so placements and trees
	// print the way the running program would see them.
	b := dock.New(dock.DefaultOptions(), nil, nil, zerolog.Nop())
	if err := b.Restore(snap); err != nil {
		return fmt.Errorf("failed to restore layout: %w", err)
	}

	fmt.Printf("layout %q\n\nroot dock:\n", args[0])
	fmt.Print(b.Tree().String())

	for _, vp := range b.Detached() {
		p, ok := b.Placement(vp)
		title := ""
		if ok {
			title = p.Title
		}
		fmt.Printf("\ndetached %s %q:\n", vp, title)
		if d, found := b.DetachedDock(vp); found {
			fmt.Print(d.Tree().String())
		}
	}

	for _, vp := range b.Viewports() {
		for _, id := range b.FloatingIDs(vp) {
			f, found := b.Floating(vp, id)
			if !found {
				continue
			}
			fmt.Printf("\nfloating %d on %s:\n", id, vp)
			fmt.Print(f.Tree().String())
		}
	}
	return nil
}

func deleteLayout(cmd *cobra.Command, args []string) error {
	cli, err := NewCLI(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to initialize CLI: %w", err)
	}
	defer closeCLI(cli)

	err = cli.Store.Delete(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no layout named %q", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to delete layout: %w", err)
	}

	fmt.Printf("Deleted layout %q\n", args[0])
	return nil
}

func closeCLI(c *CLI) {
	if err := c.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close layout store: %v\n", err)
	}
}
