package demo

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rs/zerolog"

	"github.com/bnema/undock/internal/config"
	"github.com/bnema/undock/internal/store"
	"github.com/bnema/undock/pkg/dock"
	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

// autosaveLayout is the store slot the autosaver writes between runs.
const autosaveLayout = "autosave"

// cellOptions rescales the bridge's pixel-tuned geometry to terminal
// cells. The behavior switches still come from the config file; only
// the distances shrink.
func cellOptions(cfg *config.Config) dock.Options {
	opts := cfg.BridgeOptions()
	opts.Layout = tiles.LayoutParams{TabBarHeight: 1, Gap: 1}
	opts.TearOffThreshold = 2
	opts.OuterBandPx = 1
	opts.TitleBandHeight = 1
	opts.CrossButtonSize = 3
	opts.CrossButtonGap = 1
	opts.FloatingHeaderHeight = 1
	opts.DefaultDetachedSize = geom.Sz(34, 12)
	opts.MinDetachedSize = geom.Sz(20, 8)
	opts.DefaultFloatingSize = geom.Sz(24, 8)
	return opts
}

// Run starts the playground and blocks until it exits. Rendered PNG
// snapshots land in renderDir, or the working directory when empty.
func Run(ctx context.Context, cfg *config.Config, renderDir string, log zerolog.Logger) error {
	zone.NewGlobal()

	backend := newDemoBackend(log)
	panes := newPaneSet()
	bridge := dock.New(cellOptions(cfg), backend, panes, log)

	var (
		st    *store.Store
		saver *store.Autosaver
	)
	if cfg.Layouts.Path != "" {
		var err error
		st, err = store.Open(cfg.Layouts.Path, log)
		if err != nil {
			// The playground still works without persistence.
			log.Warn().Err(err).Msg("layout store unavailable")
			st = nil
		}
	}
	if st != nil {
		defer func() {
			if err := st.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close layout store")
			}
		}()

		if cfg.Layouts.Autosave {
			saver = store.NewAutosaver(st, autosaveLayout, cfg.Layouts.AutosaveIntervalMs, log)
			saver.Start(ctx)
		}

		snap, err := st.Load(ctx, autosaveLayout)
		switch {
		case err == nil:
			if rerr := bridge.Restore(snap); rerr != nil {
				log.Warn().Err(rerr).Msg("autosaved layout rejected")
			}
		case errors.Is(err, store.ErrNotFound):
			// First run
		default:
			log.Warn().Err(err).Msg("failed to load autosaved layout")
		}
	}

	if bridge.Tree().IsEmpty() {
		seedLayout(bridge.Tree(), panes)
	}

	model := NewModel(ctx, ModelConfig{
		Bridge:    bridge,
		Backend:   backend,
		Panes:     panes,
		Store:     st,
		Saver:     saver,
		RenderDir: renderDir,
	}, log)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run playground: %w", err)
	}

	if saver != nil {
		saver.MarkDirty(bridge.Snapshot())
		if err := saver.Stop(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to save layout on exit")
		}
	}
	return nil
}

// seedLayout fills an empty desk with a starting arrangement: an
// editor pane beside a terminal/logs tab group.
func seedLayout(tr *tiles.Tree, panes *paneSet) {
	editor := tr.NewPane(panes.create())
	terminal := tr.NewPane(panes.create())
	logs := tr.NewPane(panes.create())
	tabs := tr.NewTabs(terminal, logs)
	root := tr.NewSplit(tiles.Horizontal, editor, tabs)
	_ = tr.SetRoot(root)
}
