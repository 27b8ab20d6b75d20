// Package demo runs the interactive terminal playground. The terminal
// grid plays the desk: one cell is one desk unit, every bridge window
// is a bordered box, and the mouse drives real drag sessions against a
// live bridge.
package demo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rs/zerolog"

	"github.com/bnema/undock/internal/export"
	"github.com/bnema/undock/internal/store"
	"github.com/bnema/undock/pkg/dock"
	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

// savedLayout is the store slot the save/load keys use. The autosaver
// writes its own slot so a manual save survives the next autosave.
const savedLayout = "snapshot"

// Model is the Bubble Tea model for the playground.
type Model struct {
	// UI components
	help   help.Model
	keys   demoKeyMap
	zoneID string

	// Desk state
	width        int
	height       int
	pointer      geom.Point
	pointerKnown bool
	mouseDown    bool
	mods         dock.Modifiers
	armed        *grab
	dragging     bool
	moveGrab     geom.Vec
	decisions    map[dock.ViewportID]dock.OverlayDecision
	status       string
	lastEvent    string
	showEvents   bool

	// Dependencies
	ctx       context.Context
	bridge    *dock.Bridge
	backend   *demoBackend
	panes     *paneSet
	store     *store.Store
	saver     *store.Autosaver
	renderDir string
	log       zerolog.Logger
}

// ModelConfig holds the playground model's collaborators. Store and
// Saver may be nil when persistence is disabled.
type ModelConfig struct {
	Bridge    *dock.Bridge
	Backend   *demoBackend
	Panes     *paneSet
	Store     *store.Store
	Saver     *store.Autosaver
	RenderDir string
}

// NewModel creates a playground model.
func NewModel(ctx context.Context, cfg ModelConfig, log zerolog.Logger) Model {
	return Model{
		help:      help.New(),
		keys:      defaultDemoKeyMap(),
		zoneID:    zone.NewPrefix(),
		width:     80,
		height:    24,
		ctx:       ctx,
		bridge:    cfg.Bridge,
		backend:   cfg.Backend,
		panes:     cfg.Panes,
		store:     cfg.Store,
		saver:     cfg.Saver,
		renderDir: cfg.RenderDir,
		log:       log,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// layoutSavedMsg is sent when a layout finished writing to the store.
type layoutSavedMsg struct {
	err error
}

// layoutLoadedMsg carries a layout read back from the store.
type layoutLoadedMsg struct {
	snap dock.LayoutSnapshot
	err  error
}

// pngRenderedMsg is sent when a PNG export finished.
type pngRenderedMsg struct {
	path string
	err  error
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case layoutSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("save failed: %v", msg.err)
		} else {
			m.status = "layout saved"
		}
		return m, nil

	case layoutLoadedMsg:
		return m.applyLoaded(msg), nil

	case pngRenderedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("export failed: %v", msg.err)
		} else {
			m.status = "exported " + msg.path
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NewPane):
		m.addPane()
		return m, nil

	case key.Matches(msg, m.keys.Float):
		m.openFloat()
		return m, nil

	case key.Matches(msg, m.keys.Detach):
		m.detachHovered()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m, m.saveLayout()

	case key.Matches(msg, m.keys.Load):
		return m, m.loadLayout()

	case key.Matches(msg, m.keys.Render):
		return m, m.renderPNG()

	case key.Matches(msg, m.keys.Events):
		m.showEvents = !m.showEvents
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// The pointer lives at the cell center so one cell of travel reads
	// as a whole unit of motion.
	m.pointer = geom.Pt(float64(msg.X)+0.5, float64(msg.Y)+0.5)
	m.pointerKnown = true
	m.mods = dock.Modifiers{Shift: msg.Shift, Ctrl: msg.Ctrl, Alt: msg.Alt}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if !m.deskRect().Contains(m.pointer) {
			// Toolbar and status rows activate on release.
			return m, nil
		}
		m.mouseDown = true
		m.armed = m.hitDesk(m.pointer)
		m.runFrame(false)
		return m, nil

	case tea.MouseActionMotion:
		if m.mouseDown {
			m.emulateNativeMove()
		}
		m.runFrame(false)
		return m, nil

	case tea.MouseActionRelease:
		if !m.mouseDown {
			return m, m.toolbarClick(msg)
		}
		m.mouseDown = false
		m.emulateNativeMove()
		m.runFrame(true)
		m.finishPress()
		return m, nil
	}

	return m, nil
}

func (m *Model) toolbarClick(msg tea.MouseMsg) tea.Cmd {
	switch {
	case zone.Get(m.zoneID + "new").InBounds(msg):
		m.addPane()
	case zone.Get(m.zoneID + "float").InBounds(msg):
		m.openFloat()
	case zone.Get(m.zoneID + "save").InBounds(msg):
		return m.saveLayout()
	case zone.Get(m.zoneID + "load").InBounds(msg):
		return m.loadLayout()
	case zone.Get(m.zoneID + "png").InBounds(msg):
		return m.renderPNG()
	case zone.Get(m.zoneID + "quit").InBounds(msg):
		return tea.Quit
	}
	return nil
}

// addPane splits a fresh pane into the root dock.
func (m *Model) addPane() {
	tr := m.bridge.Tree()
	id := tr.NewPane(m.panes.create())

	root, ok := tr.Root()
	if !ok {
		if err := tr.SetRoot(id); err != nil {
			m.status = fmt.Sprintf("new pane failed: %v", err)
			return
		}
		m.status = "pane added"
		m.markDirty()
		return
	}
	if err := tr.Move(id, &tiles.InsertionPoint{Parent: root, Kind: tiles.SplitRightOf}); err != nil {
		m.status = fmt.Sprintf("new pane failed: %v", err)
		return
	}
	m.status = "pane added"
	m.markDirty()
}

// openFloat opens a fresh pane as a floating window over the root dock.
func (m *Model) openFloat() {
	opts := m.bridge.Options()
	_, err := m.bridge.OpenFloating(dock.RootViewport, m.panes.create(), geom.Vec{X: 4, Y: 2}, opts.DefaultFloatingSize)
	if err != nil {
		m.status = fmt.Sprintf("float failed: %v", err)
		return
	}
	m.status = "floating window opened"
	m.markDirty()
}

// detachHovered tears the tile under the pointer out into its own
// window, without a drag.
func (m *Model) detachHovered() {
	for _, vr := range m.viewportRects() {
		if vr.vp != dock.RootViewport || !m.pointerKnown || !vr.inner.Contains(m.pointer) {
			continue
		}
		tree := m.bridge.Tree()
		tree.Layout(geom.R(0, 0, vr.inner.Width(), vr.inner.Height()), m.bridge.Options().Layout)
		local := geom.Pt(m.pointer.X-vr.inner.Min.X, m.pointer.Y-vr.inner.Min.Y)
		id, ok := tree.TileAt(local)
		if !ok {
			m.status = "nothing under the pointer to detach"
			return
		}
		if _, err := m.bridge.DetachTile(dock.RootViewport, id); err != nil {
			m.status = fmt.Sprintf("detach failed: %v", err)
			return
		}
		m.status = "tile detached"
		m.markDirty()
		return
	}
	m.status = "point at the root dock to detach"
}

func (m Model) applyLoaded(msg layoutLoadedMsg) Model {
	if msg.err != nil {
		if errors.Is(msg.err, store.ErrNotFound) {
			m.status = "no saved layout yet"
		} else {
			m.status = fmt.Sprintf("load failed: %v", msg.err)
		}
		return m
	}
	// Restore runs on the update loop so no frame is in flight.
	if err := m.bridge.Restore(msg.snap); err != nil {
		m.status = fmt.Sprintf("restore failed: %v", err)
		return m
	}
	m.decisions = nil
	m.armed = nil
	m.dragging = false
	m.status = "layout restored"
	m.markDirty()
	return m
}

func (m Model) saveLayout() tea.Cmd {
	// Snapshot on the update loop; the command only does store I/O.
	snap := m.bridge.Snapshot()
	return func() tea.Msg {
		if m.store == nil {
			return layoutSavedMsg{err: fmt.Errorf("persistence disabled")}
		}
		return layoutSavedMsg{err: m.store.Save(m.ctx, savedLayout, snap)}
	}
}

func (m Model) loadLayout() tea.Cmd {
	return func() tea.Msg {
		if m.store == nil {
			return layoutLoadedMsg{err: fmt.Errorf("persistence disabled")}
		}
		snap, err := m.store.Load(m.ctx, savedLayout)
		return layoutLoadedMsg{snap: snap, err: err}
	}
}

func (m Model) renderPNG() tea.Cmd {
	snap := m.bridge.Snapshot()
	opts := export.Options{
		RootRect:             m.rootWinRect().Expand(-1),
		Scale:                16,
		Padding:              2,
		TitleBandHeight:      1,
		TabBarHeight:         1,
		FloatingHeaderHeight: 1,
	}
	dir := m.renderDir
	return func() tea.Msg {
		if dir == "" {
			dir = "."
		}
		path := filepath.Join(dir, fmt.Sprintf("undock-%s.png", time.Now().Format("20060102-150405")))
		if err := export.RenderPNG(snap, path, opts); err != nil {
			return pngRenderedMsg{err: err}
		}
		return pngRenderedMsg{path: path}
	}
}
