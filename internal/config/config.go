package config

import (
	"strings"

	"github.com/bnema/undock/pkg/dock"
	"github.com/bnema/undock/pkg/geom"
)

// Config represents the complete configuration for undock.
type Config struct {
	// Docking controls drag, tear-off and drop behavior.
	Docking DockingConfig `mapstructure:"docking" yaml:"docking" toml:"docking"`
	// Overlay tunes the drop-target overlay geometry.
	Overlay OverlayConfig `mapstructure:"overlay" yaml:"overlay" toml:"overlay"`
	// Windows controls detached window placement and chrome.
	Windows WindowsConfig `mapstructure:"windows" yaml:"windows" toml:"windows"`
	// Floating controls contained floating windows.
	Floating FloatingConfig `mapstructure:"floating" yaml:"floating" toml:"floating"`
	// Layouts controls layout persistence.
	Layouts LayoutsConfig `mapstructure:"layouts" yaml:"layouts" toml:"layouts"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" toml:"logging"`
	Debug   DebugConfig   `mapstructure:"debug" yaml:"debug" toml:"debug"`
}

// TearOffModeName selects how a dragged subtree becomes a window.
type TearOffModeName string

const (
	TearOffModeGhost  TearOffModeName = "ghost"
	TearOffModeDirect TearOffModeName = "direct"
)

// DecorationsName selects who draws window chrome.
type DecorationsName string

const (
	DecorationsOS     DecorationsName = "os"
	DecorationsClient DecorationsName = "client"
)

// DockingConfig holds drag and drop behavior settings.
type DockingConfig struct {
	// Enabled is the master switch for whole-window docking.
	Enabled bool `mapstructure:"enabled" yaml:"enabled" toml:"enabled"`
	// WithShift flips the modifier polarity: false means holding shift
	// suspends window docking, true means it enables it.
	WithShift bool `mapstructure:"with_shift" yaml:"with_shift" toml:"with_shift"`
	// TearOffThreshold is the distance in logical pixels the pointer
	// must leave the dock before a drag becomes a tear-off.
	TearOffThreshold float64 `mapstructure:"tear_off_threshold" yaml:"tear_off_threshold" toml:"tear_off_threshold"`
	// TearOffMode selects ghost preview ("ghost") or window creation at
	// release only ("direct").
	TearOffMode TearOffModeName `mapstructure:"tear_off_mode" yaml:"tear_off_mode" toml:"tear_off_mode"`
	// GhostNativeOnLeave upgrades the ghost preview to a native window
	// once the pointer leaves the source viewport.
	GhostNativeOnLeave bool `mapstructure:"ghost_native_on_leave" yaml:"ghost_native_on_leave" toml:"ghost_native_on_leave"`
	// ForceTearOffWithAlt makes alt-release tear off even inside the
	// threshold distance.
	ForceTearOffWithAlt bool `mapstructure:"force_tear_off_with_alt" yaml:"force_tear_off_with_alt" toml:"force_tear_off_with_alt"`
	// FloatingWithCtrl makes ctrl-release produce a contained floating
	// window instead of a detached one.
	FloatingWithCtrl bool `mapstructure:"floating_with_ctrl" yaml:"floating_with_ctrl" toml:"floating_with_ctrl"`
	// GroupTearOffWithShift promotes a shift-initiated tab drag to the
	// enclosing tab group.
	GroupTearOffWithShift bool `mapstructure:"group_tear_off_with_shift" yaml:"group_tear_off_with_shift" toml:"group_tear_off_with_shift"`
	// FlattenContainers splits container-rooted subtrees into their
	// children when tab-docking.
	FlattenContainers bool `mapstructure:"flatten_containers" yaml:"flatten_containers" toml:"flatten_containers"`
}

// OverlayConfig holds drop-target overlay geometry.
type OverlayConfig struct {
	// TitleBandHeight is the strip atop a non-tab region that accepts
	// whole-window drops.
	TitleBandHeight float64 `mapstructure:"title_band_height" yaml:"title_band_height" toml:"title_band_height"`
	// OuterBandPx is the dock-edge band that splits the whole surface.
	OuterBandPx float64 `mapstructure:"outer_band_px" yaml:"outer_band_px" toml:"outer_band_px"`
	// CrossButtonSize and CrossButtonGap shape the directional cross
	// drawn over the hovered pane.
	CrossButtonSize float64 `mapstructure:"cross_button_size" yaml:"cross_button_size" toml:"cross_button_size"`
	CrossButtonGap  float64 `mapstructure:"cross_button_gap" yaml:"cross_button_gap" toml:"cross_button_gap"`
	// TabBarHeight is the strip reserved at the top of tab containers.
	TabBarHeight float64 `mapstructure:"tab_bar_height" yaml:"tab_bar_height" toml:"tab_bar_height"`
	// Gap is the spacing between split children.
	Gap float64 `mapstructure:"gap" yaml:"gap" toml:"gap"`
}

// WindowsConfig holds detached window settings.
type WindowsConfig struct {
	// FocusOnTitleDrag focuses a detached window when its title drag
	// starts.
	FocusOnTitleDrag bool `mapstructure:"focus_on_title_drag" yaml:"focus_on_title_drag" toml:"focus_on_title_drag"`
	// Decorations selects window chrome: "os" or "client".
	Decorations DecorationsName `mapstructure:"decorations" yaml:"decorations" toml:"decorations"`
	// DefaultWidth and DefaultHeight size new detached windows when no
	// better geometry is known.
	DefaultWidth  float64 `mapstructure:"default_width" yaml:"default_width" toml:"default_width"`
	DefaultHeight float64 `mapstructure:"default_height" yaml:"default_height" toml:"default_height"`
	// MinWidth and MinHeight bound how small a detached window may get.
	MinWidth  float64 `mapstructure:"min_width" yaml:"min_width" toml:"min_width"`
	MinHeight float64 `mapstructure:"min_height" yaml:"min_height" toml:"min_height"`
}

// FloatingConfig holds contained floating window settings.
type FloatingConfig struct {
	// HeaderHeight is the grab strip of floating windows.
	HeaderHeight float64 `mapstructure:"header_height" yaml:"header_height" toml:"header_height"`
	// DefaultWidth and DefaultHeight size new floating windows.
	DefaultWidth  float64 `mapstructure:"default_width" yaml:"default_width" toml:"default_width"`
	DefaultHeight float64 `mapstructure:"default_height" yaml:"default_height" toml:"default_height"`
}

// LayoutsConfig controls layout persistence.
type LayoutsConfig struct {
	// Path is the layout database file. Empty selects the XDG data
	// directory default.
	Path string `mapstructure:"path" yaml:"path" toml:"path"`
	// Autosave writes the active layout after mutations.
	// Default: true
	Autosave bool `mapstructure:"autosave" yaml:"autosave" toml:"autosave"`
	// AutosaveIntervalMs is the debounce interval between autosaves in
	// milliseconds.
	// Default: 2000
	AutosaveIntervalMs int `mapstructure:"autosave_interval_ms" yaml:"autosave_interval_ms" toml:"autosave_interval_ms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" toml:"level"`
	Format string `mapstructure:"format" yaml:"format" toml:"format"`
}

// DebugConfig holds diagnostic settings.
type DebugConfig struct {
	// IntegrityChecks runs a tree integrity sweep after every frame.
	IntegrityChecks bool `mapstructure:"integrity_checks" yaml:"integrity_checks" toml:"integrity_checks"`
	// EventLogCapacity bounds the in-memory event ring. Zero disables
	// the event log.
	EventLogCapacity int `mapstructure:"event_log_capacity" yaml:"event_log_capacity" toml:"event_log_capacity"`
}

// BridgeOptions maps the configuration onto bridge options, starting
// from the bridge defaults so new tuning knobs pick up their defaults
// without a config migration.
func (c *Config) BridgeOptions() dock.Options {
	opts := dock.DefaultOptions()

	opts.DockingEnabled = c.Docking.Enabled
	opts.DockingWithShift = c.Docking.WithShift
	opts.TearOffThreshold = c.Docking.TearOffThreshold
	opts.GhostNativeOnLeave = c.Docking.GhostNativeOnLeave
	opts.ForceTearOffWithAlt = c.Docking.ForceTearOffWithAlt
	opts.FloatingWithCtrl = c.Docking.FloatingWithCtrl
	opts.GroupTearOffWithShift = c.Docking.GroupTearOffWithShift
	opts.FlattenDockedContainers = c.Docking.FlattenContainers
	if c.Docking.TearOffMode == TearOffModeDirect {
		opts.TearOffMode = dock.TearOffDirect
	} else {
		opts.TearOffMode = dock.TearOffGhost
	}

	opts.TitleBandHeight = c.Overlay.TitleBandHeight
	opts.OuterBandPx = c.Overlay.OuterBandPx
	opts.CrossButtonSize = c.Overlay.CrossButtonSize
	opts.CrossButtonGap = c.Overlay.CrossButtonGap
	opts.Layout.TabBarHeight = c.Overlay.TabBarHeight
	opts.Layout.Gap = c.Overlay.Gap

	opts.FocusOnTitleDrag = c.Windows.FocusOnTitleDrag
	if c.Windows.Decorations == DecorationsClient {
		opts.Decorations = dock.DecorClientSide
	} else {
		opts.Decorations = dock.DecorOS
	}
	opts.DefaultDetachedSize = geom.Sz(c.Windows.DefaultWidth, c.Windows.DefaultHeight)
	opts.MinDetachedSize = geom.Sz(c.Windows.MinWidth, c.Windows.MinHeight)

	opts.FloatingHeaderHeight = c.Floating.HeaderHeight
	opts.DefaultFloatingSize = geom.Sz(c.Floating.DefaultWidth, c.Floating.DefaultHeight)

	opts.DebugIntegrityChecks = c.Debug.IntegrityChecks
	opts.EventLogCapacity = c.Debug.EventLogCapacity

	return opts
}

func normalizeConfig(config *Config) {
	switch TearOffModeName(strings.ToLower(string(config.Docking.TearOffMode))) {
	case TearOffModeGhost, TearOffModeDirect:
		config.Docking.TearOffMode = TearOffModeName(strings.ToLower(string(config.Docking.TearOffMode)))
	default:
		config.Docking.TearOffMode = TearOffModeGhost
	}

	switch DecorationsName(strings.ToLower(string(config.Windows.Decorations))) {
	case DecorationsOS, DecorationsClient:
		config.Windows.Decorations = DecorationsName(strings.ToLower(string(config.Windows.Decorations)))
	default:
		config.Windows.Decorations = DecorationsOS
	}

	config.Layouts.Path = strings.TrimSpace(config.Layouts.Path)
}
