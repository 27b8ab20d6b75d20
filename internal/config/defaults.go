package config

import "github.com/bnema/undock/pkg/dock"

// DefaultConfig returns the default configuration, derived from the
// bridge defaults so file and code never disagree about a knob.
func DefaultConfig() *Config {
	opts := dock.DefaultOptions()

	tearOffMode := TearOffModeGhost
	if opts.TearOffMode == dock.TearOffDirect {
		tearOffMode = TearOffModeDirect
	}
	decorations := DecorationsOS
	if opts.Decorations == dock.DecorClientSide {
		decorations = DecorationsClient
	}

	return &Config{
		Docking: DockingConfig{
			Enabled:               opts.DockingEnabled,
			WithShift:             opts.DockingWithShift,
			TearOffThreshold:      opts.TearOffThreshold,
			TearOffMode:           tearOffMode,
			GhostNativeOnLeave:    opts.GhostNativeOnLeave,
			ForceTearOffWithAlt:   opts.ForceTearOffWithAlt,
			FloatingWithCtrl:      opts.FloatingWithCtrl,
			GroupTearOffWithShift: opts.GroupTearOffWithShift,
			FlattenContainers:     opts.FlattenDockedContainers,
		},
		Overlay: OverlayConfig{
			TitleBandHeight: opts.TitleBandHeight,
			OuterBandPx:     opts.OuterBandPx,
			CrossButtonSize: opts.CrossButtonSize,
			CrossButtonGap:  opts.CrossButtonGap,
			TabBarHeight:    opts.Layout.TabBarHeight,
			Gap:             opts.Layout.Gap,
		},
		Windows: WindowsConfig{
			FocusOnTitleDrag: opts.FocusOnTitleDrag,
			Decorations:      decorations,
			DefaultWidth:     opts.DefaultDetachedSize.W,
			DefaultHeight:    opts.DefaultDetachedSize.H,
			MinWidth:         opts.MinDetachedSize.W,
			MinHeight:        opts.MinDetachedSize.H,
		},
		Floating: FloatingConfig{
			HeaderHeight:  opts.FloatingHeaderHeight,
			DefaultWidth:  opts.DefaultFloatingSize.W,
			DefaultHeight: opts.DefaultFloatingSize.H,
		},
		Layouts: LayoutsConfig{
			Path:               "", // resolved against XDG_DATA_HOME in Load
			Autosave:           true,
			AutosaveIntervalMs: 2000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Debug: DebugConfig{
			IntegrityChecks:  opts.DebugIntegrityChecks,
			EventLogCapacity: opts.EventLogCapacity,
		},
	}
}

// New returns a new default configuration instance.
// This is a convenience function for getting default config without the full manager.
func New() *Config {
	return DefaultConfig()
}
