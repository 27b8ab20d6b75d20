package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/undock/pkg/dock"
)

func TestDefaultConfig_MatchesBridgeDefaults(t *testing.T) {
	cfg := DefaultConfig()
	opts := dock.DefaultOptions()

	assert.Equal(t, opts.DockingEnabled, cfg.Docking.Enabled)
	assert.Equal(t, opts.TearOffThreshold, cfg.Docking.TearOffThreshold)
	assert.Equal(t, TearOffModeGhost, cfg.Docking.TearOffMode)
	assert.Equal(t, opts.OuterBandPx, cfg.Overlay.OuterBandPx)
	assert.Equal(t, opts.Layout.TabBarHeight, cfg.Overlay.TabBarHeight)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestSetDockingDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.True(t, mgr.viper.GetBool("docking.enabled"))
	assert.False(t, mgr.viper.GetBool("docking.with_shift"))
	assert.Equal(t, "ghost", mgr.viper.GetString("docking.tear_off_mode"))
	assert.Equal(t, float64(16), mgr.viper.GetFloat64("overlay.outer_band_px"))
}

func TestNormalizeConfig_TearOffMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Docking.TearOffMode = TearOffModeName("INVALID")

	normalizeConfig(cfg)

	assert.Equal(t, TearOffModeGhost, cfg.Docking.TearOffMode)
}

func TestNormalizeConfig_DecorationsCase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Windows.Decorations = DecorationsName("Client")

	normalizeConfig(cfg)

	assert.Equal(t, DecorationsClient, cfg.Windows.Decorations)
}

func TestBridgeOptions_RoundTripsTuning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Docking.WithShift = true
	cfg.Docking.TearOffThreshold = 24
	cfg.Docking.TearOffMode = TearOffModeDirect
	cfg.Overlay.OuterBandPx = 32
	cfg.Windows.Decorations = DecorationsClient
	cfg.Debug.IntegrityChecks = true

	opts := cfg.BridgeOptions()

	assert.True(t, opts.DockingWithShift)
	assert.Equal(t, float64(24), opts.TearOffThreshold)
	assert.Equal(t, dock.TearOffDirect, opts.TearOffMode)
	assert.Equal(t, float64(32), opts.OuterBandPx)
	assert.Equal(t, dock.DecorClientSide, opts.Decorations)
	assert.True(t, opts.DebugIntegrityChecks)
}

func TestValidateConfig_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Docking.TearOffThreshold = -1
	cfg.Overlay.Gap = -2
	cfg.Logging.Level = "loud"

	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docking.tear_off_threshold")
	assert.Contains(t, err.Error(), "overlay.gap")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestManagerLoad_CreatesDefaultConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))
	t.Setenv("ENV", "")

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	configFile := filepath.Join(home, ".config", "undock", "config.toml")
	if _, statErr := os.Stat(configFile); statErr != nil {
		t.Fatalf("expected default config at %s: %v", configFile, statErr)
	}

	cfg := mgr.Get()
	assert.True(t, cfg.Docking.Enabled)
	assert.Equal(t, filepath.Join(home, ".local", "share", "undock", "layouts.sqlite"), cfg.Layouts.Path)
}

func TestManagerLoad_ReadsTOMLOverrides(t *testing.T) {
	home := t.TempDir()
	configDir := filepath.Join(home, ".config", "undock")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	content := []byte("[docking]\nenabled = false\ntear_off_threshold = 12.5\n\n[logging]\nlevel = \"debug\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), content, 0o644))

	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))
	t.Setenv("ENV", "")

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.False(t, cfg.Docking.Enabled)
	assert.Equal(t, 12.5, cfg.Docking.TearOffThreshold)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset keys keep their defaults.
	assert.True(t, cfg.Docking.GroupTearOffWithShift)
}

func TestManagerLoad_EnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))
	t.Setenv("ENV", "")
	t.Setenv("UNDOCK_LOG_LEVEL", "trace")

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	assert.Equal(t, "trace", mgr.Get().Logging.Level)
}
