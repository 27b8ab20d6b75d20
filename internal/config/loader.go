package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config         *Config
	viper          *viper.Viper
	mu             sync.RWMutex
	callbacks      []func(*Config)
	watching       bool
	skipNextReload bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	// Configure Viper for TOML as default format
	v.SetConfigName("config") // Name without extension
	v.SetConfigType("toml")   // TOML as default format

	// Add config paths
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	// Set up environment variable support
	v.SetEnvPrefix("UNDOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Note: Most environment variables are handled automatically via
	// AutomaticEnv() with the UNDOCK_ prefix (e.g. UNDOCK_LAYOUTS_PATH,
	// UNDOCK_DOCKING_ENABLED). The explicit bindings below are only for
	// names that differ from the section.key pattern.

	// Logging environment variable bindings
	if err := v.BindEnv("logging.level", "UNDOCK_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind UNDOCK_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "UNDOCK_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind UNDOCK_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	if err := ensureLayoutsPath(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	if err := m.viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			if createErr := m.createDefaultConfig(); createErr != nil {
				configDir, _ := GetConfigDir()
				return fmt.Errorf(
					"failed to create default config at %s: %w\nTry creating the directory manually or check permissions",
					configDir,
					createErr,
				)
			}
			if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
				return fmt.Errorf(
					"failed to read newly created config file: %w\nThe config file was created but couldn't be read. Please check the file format",
					rereadErr,
				)
			}
		} else {
			configFile := m.viper.ConfigFileUsed()
			if configFile == "" {
				configDir, _ := GetConfigDir()
				configFile = filepath.Join(configDir, "config.toml")
			}
			return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
		}
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		configFile := m.viper.ConfigFileUsed()
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			configFile,
			err,
		)
	}
	return config, nil
}

func ensureLayoutsPath(config *Config) error {
	if config.Layouts.Path != "" {
		return nil
	}
	layoutsPath, err := GetLayoutsFile()
	if err != nil {
		return fmt.Errorf("failed to get layouts path: %w", err)
	}
	config.Layouts.Path = layoutsPath
	return nil
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent external modification
	configCopy := *m.config
	return &configCopy
}

// Save saves the provided configuration to disk and updates Viper.
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// Validate before writing so callers get immediate errors.
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.viper.Set("docking.enabled", cfg.Docking.Enabled)
	m.viper.Set("docking.with_shift", cfg.Docking.WithShift)
	m.viper.Set("docking.tear_off_threshold", cfg.Docking.TearOffThreshold)
	m.viper.Set("docking.tear_off_mode", string(cfg.Docking.TearOffMode))
	m.viper.Set("docking.ghost_native_on_leave", cfg.Docking.GhostNativeOnLeave)
	m.viper.Set("docking.force_tear_off_with_alt", cfg.Docking.ForceTearOffWithAlt)
	m.viper.Set("docking.floating_with_ctrl", cfg.Docking.FloatingWithCtrl)
	m.viper.Set("docking.group_tear_off_with_shift", cfg.Docking.GroupTearOffWithShift)
	m.viper.Set("docking.flatten_containers", cfg.Docking.FlattenContainers)
	m.viper.Set("windows.decorations", string(cfg.Windows.Decorations))
	m.viper.Set("windows.focus_on_title_drag", cfg.Windows.FocusOnTitleDrag)
	m.viper.Set("layouts.autosave", cfg.Layouts.Autosave)
	m.viper.Set("layouts.autosave_interval_ms", cfg.Layouts.AutosaveIntervalMs)
	m.viper.Set("logging.level", cfg.Logging.Level)
	m.viper.Set("logging.format", cfg.Logging.Format)

	if m.watching {
		m.skipNextReload = true
	}
	if err := m.viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	m.config = cfg
	return nil
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// createDefaultConfig creates a default configuration file.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	// Ensure TOML format and write config
	m.viper.SetConfigType("toml")
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created default configuration file: %s (TOML format)\n", configFile)

	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	// Note: Layouts.Path is set dynamically in Load(), no default needed

	m.setDockingDefaults(defaults)
	m.setOverlayDefaults(defaults)
	m.setWindowsDefaults(defaults)
	m.setFloatingDefaults(defaults)
	m.setLayoutsDefaults(defaults)
	m.setLoggingDefaults(defaults)
	m.setDebugDefaults(defaults)
}

func (m *Manager) setDockingDefaults(defaults *Config) {
	m.viper.SetDefault("docking.enabled", defaults.Docking.Enabled)
	m.viper.SetDefault("docking.with_shift", defaults.Docking.WithShift)
	m.viper.SetDefault("docking.tear_off_threshold", defaults.Docking.TearOffThreshold)
	m.viper.SetDefault("docking.tear_off_mode", string(defaults.Docking.TearOffMode))
	m.viper.SetDefault("docking.ghost_native_on_leave", defaults.Docking.GhostNativeOnLeave)
	m.viper.SetDefault("docking.force_tear_off_with_alt", defaults.Docking.ForceTearOffWithAlt)
	m.viper.SetDefault("docking.floating_with_ctrl", defaults.Docking.FloatingWithCtrl)
	m.viper.SetDefault("docking.group_tear_off_with_shift", defaults.Docking.GroupTearOffWithShift)
	m.viper.SetDefault("docking.flatten_containers", defaults.Docking.FlattenContainers)
}

func (m *Manager) setOverlayDefaults(defaults *Config) {
	m.viper.SetDefault("overlay.title_band_height", defaults.Overlay.TitleBandHeight)
	m.viper.SetDefault("overlay.outer_band_px", defaults.Overlay.OuterBandPx)
	m.viper.SetDefault("overlay.cross_button_size", defaults.Overlay.CrossButtonSize)
	m.viper.SetDefault("overlay.cross_button_gap", defaults.Overlay.CrossButtonGap)
	m.viper.SetDefault("overlay.tab_bar_height", defaults.Overlay.TabBarHeight)
	m.viper.SetDefault("overlay.gap", defaults.Overlay.Gap)
}

func (m *Manager) setWindowsDefaults(defaults *Config) {
	m.viper.SetDefault("windows.focus_on_title_drag", defaults.Windows.FocusOnTitleDrag)
	m.viper.SetDefault("windows.decorations", string(defaults.Windows.Decorations))
	m.viper.SetDefault("windows.default_width", defaults.Windows.DefaultWidth)
	m.viper.SetDefault("windows.default_height", defaults.Windows.DefaultHeight)
	m.viper.SetDefault("windows.min_width", defaults.Windows.MinWidth)
	m.viper.SetDefault("windows.min_height", defaults.Windows.MinHeight)
}

func (m *Manager) setFloatingDefaults(defaults *Config) {
	m.viper.SetDefault("floating.header_height", defaults.Floating.HeaderHeight)
	m.viper.SetDefault("floating.default_width", defaults.Floating.DefaultWidth)
	m.viper.SetDefault("floating.default_height", defaults.Floating.DefaultHeight)
}

func (m *Manager) setLayoutsDefaults(defaults *Config) {
	m.viper.SetDefault("layouts.autosave", defaults.Layouts.Autosave)
	m.viper.SetDefault("layouts.autosave_interval_ms", defaults.Layouts.AutosaveIntervalMs)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
}

func (m *Manager) setDebugDefaults(defaults *Config) {
	m.viper.SetDefault("debug.integrity_checks", defaults.Debug.IntegrityChecks)
	m.viper.SetDefault("debug.event_log_capacity", defaults.Debug.EventLogCapacity)
}

// Global configuration manager instance
var globalManager *Manager
var globalManagerOnce sync.Once

// Init initializes the global configuration manager.
func Init() error {
	var err error
	globalManagerOnce.Do(func() {
		globalManager, err = NewManager()
		if err != nil {
			return
		}
		err = globalManager.Load()
	})
	return err
}

// Get returns the global configuration.
func Get() *Config {
	if globalManager == nil {
		// Return defaults if not initialized
		return DefaultConfig()
	}
	return globalManager.Get()
}

// GetManager returns the global configuration manager.
// This is useful for accessing watcher functionality.
func GetManager() *Manager {
	return globalManager
}
