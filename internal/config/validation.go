package config

import (
	"fmt"
	"strings"
)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateDocking(config)...)
	validationErrors = append(validationErrors, validateOverlay(config)...)
	validationErrors = append(validationErrors, validateWindows(config)...)
	validationErrors = append(validationErrors, validateFloating(config)...)
	validationErrors = append(validationErrors, validateLayouts(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateDebug(config)...)

	// If there are validation errors, return them
	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateDocking(config *Config) []string {
	var validationErrors []string
	if config.Docking.TearOffThreshold < 0 {
		validationErrors = append(validationErrors, "docking.tear_off_threshold must be non-negative")
	}
	switch strings.ToLower(string(config.Docking.TearOffMode)) {
	case string(TearOffModeGhost), string(TearOffModeDirect), "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"docking.tear_off_mode must be one of: ghost, direct (got: %s)",
			config.Docking.TearOffMode,
		))
	}
	return validationErrors
}

func validateOverlay(config *Config) []string {
	var validationErrors []string
	if config.Overlay.TitleBandHeight < 0 {
		validationErrors = append(validationErrors, "overlay.title_band_height must be non-negative")
	}
	if config.Overlay.OuterBandPx < 0 {
		validationErrors = append(validationErrors, "overlay.outer_band_px must be non-negative")
	}
	if config.Overlay.CrossButtonSize < 0 {
		validationErrors = append(validationErrors, "overlay.cross_button_size must be non-negative")
	}
	if config.Overlay.CrossButtonGap < 0 {
		validationErrors = append(validationErrors, "overlay.cross_button_gap must be non-negative")
	}
	if config.Overlay.TabBarHeight < 0 {
		validationErrors = append(validationErrors, "overlay.tab_bar_height must be non-negative")
	}
	if config.Overlay.Gap < 0 {
		validationErrors = append(validationErrors, "overlay.gap must be non-negative")
	}
	return validationErrors
}

func validateWindows(config *Config) []string {
	var validationErrors []string
	switch strings.ToLower(string(config.Windows.Decorations)) {
	case string(DecorationsOS), string(DecorationsClient), "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"windows.decorations must be one of: os, client (got: %s)",
			config.Windows.Decorations,
		))
	}
	if config.Windows.DefaultWidth < 0 || config.Windows.DefaultHeight < 0 {
		validationErrors = append(validationErrors, "windows.default_width and windows.default_height must be non-negative")
	}
	if config.Windows.MinWidth < 0 || config.Windows.MinHeight < 0 {
		validationErrors = append(validationErrors, "windows.min_width and windows.min_height must be non-negative")
	}
	return validationErrors
}

func validateFloating(config *Config) []string {
	var validationErrors []string
	if config.Floating.HeaderHeight < 0 {
		validationErrors = append(validationErrors, "floating.header_height must be non-negative")
	}
	if config.Floating.DefaultWidth < 0 || config.Floating.DefaultHeight < 0 {
		validationErrors = append(validationErrors, "floating.default_width and floating.default_height must be non-negative")
	}
	return validationErrors
}

func validateLayouts(config *Config) []string {
	if config.Layouts.AutosaveIntervalMs < 0 {
		return []string{"layouts.autosave_interval_ms must be non-negative"}
	}
	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.level must be one of: trace, debug, info, warn, error, fatal (got: %s)",
			config.Logging.Level,
		))
	}
	switch config.Logging.Format {
	case "json", "console", "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.format must be one of: json, console (got: %s)",
			config.Logging.Format,
		))
	}
	return validationErrors
}

func validateDebug(config *Config) []string {
	if config.Debug.EventLogCapacity < 0 {
		return []string{"debug.event_log_capacity must be non-negative"}
	}
	return nil
}
