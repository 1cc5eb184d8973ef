package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.UI.PollIntervalMS < 10 || c.UI.PollIntervalMS > 5000 {
		return errors.New("ui.poll_interval_ms must be between 10 and 5000")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.Binary == "" {
		return errors.New("ffmpeg.binary must be set")
	}
	// CRF 0 (lossless) is excluded because zero selects the default.
	if c.FFmpeg.CRF < 1 || c.FFmpeg.CRF > 51 {
		return fmt.Errorf("ffmpeg.crf must be between 1 and 51, got %d", c.FFmpeg.CRF)
	}
	if !slices.Contains(presets, c.FFmpeg.Preset) {
		return fmt.Errorf("ffmpeg.preset %q is not one of %s", c.FFmpeg.Preset, strings.Join(presets, ", "))
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
}

// ValidPresets lists the accepted x264 presets, fastest first.
func ValidPresets() []string {
	return slices.Clone(presets)
}
