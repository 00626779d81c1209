package config

import (
	"fmt"
	"math"
	"slices"

	"lipsync/internal/services"
	"lipsync/internal/speech"
)

// ExportFormats lists the accepted export.format values.
var ExportFormats = []string{"tsv", "xml", "json", "dat"}

// DAT frame rate bounds accepted by Moho-compatible importers.
const (
	MinDatFrameRate = 24
	MaxDatFrameRate = 100
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRecognizer(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateAnimation(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateWorkers(); err != nil {
		return err
	}
	return c.validateLogging()
}

// RequireRecognizer reports a configuration error when no recognizer command
// is set. Commands that do not recognize speech skip this check.
func (c *Config) RequireRecognizer() error {
	if c.Recognizer.Command != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return invalid("recognizer.command is required. Set %s or edit %s (create with 'lipsync config init')", RecognizerEnv, defaultPath)
}

func (c *Config) validateRecognizer() error {
	if c.Recognizer.TimeoutSeconds < 0 {
		return invalid("recognizer.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateAudio() error {
	seconds := c.Audio.MaxUtteranceSeconds
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		return invalid("audio.max_utterance_seconds must be positive")
	}
	return nil
}

func (c *Config) validateAnimation() error {
	if _, err := speech.ParseShapeSet(c.Animation.ExtendedShapes); err != nil {
		return invalid("animation.extended_shapes: %v", err)
	}
	return nil
}

func (c *Config) validateExport() error {
	if !slices.Contains(ExportFormats, c.Export.Format) {
		return invalid("export.format must be one of %v, got %q", ExportFormats, c.Export.Format)
	}
	if c.Export.DatFrameRate < MinDatFrameRate || c.Export.DatFrameRate > MaxDatFrameRate {
		return invalid("export.dat_frame_rate must be between %d and %d", MinDatFrameRate, MaxDatFrameRate)
	}
	return nil
}

func (c *Config) validateWorkers() error {
	if c.Workers.Threads < 0 {
		return invalid("workers.threads must not be negative (0 selects one per CPU)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return invalid("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", services.ErrConfiguration, fmt.Sprintf(format, args...))
}
