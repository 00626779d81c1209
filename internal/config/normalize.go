package config

import (
	"fmt"
	"os"
	"strings"
)

// RecognizerEnv overrides an empty recognizer.command.
const RecognizerEnv = "LIPSYNC_RECOGNIZER"

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeRecognizer(); err != nil {
		return err
	}
	c.normalizeAudio()
	c.normalizeAnimation()
	c.normalizeExport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(strings.TrimSpace(c.Paths.CacheDir)); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRecognizer() error {
	c.Recognizer.Command = strings.TrimSpace(c.Recognizer.Command)
	if c.Recognizer.Command == "" {
		if value, ok := os.LookupEnv(RecognizerEnv); ok {
			c.Recognizer.Command = strings.TrimSpace(value)
		}
	}
	if strings.HasPrefix(c.Recognizer.Command, "~") {
		expanded, err := expandPath(c.Recognizer.Command)
		if err != nil {
			return fmt.Errorf("recognizer.command: %w", err)
		}
		c.Recognizer.Command = expanded
	}
	c.Recognizer.Name = strings.TrimSpace(c.Recognizer.Name)
	args := c.Recognizer.Args[:0]
	for _, arg := range c.Recognizer.Args {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			args = append(args, trimmed)
		}
	}
	c.Recognizer.Args = args
	return nil
}

func (c *Config) normalizeAudio() {
	c.Audio.FFprobeBinary = strings.TrimSpace(c.Audio.FFprobeBinary)
	if c.Audio.FFprobeBinary == "" {
		c.Audio.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeAnimation() {
	c.Animation.ExtendedShapes = strings.ToUpper(strings.TrimSpace(c.Animation.ExtendedShapes))
}

func (c *Config) normalizeExport() {
	c.Export.Format = strings.ToLower(strings.TrimSpace(c.Export.Format))
	if c.Export.Format == "" {
		c.Export.Format = defaultExportFormat
	}
	if c.Export.DatFrameRate == 0 {
		c.Export.DatFrameRate = defaultDatFrameRate
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
