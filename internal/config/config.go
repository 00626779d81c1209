package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
}

// Recognizer describes the external phone recognizer executable.
type Recognizer struct {
	Command        string   `toml:"command"`
	Args           []string `toml:"args"`
	Name           string   `toml:"name"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Audio contains input probing and segmentation settings.
type Audio struct {
	FFprobeBinary       string  `toml:"ffprobe_binary"`
	MaxUtteranceSeconds float64 `toml:"max_utterance_seconds"`
}

// Animation contains mouth shape settings.
type Animation struct {
	ExtendedShapes string `toml:"extended_shapes"`
}

// Export contains output format settings.
type Export struct {
	Format          string `toml:"format"`
	DatFrameRate    int    `toml:"dat_frame_rate"`
	DatPrestonBlair bool   `toml:"dat_preston_blair"`
}

// Workers controls recognition parallelism. Zero threads means one per
// available CPU.
type Workers struct {
	Threads int `toml:"threads"`
}

// Cache controls the recognized phone cache.
type Cache struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for lipsync.
//
// Configuration sections by subsystem:
//   - Paths: cache and log directories
//   - Recognizer: phone recognizer command line
//   - Audio: ffprobe binary and utterance length
//   - Animation: extended mouth shapes
//   - Export: default output format and DAT options
//   - Workers: recognition thread count
//   - Cache: phone cache toggle
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Recognizer Recognizer `toml:"recognizer"`
	Audio      Audio      `toml:"audio"`
	Animation  Animation  `toml:"animation"`
	Export     Export     `toml:"export"`
	Workers    Workers    `toml:"workers"`
	Cache      Cache      `toml:"cache"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, invalid("parse config %s: %v", resolvedPath, describeDecodeError(err))
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func describeDecodeError(err error) string {
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		return strings.TrimSpace(strict.String())
	}
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Sprintf("line %d column %d: %s", row, col, decodeErr.Error())
	}
	return err.Error()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("lipsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the cache and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RecognizerTimeout returns the per-utterance recognizer timeout, or 0 for none.
func (c *Config) RecognizerTimeout() time.Duration {
	return time.Duration(c.Recognizer.TimeoutSeconds) * time.Second
}

// FFprobeBinary returns the ffprobe executable used to probe input audio.
func (c *Config) FFprobeBinary() string {
	if binary := strings.TrimSpace(c.Audio.FFprobeBinary); binary != "" {
		return binary
	}
	return defaultFFprobeBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "lipsync")
	}
	return "~/.cache/lipsync"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
