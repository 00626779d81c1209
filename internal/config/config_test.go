package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"lipsync/internal/config"
	"lipsync/internal/services"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv(config.RecognizerEnv, "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, ".cache", "lipsync"); cfg.Paths.CacheDir != want {
		t.Fatalf("unexpected cache dir: got %q want %q", cfg.Paths.CacheDir, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "lipsync", "logs"); cfg.Paths.LogDir != want {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, want)
	}
	if cfg.Export.Format != "tsv" || cfg.Export.DatFrameRate != 24 {
		t.Fatalf("unexpected export defaults: %+v", cfg.Export)
	}
	if cfg.Animation.ExtendedShapes != "GHX" {
		t.Fatalf("unexpected extended shapes %q", cfg.Animation.ExtendedShapes)
	}
	if !cfg.Cache.Enabled {
		t.Fatal("expected cache enabled by default")
	}
	if cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected ffprobe binary %q", cfg.FFprobeBinary())
	}
	if err := cfg.RequireRecognizer(); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected missing recognizer to be a configuration error, got %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.CacheDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "lipsync.toml")

	type payload struct {
		Recognizer struct {
			Command        string   `toml:"command"`
			Args           []string `toml:"args"`
			TimeoutSeconds int      `toml:"timeout_seconds"`
		} `toml:"recognizer"`
		Export struct {
			Format       string `toml:"format"`
			DatFrameRate int    `toml:"dat_frame_rate"`
		} `toml:"export"`
		Workers struct {
			Threads int `toml:"threads"`
		} `toml:"workers"`
	}
	custom := payload{}
	custom.Recognizer.Command = "/usr/local/bin/phonerec"
	custom.Recognizer.Args = []string{" --model ", "", "en"}
	custom.Recognizer.TimeoutSeconds = 30
	custom.Export.Format = "JSON"
	custom.Export.DatFrameRate = 30
	custom.Workers.Threads = 3
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Recognizer.Command != "/usr/local/bin/phonerec" {
		t.Fatalf("unexpected recognizer command %q", cfg.Recognizer.Command)
	}
	if strings.Join(cfg.Recognizer.Args, ",") != "--model,en" {
		t.Fatalf("expected trimmed args, got %q", cfg.Recognizer.Args)
	}
	if cfg.RecognizerTimeout().Seconds() != 30 {
		t.Fatalf("unexpected timeout %v", cfg.RecognizerTimeout())
	}
	if cfg.Export.Format != "json" {
		t.Fatalf("expected lower-cased format, got %q", cfg.Export.Format)
	}
	if cfg.Workers.Threads != 3 {
		t.Fatalf("unexpected threads %d", cfg.Workers.Threads)
	}
	if err := cfg.RequireRecognizer(); err != nil {
		t.Fatalf("RequireRecognizer: %v", err)
	}
}

func TestRecognizerFromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.RecognizerEnv, "  /opt/phonerec  ")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Recognizer.Command != "/opt/phonerec" {
		t.Fatalf("expected recognizer from env, got %q", cfg.Recognizer.Command)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "lipsync.toml")
	if err := os.WriteFile(configPath, []byte("[export]\nfromat = \"xml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, _, err := config.Load(configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "fromat") {
		t.Fatalf("expected unknown key in error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[recognizer]") {
		t.Fatalf("sample config missing recognizer section: %s", contents)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample does not load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Export.Format != config.Default().Export.Format {
		t.Fatalf("sample export format %q differs from default", cfg.Export.Format)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"negative timeout", func(c *config.Config) { c.Recognizer.TimeoutSeconds = -1 }},
		{"zero utterance length", func(c *config.Config) { c.Audio.MaxUtteranceSeconds = 0 }},
		{"unknown shape", func(c *config.Config) { c.Animation.ExtendedShapes = "GQ" }},
		{"unknown format", func(c *config.Config) { c.Export.Format = "csv" }},
		{"slow dat", func(c *config.Config) { c.Export.DatFrameRate = 23 }},
		{"fast dat", func(c *config.Config) { c.Export.DatFrameRate = 101 }},
		{"negative threads", func(c *config.Config) { c.Workers.Threads = -2 }},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"log level", func(c *config.Config) { c.Logging.Level = "verbose" }},
	}
	base := config.Default()
	if err := base.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
}
