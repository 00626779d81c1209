// Package testsupport builds configs, stub binaries and sample files for
// tests that exercise lipsync end to end.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"lipsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// RecognizerScript answers every request with HH over the first half of the
// requested range and AA over the second half.
const RecognizerScript = `#!/bin/sh
start=0
end=0
while [ $# -gt 0 ]; do
  case "$1" in
    --start) start=$2; shift 2 ;;
    --end) end=$2; shift 2 ;;
    *) shift ;;
  esac
done
awk -v s="$start" -v e="$end" 'BEGIN {
  m = (s + e) / 2
  printf "# stub recognizer\n"
  printf "progress\t0.5\n"
  printf "%.2f\t%.2f\tHH\n%.2f\t%.2f\tAA\n", s, m, m, e
}'
`

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Workers.Threads = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithStubbedBinaries writes stub executables that exit successfully for the
// provided names and prepends them to PATH.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		for _, name := range names {
			b.writeBinary(name, "#!/bin/sh\nexit 0\n")
		}
	}
}

// WithFFprobeOutput installs an ffprobe stub that prints output and points
// the audio section at it.
func WithFFprobeOutput(output string) ConfigOption {
	return func(b *configBuilder) {
		dataPath := filepath.Join(b.baseDir, "ffprobe.json")
		if err := os.WriteFile(dataPath, []byte(output), 0o644); err != nil {
			b.t.Fatalf("write ffprobe output: %v", err)
		}
		b.cfg.Audio.FFprobeBinary = b.writeBinary("ffprobe", "#!/bin/sh\ncat '"+dataPath+"'\n")
	}
}

// WithRecognizerScript installs script as the recognizer command.
func WithRecognizerScript(script string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Recognizer.Command = b.writeBinary("recognizer", script)
	}
}

func (b *configBuilder) writeBinary(name, script string) string {
	b.t.Helper()
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", name, err)
	}
	b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return target
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.CacheDir)
}

// FFprobeAudio returns ffprobe JSON describing one audio stream of the given
// length in seconds.
func FFprobeAudio(seconds string) string {
	return `{"streams":[{"index":0,"codec_name":"pcm_s16le","codec_type":"audio","sample_rate":"16000","channels":1,"duration":"` +
		seconds + `"}],"format":{"duration":"` + seconds + `"}}`
}
