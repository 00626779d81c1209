package config

const (
	defaultConfigPath          = "~/.config/lipsync/config.toml"
	defaultLogDir              = "~/.local/share/lipsync/logs"
	defaultFFprobeBinary       = "ffprobe"
	defaultMaxUtteranceSeconds = 10
	defaultRecognizerTimeout   = 300
	defaultExtendedShapes      = "GHX"
	defaultExportFormat        = "tsv"
	defaultDatFrameRate        = 24
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir(),
			LogDir:   defaultLogDir,
		},
		Recognizer: Recognizer{
			TimeoutSeconds: defaultRecognizerTimeout,
		},
		Audio: Audio{
			FFprobeBinary:       defaultFFprobeBinary,
			MaxUtteranceSeconds: defaultMaxUtteranceSeconds,
		},
		Animation: Animation{
			ExtendedShapes: defaultExtendedShapes,
		},
		Export: Export{
			Format:       defaultExportFormat,
			DatFrameRate: defaultDatFrameRate,
		},
		Cache: Cache{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
