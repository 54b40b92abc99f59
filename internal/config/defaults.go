package config

const (
	defaultEngineAddress     = "127.0.0.1:1234"
	defaultConnectTimeout    = 5
	defaultRequestTimeout    = 10
	defaultReconnectInterval = 3
	defaultLogDir            = "~/.local/share/patchbay/logs"
	defaultStateDir          = "~/.local/share/patchbay"
	defaultPollIntervalMS    = 100
	defaultPeakHoldDecay     = 11.0
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns the built-in configuration before any file overlay.
func Default() Config {
	return Config{
		Engine: Engine{
			Address:           defaultEngineAddress,
			ConnectTimeout:    defaultConnectTimeout,
			RequestTimeout:    defaultRequestTimeout,
			ReconnectInterval: defaultReconnectInterval,
		},
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Levels: Levels{
			Enabled:        true,
			PollIntervalMS: defaultPollIntervalMS,
			PeakHoldDecay:  defaultPeakHoldDecay,
		},
		Monitor: Monitor{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
