package config

const (
	defaultLogDir               = "~/.local/share/mediaconv/logs"
	defaultStateDir             = "~/.local/share/mediaconv"
	defaultFFmpegBinary         = "ffmpeg"
	defaultExternalBinary       = "ffmpeg"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultNotifyRequestTimeout = 10
	defaultWatchSettleSeconds   = 2
)

// Default returns the repository defaults prior to normalization.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Tools: Tools{
			FFmpegBinary:   defaultFFmpegBinary,
			ExternalBinary: defaultExternalBinary,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Reveal:         true,
			Sound:          true,
			Push:           true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Watch: Watch{
			SettleSeconds: defaultWatchSettleSeconds,
		},
	}
}
