package config

const (
	defaultDownloadDir  = "~/Downloads/reelfetch"
	defaultHistoryFile  = "~/.config/reelfetch/download_history.json"
	defaultLogDir       = "~/.local/share/reelfetch/logs"
	defaultDelaySeconds = 3.0
	defaultMaxRetries   = 3
	defaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultBaseURL      = "https://www.instagram.com"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			HistoryFile: defaultHistoryFile,
			LogDir:      defaultLogDir,
		},
		Pacing: Pacing{
			DelaySeconds: defaultDelaySeconds,
			MaxRetries:   defaultMaxRetries,
		},
		Instagram: Instagram{
			UserAgent: defaultUserAgent,
			BaseURL:   defaultBaseURL,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
