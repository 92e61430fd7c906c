package domain

// Config represents the application configuration
type Config struct {
	Download     DownloadConfig     `mapstructure:"download"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// DownloadConfig contains download-related configuration.
//
// Only environment concerns live here: which binaries to invoke and where
// the session logs go. The extraction policy itself (audio-only selection,
// MP3 at 320 kbps, ignore-errors) is a fixed contract and not configurable.
type DownloadConfig struct {
	YTDLPBinary   string `mapstructure:"ytdlp_binary"`
	FFmpegBinary  string `mapstructure:"ffmpeg_binary"`
	FFprobeBinary string `mapstructure:"ffprobe_binary"`
	LogsDir       string `mapstructure:"logs_dir"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Download: DownloadConfig{
			YTDLPBinary:   "yt-dlp",
			FFmpegBinary:  "ffmpeg",
			FFprobeBinary: "ffprobe",
			LogsDir:       "$HOME/.yt-audio/logs",
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "osascript",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}
