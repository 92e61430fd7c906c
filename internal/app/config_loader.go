package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/yourusername/yt-audio-go/internal/domain"
)

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	defaults := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.AddConfigPath("$HOME/.yt-audio")
		v.AddConfigPath("/etc/yt-audio")
	}

	// Defaults must be registered key by key so environment overrides are
	// visible to Unmarshal.
	v.SetDefault("download.ytdlp_binary", defaults.Download.YTDLPBinary)
	v.SetDefault("download.ffmpeg_binary", defaults.Download.FFmpegBinary)
	v.SetDefault("download.ffprobe_binary", defaults.Download.FFprobeBinary)
	v.SetDefault("download.logs_dir", defaults.Download.LogsDir)
	v.SetDefault("notification.enabled", defaults.Notification.Enabled)
	v.SetDefault("notification.method", defaults.Notification.Method)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.output_path", defaults.Logging.OutputPath)

	v.SetEnvPrefix("YTAUDIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) {
	config.Download.LogsDir = expandPath(config.Download.LogsDir)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	if strings.Contains(path, "$HOME") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = strings.ReplaceAll(path, "$HOME", home)
		}
	}

	return path
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Download.YTDLPBinary == "" {
		return fmt.Errorf("yt-dlp binary not configured")
	}

	if config.Download.FFmpegBinary == "" || config.Download.FFprobeBinary == "" {
		return fmt.Errorf("ffmpeg/ffprobe binaries not configured")
	}

	if config.Notification.Enabled && config.Notification.Method == "" {
		return fmt.Errorf("notification method not configured")
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}
