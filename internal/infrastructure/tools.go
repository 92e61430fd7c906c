package infrastructure

import (
	"os/exec"

	"github.com/yourusername/yt-audio-go/internal/domain"
	"go.uber.org/zap"
)

// LookPathFunc resolves a binary name against the search path. It exists
// so tests can substitute a fake for exec.LookPath.
type LookPathFunc func(name string) (string, error)

// ToolChecker verifies that the external transcoding tools are present.
// It keeps no state between calls; every Check hits the search path again.
type ToolChecker struct {
	config   *domain.DownloadConfig
	lookPath LookPathFunc
	logger   *zap.Logger
}

// NewToolChecker creates a new tool checker backed by exec.LookPath
func NewToolChecker(config *domain.DownloadConfig, logger *zap.Logger) *ToolChecker {
	return &ToolChecker{
		config:   config,
		lookPath: exec.LookPath,
		logger:   logger,
	}
}

// Check reports whether ffmpeg and its companion ffprobe are discoverable
// on the search path. It never returns an error; a missing tool is a
// plain false so the caller can print remediation guidance.
func (t *ToolChecker) Check() bool {
	for _, binary := range []string{t.config.FFmpegBinary, t.config.FFprobeBinary} {
		if _, err := t.lookPath(binary); err != nil {
			t.logger.Warn("Required tool not found in PATH",
				zap.String("binary", binary),
				zap.Error(err))
			return false
		}
	}
	return true
}

// InstallHints returns informal install guidance, one hint per major OS
// family.
func (t *ToolChecker) InstallHints() []string {
	return []string{
		"Windows: download from https://ffmpeg.org/download.html",
		"Mac: brew install ffmpeg",
		"Linux: sudo apt install ffmpeg (Ubuntu/Debian)",
	}
}
