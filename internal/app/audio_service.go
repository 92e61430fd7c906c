package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourusername/yt-audio-go/internal/domain"
	"go.uber.org/zap"
)

// Notifier sends a desktop notification. Implementations must treat
// delivery failure as non-fatal.
type Notifier interface {
	Send(title, message string) error
}

// AudioService orchestrates one download run. Control flow is strictly
// linear: tool check, output directory, probe, optional confirmation,
// fetch, report. Every step gates the next; the first failure terminates
// the run with a classified outcome.
type AudioService struct {
	extractor domain.Extractor
	tools     domain.ToolChecker
	notifier  Notifier
	logger    *zap.Logger
	in        io.Reader
	out       io.Writer
}

// NewAudioService creates a new audio download service. The reader feeds
// the confirmation prompt and the writer receives user-facing status lines.
func NewAudioService(
	extractor domain.Extractor,
	tools domain.ToolChecker,
	notifier Notifier,
	logger *zap.Logger,
	in io.Reader,
	out io.Writer,
) *AudioService {
	return &AudioService{
		extractor: extractor,
		tools:     tools,
		notifier:  notifier,
		logger:    logger,
		in:        in,
		out:       out,
	}
}

// DownloadAudio downloads the audio of a video or playlist URL as MP3
// files into the request's output directory.
func (s *AudioService) DownloadAudio(ctx context.Context, req *domain.Request) domain.Outcome {
	// No directory creation and no network call before the tool check has
	// passed: the transcode step would fail at the very end otherwise.
	if !s.tools.Check() {
		s.printToolHelp()
		return domain.Failed(domain.ResultPrecheckFailed, errors.New("ffmpeg is not installed or not in PATH"))
	}

	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		fmt.Fprintf(s.out, "Error: failed to create output directory: %v\n", err)
		return domain.Failed(domain.ResultPrecheckFailed, fmt.Errorf("failed to create output directory: %w", err))
	}

	s.logger.Info("Starting download run",
		zap.String("id", req.ID),
		zap.String("url", req.URL),
		zap.String("output_dir", req.OutputDir))

	fmt.Fprintln(s.out, "Analyzing URL...")
	info, err := s.extractor.Probe(ctx, req.URL)
	if err != nil {
		s.printFailure(err)
		return domain.Failed(domain.ResultProbeFailed, err)
	}

	if info.IsCollection {
		total := info.TotalEntries()
		available := info.AvailableEntries()

		fmt.Fprintf(s.out, "Found playlist: %s\n", info.DisplayTitle())
		fmt.Fprintf(s.out, "Total videos: %d\n", total)
		fmt.Fprintf(s.out, "Available videos: %d\n", available)
		if total != available {
			fmt.Fprintf(s.out, "Note: %d videos are unavailable and will be skipped\n", total-available)
		}

		if !req.SkipConfirmation && !s.confirm() {
			fmt.Fprintln(s.out, "Download cancelled.")
			s.logger.Info("Download declined by user", zap.String("id", req.ID))
			return domain.Failed(domain.ResultDeclined, nil)
		}

		fmt.Fprintln(s.out, "Downloading playlist...")
	} else {
		fmt.Fprintf(s.out, "Found video: %s\n", info.DisplayTitle())
		fmt.Fprintln(s.out, "Downloading single video...")
	}

	if err := s.extractor.Fetch(ctx, req.URL); err != nil {
		s.printFailure(err)
		return domain.Failed(domain.ResultFetchFailed, err)
	}

	absDir, err := filepath.Abs(req.OutputDir)
	if err != nil {
		absDir = req.OutputDir
	}
	fmt.Fprintf(s.out, "\nDownload completed! Files saved to: %s\n", absDir)
	s.logger.Info("Download run completed",
		zap.String("id", req.ID),
		zap.String("output_dir", absDir))

	if s.notifier != nil {
		if err := s.notifier.Send("yt-audio", "Download completed: "+info.DisplayTitle()); err != nil {
			s.logger.Warn("Failed to send notification", zap.Error(err))
		}
	}

	return domain.Succeeded()
}

// confirm prompts for playlist confirmation. Only a case-insensitive "y"
// or "yes" counts as affirmative; anything else, including an empty line
// or a closed input stream, declines.
func (s *AudioService) confirm() bool {
	fmt.Fprint(s.out, "Do you want to download the available videos? (y/n): ")

	reader := bufio.NewReader(s.in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// printFailure prints a diagnostic that distinguishes download-class
// failures from anything unexpected.
func (s *AudioService) printFailure(err error) {
	if domain.IsExtractionError(err) {
		fmt.Fprintf(s.out, "Download error: %v\n", err)
	} else {
		fmt.Fprintf(s.out, "Unexpected error: %v\n", err)
	}
	s.logger.Error("Download run failed", zap.Error(err))
}

// printToolHelp prints remediation guidance when ffmpeg/ffprobe are
// missing from the search path.
func (s *AudioService) printToolHelp() {
	fmt.Fprintln(s.out, "Error: FFmpeg is not installed or not in PATH!")
	fmt.Fprintln(s.out, "\nPlease install FFmpeg:")
	for _, hint := range s.tools.InstallHints() {
		fmt.Fprintf(s.out, "  - %s\n", hint)
	}
	fmt.Fprintln(s.out, "\nFFmpeg is required to convert audio to MP3 format.")
}
