package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourusername/yt-audio-go/internal/domain"
	"go.uber.org/zap"
)

// YTDLPExtractor implements domain.Extractor by invoking the yt-dlp
// binary. Probe and Fetch share the same configured value, so yt-dlp's own
// cache and auth state carry over between the two calls.
type YTDLPExtractor struct {
	config    *domain.DownloadConfig
	outputDir string
	requestID string
	console   io.Writer
	logger    *zap.Logger
}

// NewYTDLPExtractor creates a new yt-dlp backed extractor writing live
// output to console.
func NewYTDLPExtractor(config *domain.DownloadConfig, outputDir, requestID string, console io.Writer, logger *zap.Logger) *YTDLPExtractor {
	return &YTDLPExtractor{
		config:    config,
		outputDir: outputDir,
		requestID: requestID,
		console:   console,
		logger:    logger,
	}
}

// policyArgs is the fixed, non-configurable extraction policy shared by
// probe and fetch: tolerate per-item failures, don't abort on a single
// unavailable fragment, and request alternate client identities to work
// around platform-side access restrictions (opaque pass-through).
func (e *YTDLPExtractor) policyArgs() []string {
	return []string{
		"--ignore-errors",
		"--no-abort-on-unavailable-fragments",
		"--extractor-args", "youtube:player_client=android,web;player_skip=webpage,configs",
	}
}

// probeArgs builds the argument list for the information-only query
func (e *YTDLPExtractor) probeArgs(url string) []string {
	args := []string{"--dump-single-json", "--no-warnings"}
	args = append(args, e.policyArgs()...)
	return append(args, url)
}

// fetchArgs builds the argument list for the real retrieval+transcode run
func (e *YTDLPExtractor) fetchArgs(url string) []string {
	args := []string{
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "320K",
		"--output", filepath.Join(e.outputDir, "%(title)s.%(ext)s"),
		"--no-write-thumbnail",
		"--no-write-info-json",
		"--no-embed-subs",
		"--no-keep-video",
	}
	args = append(args, e.policyArgs()...)
	return append(args, url)
}

// probePayload is the subset of yt-dlp's JSON dump the probe needs
type probePayload struct {
	Type    string               `json:"_type"`
	Title   string               `json:"title"`
	Entries []*domain.ProbeEntry `json:"entries"`
}

// parseProbeOutput decodes a yt-dlp JSON dump into a probe result. Null
// entries are preserved: they mark items yt-dlp reported as unavailable.
func parseProbeOutput(data []byte) (*domain.ProbeResult, error) {
	var payload probePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode probe output: %w", err)
	}
	return &domain.ProbeResult{
		Title:        payload.Title,
		IsCollection: payload.Type == "playlist" || payload.Entries != nil,
		Entries:      payload.Entries,
	}, nil
}

// Probe runs yt-dlp in information-only mode and classifies the target
func (e *YTDLPExtractor) Probe(ctx context.Context, url string) (*domain.ProbeResult, error) {
	args := e.probeArgs(url)
	e.logger.Debug("Probing URL",
		zap.String("id", e.requestID),
		zap.String("url", url))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.config.YTDLPBinary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	// With --ignore-errors yt-dlp can exit non-zero and still emit a usable
	// JSON dump (some playlist items unavailable). Prefer the dump when it
	// parses; fall back to error classification otherwise.
	result, parseErr := parseProbeOutput(stdout.Bytes())
	if parseErr != nil {
		if runErr != nil {
			return nil, e.classify("probe", runErr, stderr.String())
		}
		return nil, parseErr
	}

	return result, nil
}

// Fetch runs the actual retrieval and transcode. yt-dlp's combined output
// goes to the console and to a per-day session log file.
func (e *YTDLPExtractor) Fetch(ctx context.Context, url string) error {
	args := e.fetchArgs(url)

	sink := e.console
	sessionLog, err := e.openSessionLog()
	if err != nil {
		e.logger.Warn("Session log unavailable", zap.Error(err))
	} else {
		defer sessionLog.Close()
		e.writeLogHeader(sessionLog, ShellQuoteCommand(e.config.YTDLPBinary, args...))
		sink = io.MultiWriter(e.console, sessionLog)
	}

	e.logger.Info("Fetching media",
		zap.String("id", e.requestID),
		zap.String("url", url),
		zap.String("output_dir", e.outputDir))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.config.YTDLPBinary, args...)
	cmd.Stdout = sink
	cmd.Stderr = io.MultiWriter(sink, &stderr)

	if runErr := cmd.Run(); runErr != nil {
		fetchErr := e.classify("fetch", runErr, stderr.String())
		if sessionLog != nil {
			e.writeLogFooter(sessionLog, false, fetchErr.Error())
		}
		return fetchErr
	}

	if sessionLog != nil {
		e.writeLogFooter(sessionLog, true, "saved to "+e.outputDir)
	}
	return nil
}

// classify turns a yt-dlp process failure into a download-class error when
// the process ran and reported an extraction fault. Anything else (binary
// not startable, context cancelled before exec) stays a generic error.
func (e *YTDLPExtractor) classify(stage string, runErr error, stderr string) error {
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		message := lastErrorLine(stderr)
		if message == "" {
			message = runErr.Error()
		}
		return &domain.ExtractionError{Stage: stage, Message: message}
	}
	return fmt.Errorf("%s: %w", stage, runErr)
}

// lastErrorLine returns the last "ERROR:" line yt-dlp printed, stripped of
// the prefix.
func lastErrorLine(output string) string {
	var last string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "ERROR:") {
			last = strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))
		}
	}
	return last
}

// openSessionLog opens the per-day session log in append mode
func (e *YTDLPExtractor) openSessionLog() (*os.File, error) {
	logsDir := e.config.LogsDir
	if logsDir == "" {
		return nil, errors.New("logs directory not configured")
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	dateStr := time.Now().Format("20060102")
	logPath := filepath.Join(logsDir, "download-"+dateStr+".log")
	return os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// writeLogHeader writes the session start marker with the request ID and
// the command line being run
func (e *YTDLPExtractor) writeLogHeader(file *os.File, cmdLine string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	file.WriteString(fmt.Sprintf("\n=== [%s] Request: %s ===\n", timestamp, e.requestID))
	file.WriteString(fmt.Sprintf("$ %s\n", cmdLine))
}

// writeLogFooter writes the session end marker
func (e *YTDLPExtractor) writeLogFooter(file *os.File, success bool, message string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	status := "SUCCESS"
	if !success {
		status = "FAILED"
	}
	file.WriteString(fmt.Sprintf("[%s] %s: %s\n", timestamp, status, message))
	file.WriteString("=== END ===\n\n")
}
