package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/yt-audio-go/internal/domain"
	"go.uber.org/zap"
)

type fakeExtractor struct {
	probeResult *domain.ProbeResult
	probeErr    error
	fetchErr    error
	probeCalls  int
	fetchCalls  int
}

func (f *fakeExtractor) Probe(ctx context.Context, url string) (*domain.ProbeResult, error) {
	f.probeCalls++
	return f.probeResult, f.probeErr
}

func (f *fakeExtractor) Fetch(ctx context.Context, url string) error {
	f.fetchCalls++
	return f.fetchErr
}

type fakeToolChecker struct {
	ok     bool
	checks int
}

func (f *fakeToolChecker) Check() bool {
	f.checks++
	return f.ok
}

func (f *fakeToolChecker) InstallHints() []string {
	return []string{"Mac: brew install ffmpeg"}
}

type recordingNotifier struct {
	sent []string
}

func (n *recordingNotifier) Send(title, message string) error {
	n.sent = append(n.sent, message)
	return nil
}

type serviceFixture struct {
	service   *AudioService
	extractor *fakeExtractor
	tools     *fakeToolChecker
	notifier  *recordingNotifier
	stdin     *bytes.Buffer
	stdout    *bytes.Buffer
}

func newFixture(extractor *fakeExtractor, toolsOK bool) *serviceFixture {
	f := &serviceFixture{
		extractor: extractor,
		tools:     &fakeToolChecker{ok: toolsOK},
		notifier:  &recordingNotifier{},
		stdin:     &bytes.Buffer{},
		stdout:    &bytes.Buffer{},
	}
	f.service = NewAudioService(f.extractor, f.tools, f.notifier, zap.NewNop(), f.stdin, f.stdout)
	return f
}

func tempOutputDir(t *testing.T) string {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "audio-service-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })
	return filepath.Join(tmpDir, "downloads")
}

func singleVideoResult(title string) *domain.ProbeResult {
	return &domain.ProbeResult{Title: title}
}

func playlistResult(title string, entries ...*domain.ProbeEntry) *domain.ProbeResult {
	return &domain.ProbeResult{Title: title, IsCollection: true, Entries: entries}
}

func TestDownloadAudioSingleVideo(t *testing.T) {
	f := newFixture(&fakeExtractor{probeResult: singleVideoResult("Song")}, true)
	outputDir := tempOutputDir(t)

	req := domain.NewRequest("https://youtu.be/abc123", outputDir, false)
	outcome := f.service.DownloadAudio(context.Background(), req)

	assert.True(t, outcome.Success())
	assert.Equal(t, 1, f.extractor.probeCalls)
	assert.Equal(t, 1, f.extractor.fetchCalls)

	out := f.stdout.String()
	assert.Contains(t, out, "Found video: Song")
	// No confirmation prompt for single items
	assert.NotContains(t, out, "(y/n)")

	absDir, err := filepath.Abs(outputDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Files saved to: "+absDir)
}

func TestDownloadAudioPlaylistConfirmed(t *testing.T) {
	probe := playlistResult("MyList",
		&domain.ProbeEntry{ID: "a", Title: "one"},
		nil,
		&domain.ProbeEntry{ID: "b", Title: "two"},
	)
	f := newFixture(&fakeExtractor{probeResult: probe}, true)
	f.stdin.WriteString("y\n")

	req := domain.NewRequest("https://www.youtube.com/playlist?list=XYZ", tempOutputDir(t), false)
	outcome := f.service.DownloadAudio(context.Background(), req)

	assert.True(t, outcome.Success())
	assert.Equal(t, 1, f.extractor.fetchCalls)

	out := f.stdout.String()
	assert.Contains(t, out, "Found playlist: MyList")
	assert.Contains(t, out, "Total videos: 3")
	assert.Contains(t, out, "Available videos: 2")
	assert.Contains(t, out, "1 videos are unavailable and will be skipped")
	assert.Contains(t, out, "Downloading playlist...")
}

func TestDownloadAudioPlaylistDeclined(t *testing.T) {
	probe := playlistResult("MyList",
		&domain.ProbeEntry{ID: "a"},
		nil,
		&domain.ProbeEntry{ID: "b"},
	)
	f := newFixture(&fakeExtractor{probeResult: probe}, true)
	f.stdin.WriteString("n\n")

	req := domain.NewRequest("https://www.youtube.com/playlist?list=XYZ", tempOutputDir(t), false)
	outcome := f.service.DownloadAudio(context.Background(), req)

	assert.False(t, outcome.Success())
	assert.Equal(t, domain.ResultDeclined, outcome.Kind)
	assert.Equal(t, 0, f.extractor.fetchCalls)
	assert.Contains(t, f.stdout.String(), "Download cancelled.")
}

func TestDownloadAudioConfirmationAnswers(t *testing.T) {
	tests := []struct {
		input    string
		accepted bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"", false}, // closed stdin
		{"yep\n", false},
	}

	for _, tt := range tests {
		t.Run("input "+strings.TrimSpace(tt.input), func(t *testing.T) {
			probe := playlistResult("MyList", &domain.ProbeEntry{ID: "a"})
			f := newFixture(&fakeExtractor{probeResult: probe}, true)
			f.stdin.WriteString(tt.input)

			req := domain.NewRequest("https://www.youtube.com/playlist?list=X", tempOutputDir(t), false)
			outcome := f.service.DownloadAudio(context.Background(), req)

			assert.Equal(t, tt.accepted, outcome.Success())
			if tt.accepted {
				assert.Equal(t, 1, f.extractor.fetchCalls)
			} else {
				assert.Equal(t, domain.ResultDeclined, outcome.Kind)
				assert.Equal(t, 0, f.extractor.fetchCalls)
			}
		})
	}
}

func TestDownloadAudioPlaylistNoConfirmFlag(t *testing.T) {
	probe := playlistResult("MyList", &domain.ProbeEntry{ID: "a"})
	f := newFixture(&fakeExtractor{probeResult: probe}, true)
	// Empty stdin: a prompt would read EOF and decline

	req := domain.NewRequest("https://www.youtube.com/playlist?list=X", tempOutputDir(t), true)
	outcome := f.service.DownloadAudio(context.Background(), req)

	assert.True(t, outcome.Success())
	assert.NotContains(t, f.stdout.String(), "(y/n)")
}

func TestDownloadAudioNoUnavailableWarningWhenAllPresent(t *testing.T) {
	probe := playlistResult("MyList",
		&domain.ProbeEntry{ID: "a"},
		&domain.ProbeEntry{ID: "b"},
	)
	f := newFixture(&fakeExtractor{probeResult: probe}, true)
	f.stdin.WriteString("yes\n")

	req := domain.NewRequest("https://www.youtube.com/playlist?list=X", tempOutputDir(t), false)
	outcome := f.service.DownloadAudio(context.Background(), req)

	assert.True(t, outcome.Success())
	assert.NotContains(t, f.stdout.String(), "unavailable")
}

func TestDownloadAudioToolCheckFailure(t *testing.T) {
	f := newFixture(&fakeExtractor{probeResult: singleVideoResult("Song")}, false)
	outputDir := tempOutputDir(t)

	req := domain.NewRequest("https://youtu.be/abc123", outputDir, false)
	outcome := f.service.DownloadAudio(context.Background(), req)

	assert.False(t, outcome.Success())
	assert.Equal(t, domain.ResultPrecheckFailed, outcome.Kind)

	// No network call and no directory creation before the tool check
	assert.Equal(t, 0, f.extractor.probeCalls)
	assert.Equal(t, 0, f.extractor.fetchCalls)
	_, err := os.Stat(outputDir)
	assert.True(t, os.IsNotExist(err))

	assert.Contains(t, f.stdout.String(), "brew install ffmpeg")
}

func TestDownloadAudioOutputDirIdempotent(t *testing.T) {
	outputDir := tempOutputDir(t)
	require.NoError(t, os.MkdirAll(outputDir, 0755))

	f := newFixture(&fakeExtractor{probeResult: singleVideoResult("Song")}, true)
	req := domain.NewRequest("https://youtu.be/abc123", outputDir, false)

	// Re-running against the existing directory must not error
	assert.True(t, f.service.DownloadAudio(context.Background(), req).Success())
	assert.True(t, f.service.DownloadAudio(context.Background(), req).Success())
}

func TestDownloadAudioProbeFailureDownloadClass(t *testing.T) {
	probeErr := &domain.ExtractionError{Stage: "probe", Message: "Video unavailable"}
	f := newFixture(&fakeExtractor{probeErr: probeErr}, true)

	req := domain.NewRequest("https://youtu.be/abc123", tempOutputDir(t), false)
	outcome := f.service.DownloadAudio(context.Background(), req)

	assert.Equal(t, domain.ResultProbeFailed, outcome.Kind)
	assert.Equal(t, 0, f.extractor.fetchCalls)
	assert.Contains(t, f.stdout.String(), "Download error:")
}

func TestDownloadAudioProbeFailureUnexpected(t *testing.T) {
	f := newFixture(&fakeExtractor{probeErr: errors.New("file system full")}, true)

	req := domain.NewRequest("https://youtu.be/abc123", tempOutputDir(t), false)
	outcome := f.service.DownloadAudio(context.Background(), req)

	assert.Equal(t, domain.ResultProbeFailed, outcome.Kind)
	assert.Contains(t, f.stdout.String(), "Unexpected error:")
	assert.NotContains(t, f.stdout.String(), "Download error:")
}

func TestDownloadAudioFetchFailure(t *testing.T) {
	fetchErr := &domain.ExtractionError{Stage: "fetch", Message: "HTTP Error 403"}
	f := newFixture(&fakeExtractor{probeResult: singleVideoResult("Song"), fetchErr: fetchErr}, true)

	req := domain.NewRequest("https://youtu.be/abc123", tempOutputDir(t), false)
	outcome := f.service.DownloadAudio(context.Background(), req)

	assert.Equal(t, domain.ResultFetchFailed, outcome.Kind)
	assert.Contains(t, f.stdout.String(), "Download error:")
	assert.Empty(t, f.notifier.sent)
}

func TestDownloadAudioNotifiesOnSuccess(t *testing.T) {
	f := newFixture(&fakeExtractor{probeResult: singleVideoResult("Song")}, true)

	req := domain.NewRequest("https://youtu.be/abc123", tempOutputDir(t), false)
	require.True(t, f.service.DownloadAudio(context.Background(), req).Success())

	require.Len(t, f.notifier.sent, 1)
	assert.Contains(t, f.notifier.sent[0], "Song")
}

func TestDownloadAudioNilNotifier(t *testing.T) {
	extractor := &fakeExtractor{probeResult: singleVideoResult("Song")}
	service := NewAudioService(extractor, &fakeToolChecker{ok: true}, nil, zap.NewNop(), &bytes.Buffer{}, &bytes.Buffer{})

	req := domain.NewRequest("https://youtu.be/abc123", tempOutputDir(t), false)
	assert.True(t, service.DownloadAudio(context.Background(), req).Success())
}
