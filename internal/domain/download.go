package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ResultKind classifies the outcome of a download run
type ResultKind string

const (
	ResultSuccess        ResultKind = "success"
	ResultPrecheckFailed ResultKind = "precheck_failed"
	ResultProbeFailed    ResultKind = "probe_failed"
	ResultDeclined       ResultKind = "declined"
	ResultFetchFailed    ResultKind = "fetch_failed"
)

// Request describes one download invocation. It is built once from the
// parsed command line and never mutated afterwards.
type Request struct {
	ID               string
	URL              string
	OutputDir        string
	SkipConfirmation bool
}

// NewRequest creates a new download request with a fresh ID
func NewRequest(url, outputDir string, skipConfirmation bool) *Request {
	return &Request{
		ID:               uuid.New().String(),
		URL:              url,
		OutputDir:        outputDir,
		SkipConfirmation: skipConfirmation,
	}
}

// Outcome is the result of a download run. Callers branch on Kind rather
// than inspecting error types; Err carries the underlying cause when one
// exists (a user decline has none).
type Outcome struct {
	Kind ResultKind
	Err  error
}

// Success reports whether the run completed without failure
func (o Outcome) Success() bool {
	return o.Kind == ResultSuccess
}

// Succeeded returns a successful outcome
func Succeeded() Outcome {
	return Outcome{Kind: ResultSuccess}
}

// Failed returns a failure outcome of the given kind
func Failed(kind ResultKind, err error) Outcome {
	return Outcome{Kind: kind, Err: err}
}

// ValidateURL rejects input that does not look like a YouTube URL.
//
// This is a shallow substring check, not a security boundary: any string
// containing one of the recognized host names anywhere passes.
func ValidateURL(url string) error {
	if strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be") {
		return nil
	}
	return fmt.Errorf("not a YouTube URL: %s", url)
}
